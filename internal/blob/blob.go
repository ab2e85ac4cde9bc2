// Package blob stores uploaded evidence photos with a remote file service
// and hands back a URL the report can reference.
package blob

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"hostelreport/internal/metrics"
)

var (
	// ErrUpload wraps every failure reported by a remote backend.
	ErrUpload = errors.New("image upload failed")
	// ErrNotConfigured is returned when no backend was configured.
	ErrNotConfigured = errors.New("image storage not configured")
)

// Uploader stores a file and returns a public retrieval URL.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, filename, mimeType string) (string, error)
}

// Disabled rejects every upload.
type Disabled struct{}

// Upload always fails with ErrNotConfigured.
func (Disabled) Upload(context.Context, io.Reader, string, string) (string, error) {
	return "", ErrNotConfigured
}

// Instrumented records upload counts and latency for an Uploader.
type Instrumented struct {
	Uploader
	Backend string
}

// Upload delegates and observes the outcome.
func (i Instrumented) Upload(ctx context.Context, r io.Reader, filename, mimeType string) (string, error) {
	start := time.Now()
	url, err := i.Uploader.Upload(ctx, r, filename, mimeType)
	metrics.Uploads.WithLabelValues(i.Backend, metrics.Outcome(err)).Inc()
	metrics.UploadDuration.WithLabelValues(i.Backend).Observe(time.Since(start).Seconds())
	return url, err
}

// objectName prefixes the client filename with a UUID so uploads never clash.
func objectName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	return uuid.NewString() + "-" + base
}
