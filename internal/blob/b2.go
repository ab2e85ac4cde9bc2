package blob

import (
	"context"
	"fmt"
	"io"

	"github.com/kurin/blazer/b2"
)

// B2 uploads files into a Backblaze B2 bucket.
type B2 struct {
	bucket *b2.Bucket
}

// NewB2 authorizes the account and resolves the bucket.
func NewB2(ctx context.Context, accountID, appKey, bucketName string) (*B2, error) {
	client, err := b2.NewClient(ctx, accountID, appKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create b2 client: %w", err)
	}
	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}
	return &B2{bucket: bucket}, nil
}

// Upload writes the object and returns its download URL.
func (s *B2) Upload(ctx context.Context, r io.Reader, filename, mimeType string) (string, error) {
	obj := s.bucket.Object("reports/" + objectName(filename))
	w := obj.NewWriter(ctx)
	if mimeType != "" {
		w = w.WithAttrs(&b2.Attrs{ContentType: mimeType})
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("%w: b2: write object: %v", ErrUpload, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("%w: b2: close writer: %v", ErrUpload, err)
	}
	return obj.URL(), nil
}
