package blob

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Drive uploads files into a Google Drive folder with a service account.
type Drive struct {
	files    *drive.FilesService
	folderID string
}

// NewDrive builds a Drive uploader. credentialsJSON wins over credentialsFile.
func NewDrive(ctx context.Context, credentialsFile, credentialsJSON, folderID string, extra ...option.ClientOption) (*Drive, error) {
	opts := []option.ClientOption{option.WithScopes(drive.DriveScope)}
	switch {
	case credentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	case credentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	opts = append(opts, extra...)

	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("drive: create service: %w", err)
	}
	return &Drive{files: svc.Files, folderID: folderID}, nil
}

// Upload creates the file under the configured folder and returns a direct link.
func (d *Drive) Upload(ctx context.Context, r io.Reader, filename, mimeType string) (string, error) {
	meta := &drive.File{Name: objectName(filename), MimeType: mimeType}
	if d.folderID != "" {
		meta.Parents = []string{d.folderID}
	}
	var media []googleapi.MediaOption
	if mimeType != "" {
		media = append(media, googleapi.ContentType(mimeType))
	}
	created, err := d.files.Create(meta).Media(r, media...).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%w: drive: %v", ErrUpload, err)
	}
	return "https://drive.google.com/uc?id=" + created.Id, nil
}
