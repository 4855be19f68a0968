package port

import (
	"context"
	"io"
)

// UploadInput describes one archived export file.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
	// Metadata is stored as object user metadata (entity, variant, rows).
	Metadata map[string]string
}

// UploadOutput identifies the stored archive object.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage is the optional archive for generated export files.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
}
