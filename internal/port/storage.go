package port

import (
	"context"
	"io"
)

// ObjectStorage abstracts the blob store used for archiving uploaded
// transcripts.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
