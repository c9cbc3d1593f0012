package storage

import (
	"context"

	"opsboard/pkg/types"
)

// Uploader is the bucket contract: put an object, get back the descriptor the
// owning record stores. Upload failures are not retried here; the caller
// surfaces them and the user re-attempts.
type Uploader interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (*types.UploadedMedia, error)
	Delete(ctx context.Context, path string) error
	PublicURL(path string) string
}
