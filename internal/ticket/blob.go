package ticket

import (
	"context"
	"time"
)

// BlobStore is the object-storage collaborator for ticket images.
// Upload overwrites any existing object at the same path.
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
	Remove(ctx context.Context, path string) error
}
