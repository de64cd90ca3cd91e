package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound is returned by Open when the key does not resolve to a stored object.
var ErrObjectNotFound = errors.New("storage: object not found")

// Object describes a blob persisted by a Backend.
type Object struct {
	Key         string
	Size        int64
	ContentType string
}

// Backend stores and removes attachment blobs addressed by a relative key.
type Backend interface {
	Save(ctx context.Context, key string, r io.Reader, contentType string) (Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// DirectLinker is implemented by backends that can hand out time-limited URLs
// to their objects.
type DirectLinker interface {
	SignedURL(key string, ttl time.Duration) (string, error)
}
