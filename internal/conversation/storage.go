package conversation

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("conversation not found")

// Storage persists conversation documents by key. Implementations must keep
// writes for different keys independent of each other.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, doc []byte) error
	Delete(ctx context.Context, key string) error
}
