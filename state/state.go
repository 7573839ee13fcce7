package state

import (
	"context"
	"errors"
)

// Standard state store errors.
var (
	ErrClosed = errors.New("state: store closed")
)

// Store is a durable key-value store used to persist small pieces of
// workbench state, such as the buffer binding table, across process
// restarts.
type Store interface {
	// Get returns the value for key. The second result is false when
	// the key has never been written.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put writes value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Close releases the store's resources.
	Close(ctx context.Context) error
}
