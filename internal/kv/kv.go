package kv

import (
	"context"
	"errors"
)

// Store is the durable key-value contract the core persists through: JSON
// blobs under opaque keys. Consumers define this interface, not the backend
// implementations.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

var ErrKeyNotFound = errors.New("key not found")
