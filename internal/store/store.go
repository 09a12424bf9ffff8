// Package store provides the key-value persistence port backing the
// repositories. Values are opaque JSON documents; the repository layer
// owns (de)serialization and the load-modify-store cycle.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("store: key not found")

// Store is a minimal get/set/remove interface over string keys and
// JSON-serialized values.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
