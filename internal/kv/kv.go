// Package kv is the key-value persistence used by the board when it stores its
// state with the browser layout (one value per key).
package kv

import "context"

// Store is a durable key-value store.
type Store interface {
	// Get returns the value of a key, false if the key is missing.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores the value of a key replacing the previous one.
	Set(ctx context.Context, key string, value []byte) error
}
