package storage

import "context"

//go:generate moq -out kv_mock.go . KVStorage

// KVStorage defines interface for the durable key-value substrate used by
// the update log and the client session. Implementations must be safe for
// use from multiple goroutines.
type KVStorage interface {
	// GetItem retrieves a value by key
	// Returns ErrKeyNotFound if the key has never been written
	GetItem(ctx context.Context, key string) (string, error)

	// SetItem stores or replaces a value under key
	SetItem(ctx context.Context, key, value string) error

	// DeleteItem removes a key; deleting a missing key is not an error
	DeleteItem(ctx context.Context, key string) error
}
