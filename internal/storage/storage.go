// Package storage provides the durable key-value byte storage the stores
// serialize their state to. Each store owns one namespaced key and writes its
// entire state as a single document on every mutation.
package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound indicates the requested key has never been saved.
var ErrKeyNotFound = errors.New("storage key not found")

// IsKeyNotFound checks if error is a missing-key error.
func IsKeyNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}

// Adapter is the persistence contract the stores depend on.
type Adapter interface {
	// Load returns the bytes stored under key, or ErrKeyNotFound.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save stores data under key, replacing any previous value.
	Save(ctx context.Context, key string, data []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
