// Package store defines the KVStore interface for persisting player
// progress, the server-side counterpart of the browser's local storage.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key has never been set or was deleted.
var ErrNotFound = errors.New("key not found")

// KVStore is a flat, string-valued key-value store.
type KVStore interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the store.
	Close() error
}

// Recovering is implemented by stores that start empty when their backing
// data cannot be read. LoadError reports what was discarded.
type Recovering interface {
	LoadError() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Backends lists the valid backend names.
func Backends() []string {
	return []string{BackendMemory, BackendFile, BackendSQLite}
}

// Open creates a store for the named backend. For file and sqlite backends,
// path is the store file (its directory is created if needed); it is ignored
// for memory.
func Open(backend, path string) (KVStore, error) {
	switch backend {
	case BackendMemory:
		return NewInMemoryStore(), nil
	case BackendFile, "":
		return NewFileStore(path)
	case BackendSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown store backend: %s (valid: memory, file, sqlite)", backend)
	}
}
