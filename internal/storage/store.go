// Package storage provides abstractions for persistent data storage.
package storage

import "context"

// Store defines the interface for the persistent key-value store backing the
// catalog and the bill session. This abstraction allows swapping storage
// backends (SQLite, flat files, etc.) without changing the managers.
//
// Access discipline is last-writer-wins per key with no transactions across
// keys; the intended usage is a single active user at a time.
type Store interface {
	// Get returns the value stored under key.
	// Returns nil and no error if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Watch subscribes to change notifications for key. The returned
	// channel receives the key name after every Put or Delete of that key.
	// Notifications are advisory and best-effort: a receiver reloads its
	// view of the key's owner, nothing is pushed incrementally, and a
	// missed signal only affects freshness. The returned func cancels the
	// subscription.
	Watch(key string) (<-chan string, func())

	// Close releases any resources held by the store.
	Close() error
}
