package core

import "context"

// Store is the key-value contract every storage adapter implements.
// Values are opaque text; callers own serialization.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Keys lists the keys currently present.
	Keys(ctx context.Context) ([]string, error)

	// Initialize ensures the underlying storage is ready (directories, schema).
	Initialize(ctx context.Context) error
}

// Transaction stages writes across several keys and applies them together.
type Transaction interface {
	// Get prefers the staged value when the key was touched in the transaction.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stages a write.
	Set(ctx context.Context, key, value string) error

	// Remove stages a removal.
	Remove(ctx context.Context, key string) error

	// Commit applies all staged changes. If any write fails the adapter
	// restores the keys it had already touched.
	Commit(ctx context.Context) error

	// Rollback discards all staged changes.
	Rollback(ctx context.Context) error
}

// Transactional is implemented by stores that support multi-key transactions.
type Transactional interface {
	Store
	Begin(ctx context.Context) (Transaction, error)
}

// Watchable is implemented by stores that can report changes made by other
// writers. pattern is a glob matched against keys.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
