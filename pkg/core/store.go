package core

import "context"

// Store defines the contract for the key-value storage backing a
// scratchpad profile. Adhering to this interface keeps the core
// independent of the underlying medium (plain files, bbolt, memory).
type Store interface {
	// Set persists value under key, overwriting any previous value.
	// The round trip is byte-exact: Get returns precisely what Set
	// received, including the empty string.
	Set(ctx context.Context, key, value string) error

	// Get retrieves the value stored under key.
	// It returns ErrNotFound when the key has never been written.
	Get(ctx context.Context, key string) (string, error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Probe verifies the store is usable by writing and removing a
	// private sentinel. A nil return means writes can be expected to
	// succeed; any error means the profile is effectively read-only or
	// broken. A successful probe leaves no residue.
	Probe(ctx context.Context) error

	// Initialize ensures the underlying storage is ready (e.g. create
	// directories, open the database, run schema setup).
	Initialize(ctx context.Context) error

	// Close releases resources held by the store.
	Close() error
}

// Watchable is implemented by stores that can notify about changes made
// by other processes sharing the same profile.
type Watchable interface {
	// Watch emits an Event for every observed change whose key matches
	// the glob pattern. The channel closes when ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// Meterable is implemented by stores that can report how much of their
// byte budget is in use.
type Meterable interface {
	Usage(ctx context.Context) (Usage, error)
}

// Usage describes store occupancy.
type Usage struct {
	UsedBytes  int64 `json:"used_bytes"`
	QuotaBytes int64 `json:"quota_bytes"` // 0 = unlimited
	Keys       int   `json:"keys"`
}
