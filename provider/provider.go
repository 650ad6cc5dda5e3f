// Package provider defines the storage contract used by memocache.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly the
// same []byte that was previously passed to Set for a key (no prepended/appended
// metadata, no re-encoding, no mutation). If a store performs internal transforms
// (e.g., compression), they MUST be fully reversed before returning.
//
// Keys handed to a provider are "<namespace>:<sha256 hex>". Providers that share a
// backend with other applications should be given a Prefix so DeleteAll only wipes
// memocache's own keyspace.
package provider

import (
	"context"
	"time"
)

// Provider is a minimal byte store with TTLs and bulk variants.
// Must be safe for concurrent use.
//
// A ttl <= 0 means "no expiry".
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// GetMulti returns the present entries only; absent keys are omitted.
	GetMulti(ctx context.Context, keys []string) (map[string][]byte, error)

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetMulti stores every entry with the same TTL. Atomicity is not required.
	SetMulti(ctx context.Context, items map[string][]byte, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// DeleteMulti removes every key. Absent keys are ignored.
	DeleteMulti(ctx context.Context, keys []string) error

	// DeleteAll wipes the provider's entire keyspace (prefix-scoped where supported).
	DeleteAll(ctx context.Context) error

	// Close releases resources.
	Close(ctx context.Context) error
}
