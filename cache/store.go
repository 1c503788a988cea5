package cache

import "context"

// Store persists cache entries across process restarts.
// A pure in-memory cache (nil Store) satisfies the same contract.
type Store interface {
	// Load returns all persisted entries. Callers filter out expired ones.
	Load(ctx context.Context) ([]Entry, error)

	// Save persists one entry, replacing any prior record for the
	// same fingerprint.
	Save(ctx context.Context, entry Entry) error

	// Delete removes the record for a fingerprint, if present.
	Delete(ctx context.Context, fp Fingerprint) error

	// Close releases resources.
	Close() error
}
