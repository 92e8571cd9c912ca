package securestorage

import "context"

// Store is a persistent string key-value store scoped to one origin.
// GetItem returns ErrNotFound for missing keys. Implementations report
// capacity problems with ErrQuotaExceeded.
type Store interface {
	SetItem(ctx context.Context, key, value string) error
	GetItem(ctx context.Context, key string) (string, error)
	RemoveItem(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// DefaultQuota mirrors the per-origin budget browsers give local storage.
const DefaultQuota = 5 << 20

func itemSize(key, value string) int {
	return len(key) + len(value)
}
