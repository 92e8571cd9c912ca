package securestorage

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store. Each instance is its own namespace.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]string
	used  int
	quota int
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithMemoryQuota sets the capacity in bytes of keys plus values.
// Non-positive values disable the limit.
func WithMemoryQuota(bytes int) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.quota = bytes
	}
}

// NewMemoryStore creates an empty store with DefaultQuota.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		items: make(map[string]string),
		quota: DefaultQuota,
	}
	for _, opt := range opts {
		opt(ms)
	}
	return ms
}

// SetItem implements Store.
func (ms *MemoryStore) SetItem(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	used := ms.used + itemSize(key, value)
	if old, ok := ms.items[key]; ok {
		used -= itemSize(key, old)
	}
	if ms.quota > 0 && used > ms.quota {
		return ErrQuotaExceeded
	}

	ms.items[key] = value
	ms.used = used
	return nil
}

// GetItem implements Store.
func (ms *MemoryStore) GetItem(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	v, ok := ms.items[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// RemoveItem implements Store. Removing a missing key is not an error.
func (ms *MemoryStore) RemoveItem(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if old, ok := ms.items[key]; ok {
		ms.used -= itemSize(key, old)
		delete(ms.items, key)
	}
	return nil
}

// Clear implements Store.
func (ms *MemoryStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	clear(ms.items)
	ms.used = 0
	return nil
}

// Len returns the number of stored items.
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.items)
}
