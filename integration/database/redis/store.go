package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/guard/pkg/securestorage"
)

// Client is the subset of go-redis commands the store uses.
// *redis.Client and redis.UniversalClient satisfy it.
type Client interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

// Store is a securestorage.Store backed by Redis string keys sharing a
// prefix. Clear removes only keys under that prefix.
type Store struct {
	client    Client
	prefix    string
	ttl       time.Duration
	batchSize int64
	maxItem   int
}

var _ securestorage.Store = (*Store)(nil)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithTTL expires every written item after d. Zero keeps items forever.
func WithTTL(d time.Duration) StoreOption {
	return func(s *Store) {
		if d >= 0 {
			s.ttl = d
		}
	}
}

// WithScanBatchSize sets the COUNT hint used by Clear.
func WithScanBatchSize(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.batchSize = int64(n)
		}
	}
}

// WithMaxItemSize caps key plus value bytes of a single item.
// Non-positive values disable the check.
func WithMaxItemSize(bytes int) StoreOption {
	return func(s *Store) {
		s.maxItem = bytes
	}
}

// NewStore creates a store that namespaces keys with prefix.
func NewStore(client Client, prefix string, opts ...StoreOption) (*Store, error) {
	if prefix == "" {
		return nil, ErrEmptyPrefix
	}
	s := &Store{
		client:    client,
		prefix:    prefix,
		batchSize: 1000,
		maxItem:   securestorage.DefaultQuota,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewStoreFromConfig creates a store using the prefix and scan batch size
// from cfg.
func NewStoreFromConfig(client Client, cfg Config, opts ...StoreOption) (*Store, error) {
	return NewStore(client, cfg.KeyPrefix, append([]StoreOption{WithScanBatchSize(cfg.ScanBatchSize)}, opts...)...)
}

// SetItem implements securestorage.Store.
func (s *Store) SetItem(ctx context.Context, key, value string) error {
	if s.maxItem > 0 && len(key)+len(value) > s.maxItem {
		return securestorage.ErrQuotaExceeded
	}
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		if isOOM(err) {
			return errors.Join(securestorage.ErrQuotaExceeded, err)
		}
		return err
	}
	return nil
}

// GetItem implements securestorage.Store.
func (s *Store) GetItem(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", securestorage.ErrNotFound
	}
	return v, err
}

// RemoveItem implements securestorage.Store.
func (s *Store) RemoveItem(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// Clear deletes every key under the prefix, one SCAN page at a time.
func (s *Store) Clear(ctx context.Context) error {
	match := escapePattern(s.prefix) + "*"
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, match, s.batchSize).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Prefix returns the key namespace.
func (s *Store) Prefix() string {
	return s.prefix
}

func isOOM(err error) bool {
	return strings.HasPrefix(err.Error(), "OOM ")
}

var patternEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapePattern(s string) string {
	return patternEscaper.Replace(s)
}
