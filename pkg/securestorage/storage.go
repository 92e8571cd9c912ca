package securestorage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/guard/core/logger"
)

// availabilityKey is written and removed by IsAvailable.
const availabilityKey = "__storage_test__"

// Storage obfuscates values before handing them to a Store and reverses the
// transformation on read. Every failure degrades to absence: writes report
// false, reads report not found. Nothing is returned as an error.
type Storage struct {
	store  Store
	keys   KeySource
	logger *slog.Logger
}

// Option configures a Storage.
type Option func(*Storage)

// WithLogger sets the logger used to report swallowed failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Storage) {
		if l != nil {
			s.logger = l
		}
	}
}

// New wraps store. The key is taken from keys on every operation.
func New(store Store, keys KeySource, opts ...Option) *Storage {
	s := &Storage{
		store:  store,
		keys:   keys,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetItem encodes value and writes it under key. It reports whether the write
// succeeded; quota and backend errors are logged.
func (s *Storage) SetItem(ctx context.Context, key, value string) bool {
	c, err := s.cipher()
	if err != nil {
		s.logger.ErrorContext(ctx, "secure storage key unavailable",
			logger.StorageKey(key), logger.Error(err))
		return false
	}

	if err := s.store.SetItem(ctx, key, c.Encode(value)); err != nil {
		level := slog.LevelError
		if errors.Is(err, ErrQuotaExceeded) {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "secure storage write failed",
			logger.StorageKey(key), logger.Error(err))
		return false
	}
	return true
}

// GetItem returns the decoded value under key. The second result is false when
// the key is missing, the stored text does not decode, or the store fails.
func (s *Storage) GetItem(ctx context.Context, key string) (string, bool) {
	raw, err := s.store.GetItem(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.ErrorContext(ctx, "secure storage read failed",
				logger.StorageKey(key), logger.Error(err))
		}
		return "", false
	}

	c, err := s.cipher()
	if err != nil {
		s.logger.ErrorContext(ctx, "secure storage key unavailable",
			logger.StorageKey(key), logger.Error(err))
		return "", false
	}

	value, err := c.Decode(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "secure storage value could not be decoded",
			logger.StorageKey(key), logger.Error(err))
		return "", false
	}
	return value, true
}

// RemoveItem deletes key. Failures are logged.
func (s *Storage) RemoveItem(ctx context.Context, key string) {
	if err := s.store.RemoveItem(ctx, key); err != nil {
		s.logger.ErrorContext(ctx, "secure storage remove failed",
			logger.StorageKey(key), logger.Error(err))
	}
}

// Clear deletes every item in the underlying store. Failures are logged.
func (s *Storage) Clear(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.logger.ErrorContext(ctx, "secure storage clear failed", logger.Error(err))
	}
}

// IsAvailable reports whether the store accepts a write and a delete.
// A panicking store counts as unavailable.
func (s *Storage) IsAvailable(ctx context.Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "secure storage availability check panicked", logger.Panic(r))
			ok = false
		}
	}()

	if err := s.store.SetItem(ctx, availabilityKey, availabilityKey); err != nil {
		s.logger.DebugContext(ctx, "secure storage availability check write failed", logger.Error(err))
		return false
	}
	if err := s.store.RemoveItem(ctx, availabilityKey); err != nil {
		s.logger.DebugContext(ctx, "secure storage availability check remove failed", logger.Error(err))
		return false
	}
	return true
}

func (s *Storage) cipher() (*Cipher, error) {
	if s.keys == nil {
		return nil, ErrEmptyKey
	}
	k, err := s.keys.Key()
	if err != nil {
		return nil, err
	}
	c, err := NewCipher(k)
	if err != nil {
		return nil, fmt.Errorf("securestorage: build cipher: %w", err)
	}
	return c, nil
}
