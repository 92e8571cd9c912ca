package securestorage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists items as a JSON object in a single file. The file is read
// once on open and rewritten atomically on every change.
type FileStore struct {
	mu    sync.Mutex
	path  string
	items map[string]string
	used  int
	quota int
	perm  fs.FileMode
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithFileQuota sets the capacity in bytes of keys plus values.
// Non-positive values disable the limit.
func WithFileQuota(bytes int) FileStoreOption {
	return func(s *FileStore) {
		s.quota = bytes
	}
}

// WithFileMode sets the permissions of the data file. Defaults to 0600.
func WithFileMode(perm fs.FileMode) FileStoreOption {
	return func(s *FileStore) {
		s.perm = perm
	}
}

// OpenFileStore loads path, creating an empty store when the file does not exist.
func OpenFileStore(path string, opts ...FileStoreOption) (*FileStore, error) {
	s := &FileStore{
		path:  path,
		items: make(map[string]string),
		quota: DefaultQuota,
		perm:  0o600,
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("securestorage: read %s: %w", path, err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.items); err != nil {
			return nil, fmt.Errorf("securestorage: decode %s: %w", path, err)
		}
	}
	for k, v := range s.items {
		s.used += itemSize(k, v)
	}
	return s, nil
}

// Path returns the data file location.
func (s *FileStore) Path() string {
	return s.path
}

// SetItem implements Store.
func (s *FileStore) SetItem(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	used := s.used + itemSize(key, value)
	old, existed := s.items[key]
	if existed {
		used -= itemSize(key, old)
	}
	if s.quota > 0 && used > s.quota {
		return ErrQuotaExceeded
	}

	s.items[key] = value
	if err := s.flush(); err != nil {
		if existed {
			s.items[key] = old
		} else {
			delete(s.items, key)
		}
		return err
	}
	s.used = used
	return nil
}

// GetItem implements Store.
func (s *FileStore) GetItem(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.items[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// RemoveItem implements Store.
func (s *FileStore) RemoveItem(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.items[key]
	if !ok {
		return nil
	}
	delete(s.items, key)
	if err := s.flush(); err != nil {
		s.items[key] = old
		return err
	}
	s.used -= itemSize(key, old)
	return nil
}

// Clear implements Store.
func (s *FileStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.items
	s.items = make(map[string]string)
	if err := s.flush(); err != nil {
		s.items = prev
		return err
	}
	s.used = 0
	return nil
}

// Keys returns the stored keys in no particular order.
func (s *FileStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	return keys
}

// flush writes items to a temp file next to path and renames it into place.
func (s *FileStore) flush() error {
	data, err := json.MarshalIndent(s.items, "", "  ")
	if err != nil {
		return fmt.Errorf("securestorage: encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("securestorage: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("securestorage: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("securestorage: write: %w", err)
	}
	if err := tmp.Chmod(s.perm); err != nil {
		tmp.Close()
		return fmt.Errorf("securestorage: chmod: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("securestorage: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("securestorage: replace %s: %w", s.path, err)
	}
	return nil
}
