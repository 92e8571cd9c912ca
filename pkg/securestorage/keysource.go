package securestorage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/hkdf"
)

// KeySource supplies the obfuscation key. Storage asks for it on every call,
// so a rotated key takes effect immediately.
type KeySource interface {
	Key() (string, error)
}

// StaticKey is a key fixed at construction time.
type StaticKey string

// Key implements KeySource.
func (k StaticKey) Key() (string, error) {
	if k == "" {
		return "", ErrEmptyKey
	}
	return string(k), nil
}

// EnvKey reads the key from the named environment variable.
type EnvKey string

// Key implements KeySource.
func (k EnvKey) Key() (string, error) {
	v := os.Getenv(string(k))
	if v == "" {
		return "", fmt.Errorf("%w: environment variable %s is not set", ErrEmptyKey, string(k))
	}
	return v, nil
}

// DerivedKeyLength is the number of bytes DerivedKey expands to.
const DerivedKeyLength = 32

// DerivedKey expands a master secret with HKDF-SHA256 into a hex encoded key.
// Different Info values yield independent keys from the same master.
type DerivedKey struct {
	Master []byte
	Salt   []byte
	Info   string
}

// Key implements KeySource.
func (k DerivedKey) Key() (string, error) {
	if len(k.Master) == 0 {
		return "", fmt.Errorf("%w: empty master secret", ErrEmptyKey)
	}

	out := make([]byte, DerivedKeyLength)
	if _, err := io.ReadFull(hkdf.New(sha256.New, k.Master, k.Salt, []byte(k.Info)), out); err != nil {
		return "", fmt.Errorf("securestorage: derive key: %w", err)
	}
	return hex.EncodeToString(out), nil
}
