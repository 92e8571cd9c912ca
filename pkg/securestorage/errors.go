package securestorage

import "errors"

var (
	ErrNotFound            = errors.New("securestorage: item not found")
	ErrQuotaExceeded       = errors.New("securestorage: quota exceeded")
	ErrEmptyKey            = errors.New("securestorage: empty obfuscation key")
	ErrMalformedCiphertext = errors.New("securestorage: malformed ciphertext")
)
