package securestorage

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"unicode/utf16"
)

// Cipher is a reversible XOR obfuscation over UTF-16 code units.
// It hides values from casual inspection of the backing store. It is not
// encryption: there is no integrity check and the key is recoverable from
// any known plaintext.
type Cipher struct {
	key []uint16
}

// NewCipher returns a Cipher for key. An empty key is rejected.
func NewCipher(key string) (*Cipher, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	return &Cipher{key: utf16.Encode([]rune(key))}, nil
}

// Encode XORs every code unit of plaintext with the repeating key, writes each
// unit as two big-endian bytes and returns the standard base64 encoding.
func (c *Cipher) Encode(plaintext string) string {
	units := utf16.Encode([]rune(plaintext))
	buf := make([]byte, 2*len(units))
	for i, u := range units {
		binary.BigEndian.PutUint16(buf[2*i:], u^c.key[i%len(c.key)])
	}
	return base64.StdEncoding.EncodeToString(buf)
}

// Decode reverses Encode. Input that is not base64 or does not hold a whole
// number of code units yields ErrMalformedCiphertext. Well-formed input that
// was tampered with decodes to unrelated text without error.
func (c *Cipher) Decode(ciphertext string) (string, error) {
	buf, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}
	if len(buf)%2 != 0 {
		return "", fmt.Errorf("%w: odd byte length %d", ErrMalformedCiphertext, len(buf))
	}

	units := make([]uint16, len(buf)/2)
	for i := range units {
		units[i] = binary.BigEndian.Uint16(buf[2*i:]) ^ c.key[i%len(c.key)]
	}
	return string(utf16.Decode(units)), nil
}
