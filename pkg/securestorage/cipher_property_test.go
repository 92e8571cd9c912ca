//go:build property

package securestorage_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dmitrymomot/guard/pkg/securestorage"
)

func TestCipher_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("decode reverses encode for any key and plaintext", prop.ForAll(
		func(key, plaintext string) bool {
			c, err := securestorage.NewCipher(key)
			if err != nil {
				return false
			}
			out, err := c.Decode(c.Encode(plaintext))
			return err == nil && out == plaintext
		},
		gen.UnicodeString(gen.UnicodeChar()).SuchThat(func(s string) bool { return s != "" }),
		gen.UnicodeString(gen.UnicodeChar()),
	))

	properties.TestingRun(t)
}
