package validator_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/guard/core/validator"
)

func TestValidateField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    string
		rule     validator.Rule
		expected string
	}{
		{
			name:     "required empty",
			value:    "",
			rule:     validator.Rule{Required: true},
			expected: validator.MsgRequired,
		},
		{
			name:     "required whitespace only",
			value:    "   ",
			rule:     validator.Rule{Required: true},
			expected: validator.MsgRequired,
		},
		{
			name:     "optional empty skips every check",
			value:    "",
			rule:     validator.Rule{Type: validator.TypeEmail, MinLength: 5},
			expected: "",
		},
		{
			name:     "too short",
			value:    "ab",
			rule:     validator.Rule{MinLength: 3},
			expected: "Must be at least 3 characters",
		},
		{
			name:     "too long",
			value:    "abcdef",
			rule:     validator.Rule{MaxLength: 5},
			expected: "Must be no more than 5 characters",
		},
		{
			name:     "length counted in utf-16 units",
			value:    "😀😀😀",
			rule:     validator.Rule{MaxLength: 5},
			expected: "Must be no more than 5 characters",
		},
		{
			name:     "length checked before type",
			value:    "x",
			rule:     validator.Rule{MinLength: 3, Type: validator.TypeEmail},
			expected: "Must be at least 3 characters",
		},
		{
			name:     "pattern mismatch",
			value:    "abc",
			rule:     validator.Rule{Pattern: regexp.MustCompile(`^\d+$`)},
			expected: validator.MsgPattern,
		},
		{
			name:     "invalid email",
			value:    "nope",
			rule:     validator.Rule{Type: validator.TypeEmail},
			expected: validator.MsgEmail,
		},
		{
			name:     "password shows first violation only",
			value:    "abc",
			rule:     validator.Rule{Type: validator.TypePassword},
			expected: validator.MsgPasswordLength,
		},
		{
			name:     "invalid phone",
			value:    "phone",
			rule:     validator.Rule{Type: validator.TypePhone},
			expected: validator.MsgPhone,
		},
		{
			name:     "merchant name too short",
			value:    "A",
			rule:     validator.Rule{Type: validator.TypeMerchantName},
			expected: validator.MsgMerchantName,
		},
		{
			name:     "amount out of range",
			value:    "0",
			rule:     validator.Rule{Type: validator.TypeAmount},
			expected: validator.MsgAmountPositive,
		},
		{
			name:     "amount with three places is valid",
			value:    "49.999",
			rule:     validator.Rule{Required: true, Type: validator.TypeAmount},
			expected: "",
		},
		{
			name:     "invalid url",
			value:    "example",
			rule:     validator.Rule{Type: validator.TypeURL},
			expected: validator.MsgURL,
		},
		{
			name:     "search has no type check",
			value:    "<anything>",
			rule:     validator.Rule{Type: validator.TypeSearch},
			expected: "",
		},
		{
			name:  "custom runs last",
			value: "admin",
			rule: validator.Rule{Custom: func(v string) string {
				if v == "admin" {
					return "Reserved name"
				}
				return ""
			}},
			expected: "Reserved name",
		},
		{
			name:  "custom not reached when type fails",
			value: "bad",
			rule: validator.Rule{Type: validator.TypeEmail, Custom: func(string) string {
				return "custom"
			}},
			expected: validator.MsgEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, validator.ValidateField("field", tt.value, tt.rule))
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	rules := map[string]validator.Rule{
		"email":  {Required: true, Type: validator.TypeEmail},
		"amount": {Required: true, Type: validator.TypeAmount},
	}
	values := map[string]string{
		"email":  "bad",
		"amount": "12.50",
		"note":   "free text",
	}

	errs := validator.Validate([]string{"email", "amount", "note"}, values, rules)

	assert.False(t, errs.IsEmpty())
	assert.Len(t, errs, 1)
	assert.Equal(t, validator.MsgEmail, errs.Get("email"))
	assert.Empty(t, errs.Get("amount"))
	assert.Equal(t, "email: "+validator.MsgEmail, errs.Error())
}
