package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrymomot/guard/core/sanitizer"
)

// FieldType selects the type-specific check applied by ValidateField.
type FieldType string

// Supported field types.
const (
	TypeNone         FieldType = ""
	TypeEmail        FieldType = "email"
	TypePassword     FieldType = "password"
	TypePhone        FieldType = "phone"
	TypeMerchantName FieldType = "merchantName"
	TypeAmount       FieldType = "amount"
	TypeURL          FieldType = "url"
	TypeSearch       FieldType = "search"
)

// Merchant name bounds, in UTF-16 code units after markup escaping.
const (
	MerchantNameMinLength = 2
	MerchantNameMaxLength = 100
)

// Field messages.
const (
	MsgRequired     = "This field is required"
	MsgPattern      = "Invalid format"
	MsgEmail        = "Please enter a valid email address"
	MsgPhone        = "Please enter a valid phone number"
	MsgURL          = "Please enter a valid URL"
	MsgMerchantName = "Merchant name must be between 2 and 100 characters"
)

// Rule describes how a single field is validated. The zero value accepts anything.
// MinLength and MaxLength are ignored when zero.
type Rule struct {
	Required  bool
	Type      FieldType
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
	// Custom returns a non-empty message when the value is rejected.
	Custom func(value string) string
}

// MerchantName reports whether s, once escaped, is between 2 and 100 code units long.
func MerchantName(s string) bool {
	n := sanitizer.Length16(sanitizer.Markup(s))
	return n >= MerchantNameMinLength && n <= MerchantNameMaxLength
}

// ValidateField runs rule against value and returns the first failing message,
// or an empty string when the value is valid. Checks run in a fixed order:
// required, length bounds, pattern, type, custom. An empty optional value
// passes without further checks.
func ValidateField(name, value string, rule Rule) string {
	if strings.TrimSpace(value) == "" {
		if rule.Required {
			return MsgRequired
		}
		return ""
	}

	length := sanitizer.Length16(value)
	if rule.MinLength > 0 && length < rule.MinLength {
		return fmt.Sprintf("Must be at least %d characters", rule.MinLength)
	}
	if rule.MaxLength > 0 && length > rule.MaxLength {
		return fmt.Sprintf("Must be no more than %d characters", rule.MaxLength)
	}

	if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
		return MsgPattern
	}

	if msg := validateType(rule.Type, value); msg != "" {
		return msg
	}

	if rule.Custom != nil {
		return rule.Custom(value)
	}
	return ""
}

// Validate checks every field in values against its rule in rules.
// Fields without a rule are accepted. Errors follow the order of names.
func Validate(names []string, values map[string]string, rules map[string]Rule) ValidationErrors {
	var errs ValidationErrors
	for _, name := range names {
		if msg := ValidateField(name, values[name], rules[name]); msg != "" {
			errs.Add(ValidationError{Field: name, Message: msg})
		}
	}
	return errs
}

func validateType(t FieldType, value string) string {
	switch t {
	case TypeEmail:
		if !IsEmail(value) {
			return MsgEmail
		}
	case TypePassword:
		if violations := Password(value); len(violations) > 0 {
			return violations[0]
		}
	case TypePhone:
		if !IsPhoneNumber(value) {
			return MsgPhone
		}
	case TypeMerchantName:
		if !MerchantName(value) {
			return MsgMerchantName
		}
	case TypeAmount:
		if res := Amount(value); !res.Valid {
			return res.Message
		}
	case TypeURL:
		if !IsURL(value) {
			return MsgURL
		}
	}
	return ""
}
