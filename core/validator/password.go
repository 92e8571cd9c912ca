package validator

import (
	"strings"

	"github.com/dmitrymomot/guard/core/sanitizer"
)

// PasswordMinLength is the minimum accepted password length.
const PasswordMinLength = 8

// PasswordSpecialChars lists the characters accepted as "special".
const PasswordSpecialChars = `!@#$%^&*(),.?":{}|<>`

// Password violation messages, reported in this order.
const (
	MsgPasswordLength    = "Password must be at least 8 characters long"
	MsgPasswordUppercase = "Password must contain at least one uppercase letter"
	MsgPasswordLowercase = "Password must contain at least one lowercase letter"
	MsgPasswordDigit     = "Password must contain at least one number"
	MsgPasswordSpecial   = "Password must contain at least one special character"
)

// Password returns every rule the password violates; an empty result means the
// password is acceptable.
func Password(s string) []string {
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(PasswordSpecialChars, r):
			hasSpecial = true
		}
	}

	var violations []string
	if sanitizer.Length16(s) < PasswordMinLength {
		violations = append(violations, MsgPasswordLength)
	}
	if !hasUpper {
		violations = append(violations, MsgPasswordUppercase)
	}
	if !hasLower {
		violations = append(violations, MsgPasswordLowercase)
	}
	if !hasDigit {
		violations = append(violations, MsgPasswordDigit)
	}
	if !hasSpecial {
		violations = append(violations, MsgPasswordSpecial)
	}
	return violations
}
