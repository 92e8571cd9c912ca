package validator

import (
	"regexp"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

var (
	tagValidator = playground.New()

	phoneRegex      = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	phoneSeparators = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
	apiKeyRegex     = regexp.MustCompile(`^[A-Za-z0-9]{32,64}$`)
)

// IsEmail reports whether s is a syntactically valid email address.
func IsEmail(s string) bool {
	return tagValidator.Var(s, "required,email") == nil
}

// IsPhoneNumber reports whether s is an E.164-style phone number.
// Spaces, dashes, dots and parentheses are ignored.
func IsPhoneNumber(s string) bool {
	return phoneRegex.MatchString(phoneSeparators.Replace(s))
}

// IsURL reports whether s is an absolute http or https URL.
func IsURL(s string) bool {
	return tagValidator.Var(s, "required,http_url") == nil
}

// IsAPIKey reports whether s consists of 32 to 64 ASCII letters and digits.
func IsAPIKey(s string) bool {
	return apiKeyRegex.MatchString(s)
}
