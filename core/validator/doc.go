// Package validator checks user input before it is sent anywhere.
//
// It offers boolean predicates for common formats (IsEmail, IsPhoneNumber,
// IsURL, IsAPIKey), richer checks that explain what went wrong (Password,
// Amount, MerchantName), and a declarative Rule evaluated by ValidateField.
//
// # Field rules
//
// A Rule combines presence, length, pattern, type and custom checks. They run
// in that order and the first failure wins:
//
//	rule := validator.Rule{
//		Required:  true,
//		Type:      validator.TypeEmail,
//		MaxLength: 254,
//	}
//	if msg := validator.ValidateField("email", input, rule); msg != "" {
//		// show msg next to the field
//	}
//
// An empty value that is not required is always valid. Lengths are counted in
// UTF-16 code units so they agree with browser-side limits.
//
// # Passwords
//
// Password returns every violated rule so callers can render a checklist:
//
//	for _, msg := range validator.Password(pw) {
//		fmt.Println(msg)
//	}
//
// ValidateField surfaces only the first of them.
//
// # Amounts
//
// Amount parses decimal text with shopspring/decimal and accepts values in
// (0, 999999.99]. The rounded Value is informational; callers submit the text
// the user entered.
//
// # Errors
//
// ValidationErrors collects per-field messages and implements error, which
// makes it usable as a return value from form-level checks.
package validator
