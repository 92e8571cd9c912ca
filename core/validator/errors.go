package validator

import "strings"

// ValidationError describes a single failed field rule.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationErrors collects field errors in the order they were found.
type ValidationErrors []ValidationError

// Add appends an error to the collection.
func (e *ValidationErrors) Add(err ValidationError) {
	*e = append(*e, err)
}

// IsEmpty reports whether no errors were collected.
func (e ValidationErrors) IsEmpty() bool {
	return len(e) == 0
}

// Get returns the message recorded for field, or an empty string.
func (e ValidationErrors) Get(field string) string {
	for _, err := range e {
		if err.Field == field {
			return err.Message
		}
	}
	return ""
}

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}
