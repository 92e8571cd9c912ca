package form

import "errors"

var (
	ErrSubmitPanic = errors.New("form: submit callback panicked")
	ErrNoCallback  = errors.New("form: no submit callback")
)

// MsgTooManyAttempts is the submission error shown when the rate limiter
// refuses a submit.
const MsgTooManyAttempts = "Too many attempts. Please try again later."
