package ratelimiter

import (
	"fmt"
	"time"
)

// Limit is the attempt budget for a single key: at most MaxAttempts accepted
// attempts within any trailing Window.
type Limit struct {
	MaxAttempts int
	Window      time.Duration
}

// DefaultLimit is used by Allow and by limiters built without WithDefaultLimit.
var DefaultLimit = Limit{MaxAttempts: 5, Window: 15 * time.Minute}

// Validate returns ErrInvalidLimit when the budget or window is not positive.
func (l Limit) Validate() error {
	if l.MaxAttempts <= 0 {
		return fmt.Errorf("%w: max attempts must be positive, got %d", ErrInvalidLimit, l.MaxAttempts)
	}
	if l.Window <= 0 {
		return fmt.Errorf("%w: window must be positive, got %s", ErrInvalidLimit, l.Window)
	}
	return nil
}
