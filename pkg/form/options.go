package form

import (
	"log/slog"

	"github.com/dmitrymomot/guard/pkg/ratelimiter"
)

// Option configures a Form.
type Option func(*Form)

// WithRateLimiter gates Submit with l under key. A zero limit uses the
// limiter's default.
func WithRateLimiter(l *ratelimiter.Limiter, key string, limit ratelimiter.Limit) Option {
	return func(f *Form) {
		if l == nil {
			return
		}
		if limit == (ratelimiter.Limit{}) {
			limit = l.DefaultLimit()
		}
		f.limiter = l
		f.limitKey = key
		f.limit = limit
	}
}

// WithLogger sets the logger for internal operations.
func WithLogger(l *slog.Logger) Option {
	return func(f *Form) {
		if l != nil {
			f.logger = l
		}
	}
}
