package ratelimiter

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Limiter is a sliding-window attempt counter keyed by arbitrary strings.
// Every accepted attempt is remembered with its timestamp; timestamps older
// than the window are dropped the next time the same key is checked.
// A Limiter is safe for concurrent use and is meant to be shared.
type Limiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time

	clock        func() time.Time
	logger       *slog.Logger
	defaultLimit Limit

	keysCreated atomic.Int64
	keysReset   atomic.Int64
	denied      atomic.Int64
}

// Stats provides observability counters for monitoring and debugging.
type Stats struct {
	KeysCreated int64 // Total number of keys that started a window
	KeysReset   int64 // Total number of keys dropped by Reset
	Denied      int64 // Total number of denied attempts
	ActiveKeys  int   // Keys currently tracked, including fully expired ones
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces time.Now as the source of the current time.
func WithClock(clock func() time.Time) Option {
	return func(l *Limiter) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// WithLogger sets the logger for internal operations.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithDefaultLimit sets the limit applied by Allow.
// Invalid limits are ignored.
func WithDefaultLimit(limit Limit) Option {
	return func(l *Limiter) {
		if limit.Validate() == nil {
			l.defaultLimit = limit
		}
	}
}

// New creates a Limiter with no tracked keys.
func New(opts ...Option) *Limiter {
	l := &Limiter{
		windows:      make(map[string][]time.Time),
		clock:        time.Now,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		defaultLimit: DefaultLimit,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// DefaultLimit returns the limit applied by Allow.
func (l *Limiter) DefaultLimit() Limit {
	return l.defaultLimit
}

// Allow is AllowLimit with the limiter's default limit.
func (l *Limiter) Allow(key string) bool {
	return l.AllowLimit(key, l.defaultLimit)
}

// AllowLimit reports whether another attempt for key fits in limit and, if
// so, records it. A denied attempt is not recorded, so a caller that keeps
// retrying regains access as soon as the oldest accepted attempt leaves the
// window. Invalid limits always deny.
func (l *Limiter) AllowLimit(key string, limit Limit) bool {
	if err := limit.Validate(); err != nil {
		l.logger.Warn("rate limit check with invalid limit",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	stamps, exists := l.windows[key]
	if !exists {
		l.keysCreated.Add(1)
	}
	stamps = prune(stamps, now, limit.Window)

	if len(stamps) >= limit.MaxAttempts {
		l.windows[key] = stamps
		l.denied.Add(1)
		l.logger.Debug("rate limit exceeded",
			slog.String("key", key),
			slog.Int("max_attempts", limit.MaxAttempts),
			slog.Duration("window", limit.Window))
		return false
	}

	l.windows[key] = append(stamps, now)
	return true
}

// Count returns the number of attempts for key still inside limit's window.
// It does not record an attempt.
func (l *Limiter) Count(key string, limit Limit) int {
	if limit.Validate() != nil {
		return 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return len(prune(cloneStamps(l.windows[key]), l.clock(), limit.Window))
}

// RetryAfter returns how long until key may make another attempt under limit.
// It is zero when an attempt would be accepted now.
func (l *Limiter) RetryAfter(key string, limit Limit) time.Duration {
	if limit.Validate() != nil {
		return 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	stamps := prune(cloneStamps(l.windows[key]), now, limit.Window)
	if len(stamps) < limit.MaxAttempts {
		return 0
	}

	// The attempt that frees a slot is the one limit.MaxAttempts positions
	// from the end; earlier ones only matter if the limit shrank.
	oldest := stamps[len(stamps)-limit.MaxAttempts]
	return oldest.Add(limit.Window).Sub(now)
}

// Reset forgets every attempt recorded for key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.windows[key]; ok {
		delete(l.windows, key)
		l.keysReset.Add(1)
	}
}

// Stats returns current limiter statistics.
func (l *Limiter) Stats() Stats {
	l.mu.Lock()
	active := len(l.windows)
	l.mu.Unlock()

	return Stats{
		KeysCreated: l.keysCreated.Load(),
		KeysReset:   l.keysReset.Load(),
		Denied:      l.denied.Load(),
		ActiveKeys:  active,
	}
}

// prune drops timestamps with now - t >= window. Timestamps are kept in
// ascending order so the survivors form a suffix.
func prune(stamps []time.Time, now time.Time, window time.Duration) []time.Time {
	i := 0
	for i < len(stamps) && now.Sub(stamps[i]) >= window {
		i++
	}
	if i == 0 {
		return stamps
	}
	return append(stamps[:0], stamps[i:]...)
}

func cloneStamps(stamps []time.Time) []time.Time {
	if len(stamps) == 0 {
		return nil
	}
	return append([]time.Time(nil), stamps...)
}
