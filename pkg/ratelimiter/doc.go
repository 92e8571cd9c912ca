// Package ratelimiter provides a sliding-window attempt limiter for client-side
// throttling of logins, form submissions and outbound API calls.
//
// # Algorithm
//
// For each key the Limiter keeps the timestamps of accepted attempts. A check:
//  1. drops timestamps older than the window,
//  2. denies without recording when the remaining count has reached the budget,
//  3. otherwise records the current time and allows.
//
// Expired timestamps are only pruned when their own key is checked again; there
// is no background sweep. Reset drops a key entirely.
//
// # Usage
//
//	limiter := ratelimiter.New(
//		ratelimiter.WithDefaultLimit(ratelimiter.Limit{MaxAttempts: 5, Window: 15 * time.Minute}),
//	)
//
//	if !limiter.Allow("login:" + email) {
//		wait := limiter.RetryAfter("login:"+email, limiter.DefaultLimit())
//		return fmt.Errorf("%w: retry in %s", ratelimiter.ErrRateLimitExceeded, wait)
//	}
//
// Use AllowLimit when different call sites share one Limiter but need
// different budgets. Keys are opaque; callers namespace them.
//
// # Testing
//
// WithClock injects a time source so windows can be exercised without sleeping.
package ratelimiter
