package ratelimiter

import "errors"

// Package-level error definitions for rate limiter operations.
var (
	ErrInvalidLimit      = errors.New("invalid limit")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)
