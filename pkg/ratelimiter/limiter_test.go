package ratelimiter_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/guard/pkg/ratelimiter"
)

func TestLimiter_AllowLimit(t *testing.T) {
	t.Parallel()

	limit := ratelimiter.Limit{MaxAttempts: 3, Window: time.Second}

	t.Run("allows up to budget then denies", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		l := ratelimiter.New(ratelimiter.WithClock(clock.Now))

		for i := range 3 {
			assert.True(t, l.AllowLimit("k", limit), "attempt %d", i+1)
			clock.Advance(100 * time.Millisecond)
		}
		assert.False(t, l.AllowLimit("k", limit))
	})

	t.Run("window slides as oldest attempt expires", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		l := ratelimiter.New(ratelimiter.WithClock(clock.Now))

		// Attempts at t=0, 100ms, 200ms.
		for range 3 {
			require.True(t, l.AllowLimit("k", limit))
			clock.Advance(100 * time.Millisecond)
		}

		// t=300ms: still full.
		assert.False(t, l.AllowLimit("k", limit))

		// t=1000ms: first attempt is exactly one window old and drops out.
		clock.Advance(700 * time.Millisecond)
		assert.True(t, l.AllowLimit("k", limit))
		assert.False(t, l.AllowLimit("k", limit))
	})

	t.Run("denied attempts are not recorded", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		l := ratelimiter.New(ratelimiter.WithClock(clock.Now))

		for range 3 {
			require.True(t, l.AllowLimit("k", limit))
		}
		for range 10 {
			clock.Advance(50 * time.Millisecond)
			require.False(t, l.AllowLimit("k", limit))
		}

		// All three accepted attempts were at t=0; retries did not extend the window.
		clock.Advance(500 * time.Millisecond)
		assert.Equal(t, 0, l.Count("k", limit))
		assert.True(t, l.AllowLimit("k", limit))
	})

	t.Run("keys are independent", func(t *testing.T) {
		t.Parallel()
		l := ratelimiter.New()

		for range 3 {
			require.True(t, l.AllowLimit("a", limit))
		}
		assert.False(t, l.AllowLimit("a", limit))
		assert.True(t, l.AllowLimit("b", limit))
	})

	t.Run("invalid limits deny", func(t *testing.T) {
		t.Parallel()
		l := ratelimiter.New()

		assert.False(t, l.AllowLimit("k", ratelimiter.Limit{MaxAttempts: 0, Window: time.Second}))
		assert.False(t, l.AllowLimit("k", ratelimiter.Limit{MaxAttempts: 1, Window: 0}))
		assert.Equal(t, 0, l.Stats().ActiveKeys)
	})
}

func TestLimiter_Allow_DefaultLimit(t *testing.T) {
	t.Parallel()

	t.Run("package default is five per fifteen minutes", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		l := ratelimiter.New(ratelimiter.WithClock(clock.Now))

		for range 5 {
			require.True(t, l.Allow("login"))
		}
		assert.False(t, l.Allow("login"))

		clock.Advance(15*time.Minute - time.Millisecond)
		assert.False(t, l.Allow("login"))

		clock.Advance(time.Millisecond)
		assert.True(t, l.Allow("login"))
	})

	t.Run("custom default", func(t *testing.T) {
		t.Parallel()
		l := ratelimiter.New(ratelimiter.WithDefaultLimit(ratelimiter.Limit{MaxAttempts: 1, Window: time.Minute}))

		assert.Equal(t, ratelimiter.Limit{MaxAttempts: 1, Window: time.Minute}, l.DefaultLimit())
		assert.True(t, l.Allow("k"))
		assert.False(t, l.Allow("k"))
	})

	t.Run("invalid default is ignored", func(t *testing.T) {
		t.Parallel()
		l := ratelimiter.New(ratelimiter.WithDefaultLimit(ratelimiter.Limit{}))
		assert.Equal(t, ratelimiter.DefaultLimit, l.DefaultLimit())
	})
}

func TestLimiter_Reset(t *testing.T) {
	t.Parallel()

	limit := ratelimiter.Limit{MaxAttempts: 1, Window: time.Hour}
	l := ratelimiter.New()

	require.True(t, l.AllowLimit("k", limit))
	require.False(t, l.AllowLimit("k", limit))

	l.Reset("k")
	assert.True(t, l.AllowLimit("k", limit))

	// Resetting an unknown key is a no-op.
	l.Reset("missing")
	assert.Equal(t, int64(1), l.Stats().KeysReset)
}

func TestLimiter_CountAndRetryAfter(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	l := ratelimiter.New(ratelimiter.WithClock(clock.Now))
	limit := ratelimiter.Limit{MaxAttempts: 2, Window: 10 * time.Second}

	assert.Equal(t, 0, l.Count("k", limit))
	assert.Zero(t, l.RetryAfter("k", limit))

	require.True(t, l.AllowLimit("k", limit))
	clock.Advance(4 * time.Second)
	require.True(t, l.AllowLimit("k", limit))

	assert.Equal(t, 2, l.Count("k", limit))
	assert.Equal(t, 6*time.Second, l.RetryAfter("k", limit))

	// Count and RetryAfter never record.
	assert.Equal(t, 2, l.Count("k", limit))

	clock.Advance(6 * time.Second)
	assert.Equal(t, 1, l.Count("k", limit))
	assert.Zero(t, l.RetryAfter("k", limit))
}

func TestLimiter_Stats(t *testing.T) {
	t.Parallel()

	l := ratelimiter.New()
	limit := ratelimiter.Limit{MaxAttempts: 1, Window: time.Minute}

	l.AllowLimit("a", limit)
	l.AllowLimit("a", limit)
	l.AllowLimit("b", limit)

	stats := l.Stats()
	assert.Equal(t, int64(2), stats.KeysCreated)
	assert.Equal(t, int64(1), stats.Denied)
	assert.Equal(t, 2, stats.ActiveKeys)
}

func TestLimit_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ratelimiter.DefaultLimit.Validate())

	err := ratelimiter.Limit{MaxAttempts: -1, Window: time.Second}.Validate()
	assert.True(t, errors.Is(err, ratelimiter.ErrInvalidLimit))

	err = ratelimiter.Limit{MaxAttempts: 1}.Validate()
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidLimit)
}
