package health_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/guard/core/health"
	"github.com/dmitrymomot/guard/pkg/async"
)

func TestReadiness_AllPass(t *testing.T) {
	t.Parallel()

	report := health.Readiness(context.Background(), nil,
		health.Named("a", func(context.Context) error { return nil }),
		health.Named("b", func(context.Context) error {
			time.Sleep(5 * time.Millisecond)
			return nil
		}),
	)

	assert.True(t, report.Ready())
	assert.Equal(t, health.StatusReady, report.Status())
	require.NoError(t, report.Err())
	require.Len(t, report.Results, 2)
	assert.Equal(t, "a", report.Results[0].Name)
	assert.GreaterOrEqual(t, report.Results[1].Duration, 5*time.Millisecond)
}

func TestReadiness_Failures(t *testing.T) {
	t.Parallel()

	errDown := errors.New("connection refused")
	report := health.Readiness(context.Background(), nil,
		health.Named("redis", func(context.Context) error { return errDown }),
		health.Named("ok", func(context.Context) error { return nil }),
		health.Named("broken", func(context.Context) error { panic("boom") }),
	)

	assert.False(t, report.Ready())
	assert.Equal(t, health.StatusNotReady, report.Status())

	err := report.Err()
	require.ErrorIs(t, err, errDown)
	require.ErrorIs(t, err, async.ErrPanic)
	assert.Contains(t, err.Error(), "redis: connection refused")
	assert.NoError(t, report.Results[1].Err)
}

func TestReadiness_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	report := health.Readiness(ctx, nil, health.Named("x", func(context.Context) error {
		called = true
		return nil
	}))

	assert.False(t, called)
	assert.ErrorIs(t, report.Err(), context.Canceled)
}

func TestReadiness_NoChecks(t *testing.T) {
	t.Parallel()

	report := health.Readiness(context.Background(), nil)
	assert.True(t, report.Ready())
	assert.Empty(t, report.Results)
}
