package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/guard/core/logger"
	"github.com/dmitrymomot/guard/pkg/async"
)

// Status strings reported by Report.Status.
const (
	StatusReady    = "READY"
	StatusNotReady = "NOT READY"
)

// Check is a named dependency check, such as redis.Healthcheck(client).
type Check struct {
	Name string
	Fn   func(context.Context) error
}

// Named pairs a check func with a name.
func Named(name string, fn func(context.Context) error) Check {
	return Check{Name: name, Fn: fn}
}

// Result is the outcome of one check.
type Result struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Report lists results in the order the checks were given.
type Report struct {
	Results []Result
}

// Ready reports whether every check passed.
func (r Report) Ready() bool {
	for _, res := range r.Results {
		if res.Err != nil {
			return false
		}
	}
	return true
}

// Status returns StatusReady or StatusNotReady.
func (r Report) Status() string {
	if r.Ready() {
		return StatusReady
	}
	return StatusNotReady
}

// Err joins the failures, each prefixed with its check name.
func (r Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Name, res.Err))
		}
	}
	return errors.Join(errs...)
}

// Readiness runs all checks concurrently and waits for them. Each failure is
// logged at error level. A panicking check counts as failed.
func Readiness(ctx context.Context, log *slog.Logger, checks ...Check) Report {
	if log == nil {
		log = logger.Nop()
	}

	results := make([]Result, len(checks))
	futures := make([]*async.ExecFuture, len(checks))
	for i, c := range checks {
		results[i].Name = c.Name
		futures[i] = async.Exec(ctx, i, func(ctx context.Context, i int) error {
			start := time.Now()
			err := checks[i].Fn(ctx)
			results[i].Duration = time.Since(start)
			return err
		})
	}

	if async.ExecAll(futures...) == nil {
		return Report{Results: results}
	}

	for i, f := range futures {
		if err := f.Await(); err != nil {
			results[i].Err = err
			log.ErrorContext(ctx, "readiness check failed",
				logger.Component(results[i].Name),
				logger.Error(err),
			)
		}
	}

	return Report{Results: results}
}
