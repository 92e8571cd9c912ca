package apiclient

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/guard/pkg/ratelimiter"
)

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the network transport.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		if t != nil {
			c.transport = t
		}
	}
}

// WithHTTPClient uses client for the default HTTP transport.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.transport = NewHTTPTransport(client)
	}
}

// WithStorage sets where the auth and CSRF tokens are kept.
// *securestorage.Storage satisfies TokenStore.
func WithStorage(s TokenStore) Option {
	return func(c *Client) {
		if s != nil {
			c.storage = s
		}
	}
}

// WithRateLimiter shares a limiter with other components. The client applies
// its own limit from Config regardless of the limiter's default.
func WithRateLimiter(l *ratelimiter.Limiter) Option {
	return func(c *Client) {
		if l != nil {
			c.limiter = l
		}
	}
}

// WithNavigator sets the capability invoked on 401 responses.
func WithNavigator(n Navigator) Option {
	return func(c *Client) {
		if n != nil {
			c.navigator = n
		}
	}
}

// WithIncidentSink sets where security incidents are delivered.
// Use MultiSink to deliver to several sinks.
func WithIncidentSink(s IncidentSink) Option {
	return func(c *Client) {
		if s != nil {
			c.sink = s
		}
	}
}

// WithLogger sets the logger for internal operations.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithClock replaces time.Now for timestamps and incidents.
func WithClock(clock func() time.Time) Option {
	return func(c *Client) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithRequestStages appends stages after the built-in request pipeline.
func WithRequestStages(stages ...RequestStage) Option {
	return func(c *Client) {
		c.extraRequest = append(c.extraRequest, stages...)
	}
}

// WithResponseStages appends stages after the built-in response checks.
func WithResponseStages(stages ...ResponseStage) Option {
	return func(c *Client) {
		c.extraResponse = append(c.extraResponse, stages...)
	}
}
