package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/guard/core/logger"
	"github.com/dmitrymomot/guard/pkg/async"
	"github.com/dmitrymomot/guard/pkg/ratelimiter"
	"github.com/dmitrymomot/guard/pkg/securestorage"
)

// Storage keys for session secrets.
const (
	AuthTokenKey = "auth_token"
	CSRFTokenKey = "csrf_token"
)

// TokenStore holds session secrets. *securestorage.Storage implements it.
type TokenStore interface {
	SetItem(ctx context.Context, key, value string) bool
	GetItem(ctx context.Context, key string) (string, bool)
	RemoveItem(ctx context.Context, key string)
}

// Client sends API requests through a fixed pipeline of security stages.
// It is safe for concurrent use.
type Client struct {
	cfg       Config
	transport Transport
	storage   TokenStore
	limiter   *ratelimiter.Limiter
	navigator Navigator
	sink      IncidentSink
	metrics   *Metrics
	logger    *slog.Logger
	clock     func() time.Time

	extraRequest   []RequestStage
	extraResponse  []ResponseStage
	requestStages  []RequestStage
	responseStages []ResponseStage

	mu      sync.Mutex
	pending []*async.ExecFuture
}

// New builds a client. Zero Config fields take their DefaultConfig values,
// except SignRequests: a zero value there means signing is off.
// Collaborators that are not supplied get in-memory defaults: a private
// rate limiter, an obfuscated in-memory token store, a navigator and an
// incident sink that only log.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:       cfg,
		transport: NewHTTPTransport(nil),
		logger:    logger.Nop(),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.storage == nil {
		c.storage = securestorage.New(
			securestorage.NewMemoryStore(),
			securestorage.StaticKey(uuid.NewString()),
			securestorage.WithLogger(c.logger),
		)
	}
	if c.limiter == nil {
		c.limiter = ratelimiter.New(ratelimiter.WithClock(c.clock), ratelimiter.WithLogger(c.logger))
	}
	if c.navigator == nil {
		c.navigator = logNavigator{logger: c.logger}
	}
	if c.sink == nil {
		c.sink = NewLogSink(c.logger)
	}

	c.requestStages = append([]RequestStage{
		transportSecurityStage{production: cfg.IsProduction()},
		rateLimitStage{
			limiter: c.limiter,
			limit:   ratelimiter.Limit{MaxAttempts: cfg.RateLimitMax, Window: cfg.RateLimitWindow},
			metrics: c.metrics,
			logger:  c.logger,
		},
		storedHeaderStage{name: "auth", store: c.storage, key: AuthTokenKey, header: HeaderAuthorization, prefix: "Bearer "},
		storedHeaderStage{name: "csrf", store: c.storage, key: CSRFTokenKey, header: HeaderCSRFToken},
		timestampStage{clock: c.clock},
		signatureStage{enabled: cfg.SignRequests},
		sanitizeBodyStage{},
	}, c.extraRequest...)

	c.responseStages = append([]ResponseStage{
		structureStage{metrics: c.metrics, logger: c.logger},
		securityHeadersStage{logger: c.logger},
	}, c.extraResponse...)

	return c, nil
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Do runs req through the request stages, sends it, and checks the result.
// Relative URLs are resolved against Config.BaseURL.
//
// For HTTP error statuses both the response and an *Error are returned.
// Requests refused before the network and transport failures return a nil
// response.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	c.prepare(req)

	for _, stage := range c.requestStages {
		if err := stage.Apply(ctx, req); err != nil {
			c.logger.DebugContext(ctx, "request stopped by stage",
				logger.Stage(stage.Name()), logger.Method(req.Method), logger.URL(req.URL), logger.Error(err))
			return nil, c.finish(req, err)
		}
	}

	tr := &TransportRequest{
		Method:  req.Method,
		URL:     req.URL,
		Header:  req.Header,
		Timeout: c.cfg.Timeout,
	}
	if req.HasBody() {
		body, err := marshalBody(req.Body)
		if err != nil {
			return nil, c.finish(req, newError(0, CodeInvalidRequest, "Request body cannot be encoded",
				fmt.Errorf("%w: %v", ErrInvalidRequest, err)))
		}
		tr.Body = body
	}

	start := time.Now()
	raw, err := c.transport.Do(ctx, tr)
	c.metrics.observeDuration(req.Method, time.Since(start))
	if err != nil {
		c.logger.WarnContext(ctx, "request failed in transport",
			logger.Method(req.Method), logger.URL(req.URL), logger.Error(err))
		return nil, c.finish(req, newError(0, CodeNetworkError,
			"Network error. Please check your connection.", &TransportError{Err: err}))
	}

	resp := &Response{Status: raw.Status, Header: raw.Header, Body: raw.Body}
	if resp.Header == nil {
		resp.Header = http.Header{}
	}

	if resp.Status >= http.StatusBadRequest {
		return resp, c.finish(req, c.classify(ctx, req, resp))
	}

	for _, stage := range c.responseStages {
		if err := stage.Inspect(ctx, req, resp); err != nil {
			c.logger.WarnContext(ctx, "response rejected by stage",
				logger.Stage(stage.Name()), logger.URL(req.URL), logger.Error(err))
			return resp, c.finish(req, err)
		}
	}

	return resp, c.finish(req, nil)
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.Do(ctx, NewRequest(http.MethodGet, url, nil))
}

// Post sends body as JSON with POST.
func (c *Client) Post(ctx context.Context, url string, body any) (*Response, error) {
	return c.Do(ctx, NewRequest(http.MethodPost, url, body))
}

// Put sends body as JSON with PUT.
func (c *Client) Put(ctx context.Context, url string, body any) (*Response, error) {
	return c.Do(ctx, NewRequest(http.MethodPut, url, body))
}

// Patch sends body as JSON with PATCH.
func (c *Client) Patch(ctx context.Context, url string, body any) (*Response, error) {
	return c.Do(ctx, NewRequest(http.MethodPatch, url, body))
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, url string) (*Response, error) {
	return c.Do(ctx, NewRequest(http.MethodDelete, url, nil))
}

// SetAuthToken stores the bearer token sent with later requests.
func (c *Client) SetAuthToken(ctx context.Context, token string) bool {
	return c.storage.SetItem(ctx, AuthTokenKey, token)
}

// SetCSRFToken stores the CSRF token sent with later requests.
func (c *Client) SetCSRFToken(ctx context.Context, token string) bool {
	return c.storage.SetItem(ctx, CSRFTokenKey, token)
}

// ClearSession forgets both session tokens.
func (c *Client) ClearSession(ctx context.Context) {
	c.storage.RemoveItem(ctx, AuthTokenKey)
	c.storage.RemoveItem(ctx, CSRFTokenKey)
}

// Flush waits until every pending incident delivery has finished or ctx is done.
func (c *Client) Flush(ctx context.Context) error {
	c.mu.Lock()
	pending := append([]*async.ExecFuture(nil), c.pending...)
	c.mu.Unlock()

	for _, f := range pending {
		select {
		case <-f.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (c *Client) prepare(req *Request) {
	if req.Header == nil {
		req.Header = NewHeaders()
	}
	req.Method = strings.ToUpper(req.Method)
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	req.URL = c.resolve(req.URL)

	if !req.Header.Has(HeaderUserAgent) && c.cfg.UserAgent != "" {
		req.Header.Set(HeaderUserAgent, c.cfg.UserAgent)
	}
	if req.HasBody() && !req.Header.Has(HeaderContentType) {
		req.Header.Set(HeaderContentType, "application/json")
	}
}

func (c *Client) resolve(raw string) string {
	if c.cfg.BaseURL == "" {
		return raw
	}
	if u, err := url.Parse(raw); err == nil && u.IsAbs() {
		return raw
	}
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(raw, "/")
}

// classify turns an error status into an *Error and fires its side effects.
func (c *Client) classify(ctx context.Context, req *Request, resp *Response) error {
	switch resp.Status {
	case http.StatusUnauthorized:
		c.ClearSession(ctx)
		if err := c.navigator.Navigate(ctx, c.cfg.LoginPath); err != nil {
			c.logger.WarnContext(ctx, "navigation to login failed", logger.Error(err))
		}
		return newError(resp.Status, CodeUnauthorized, "Authentication expired. Please log in again.", ErrAuthExpired)

	case http.StatusForbidden:
		c.raiseIncident(ctx, IncidentForbiddenAccess, req.URL)
		return newError(resp.Status, CodeForbidden, "Access forbidden.", ErrForbidden)

	case http.StatusTooManyRequests:
		c.raiseIncident(ctx, IncidentRateLimitExceeded, req.URL)
		return newError(resp.Status, CodeTooManyRequests, "Too many requests. Please try again later.", ErrThrottled)

	default:
		return newError(resp.Status, CodeHTTPError, serverMessage(resp.Body), ErrHTTP)
	}
}

// raiseIncident delivers an incident in the background. The request context
// is detached so delivery survives the caller returning.
func (c *Client) raiseIncident(ctx context.Context, kind IncidentType, url string) {
	inc := NewIncident(kind, url, c.cfg.UserAgent, c.clock())
	c.metrics.incIncident(kind)

	f := async.Exec(context.WithoutCancel(ctx), inc, func(ctx context.Context, inc Incident) error {
		err := c.sink.Record(ctx, inc)
		if err != nil {
			c.logger.DebugContext(ctx, "incident delivery failed",
				logger.Incident(string(inc.Type)), logger.Error(err))
		}
		return err
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	live := c.pending[:0]
	for _, p := range c.pending {
		if !p.IsComplete() {
			live = append(live, p)
		}
	}
	c.pending = append(live, f)
}

func (c *Client) finish(req *Request, err error) error {
	c.metrics.observeRequest(req.Method, outcomeOf(err))
	return err
}

// serverMessage extracts a "message" or "error" string from a JSON body.
func serverMessage(body []byte) string {
	var payload map[string]any
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	for _, k := range []string{"message", "error"} {
		if s, ok := payload[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrInsecureTransport):
		return OutcomeInsecure
	case errors.Is(err, ErrRateLimited):
		return OutcomeRateLimited
	case errors.Is(err, ErrNetwork):
		return OutcomeNetworkError
	case errors.Is(err, ErrAuthExpired):
		return OutcomeUnauthorized
	case errors.Is(err, ErrForbidden):
		return OutcomeForbidden
	case errors.Is(err, ErrThrottled):
		return OutcomeThrottled
	case errors.Is(err, ErrInvalidResponse):
		return OutcomeInvalidResponse
	case errors.Is(err, ErrHTTP):
		return OutcomeHTTPError
	default:
		return OutcomeStageError
	}
}
