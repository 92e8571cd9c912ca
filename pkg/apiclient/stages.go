package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/guard/core/logger"
	"github.com/dmitrymomot/guard/core/sanitizer"
	"github.com/dmitrymomot/guard/pkg/ratelimiter"
)

// RequestStage transforms or rejects an outbound request. Stages run in
// order and the first error stops the pipeline before any network call.
type RequestStage interface {
	Name() string
	Apply(ctx context.Context, req *Request) error
}

// ResponseStage inspects a successful response. Returning an error turns the
// response into a failure.
type ResponseStage interface {
	Name() string
	Inspect(ctx context.Context, req *Request, resp *Response) error
}

// NewRequestStage adapts fn to RequestStage.
func NewRequestStage(name string, fn func(ctx context.Context, req *Request) error) RequestStage {
	return requestStageFunc{name: name, fn: fn}
}

// NewResponseStage adapts fn to ResponseStage.
func NewResponseStage(name string, fn func(ctx context.Context, req *Request, resp *Response) error) ResponseStage {
	return responseStageFunc{name: name, fn: fn}
}

type requestStageFunc struct {
	name string
	fn   func(context.Context, *Request) error
}

func (s requestStageFunc) Name() string { return s.name }

func (s requestStageFunc) Apply(ctx context.Context, req *Request) error { return s.fn(ctx, req) }

type responseStageFunc struct {
	name string
	fn   func(context.Context, *Request, *Response) error
}

func (s responseStageFunc) Name() string { return s.name }

func (s responseStageFunc) Inspect(ctx context.Context, req *Request, resp *Response) error {
	return s.fn(ctx, req, resp)
}

// transportSecurityStage refuses plain-http requests in production.
type transportSecurityStage struct {
	production bool
}

func (transportSecurityStage) Name() string { return "transport_security" }

func (s transportSecurityStage) Apply(_ context.Context, req *Request) error {
	u, err := url.Parse(req.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return newError(0, CodeInvalidRequest, fmt.Sprintf("Invalid request URL %q", req.URL), ErrInvalidRequest)
	}
	if s.production && !strings.EqualFold(u.Scheme, "https") {
		return newError(0, CodeInsecureTransport, "HTTPS is required in production", ErrInsecureTransport)
	}
	return nil
}

// rateLimitStage admits at most limit requests per METHOD:URL key.
type rateLimitStage struct {
	limiter *ratelimiter.Limiter
	limit   ratelimiter.Limit
	metrics *Metrics
	logger  *slog.Logger
}

func (rateLimitStage) Name() string { return "rate_limit" }

func (s rateLimitStage) Apply(ctx context.Context, req *Request) error {
	key := req.Method + ":" + req.URL
	if s.limiter.AllowLimit(key, s.limit) {
		return nil
	}
	s.metrics.incRateLimited()
	s.logger.WarnContext(ctx, "request refused by local rate limit",
		logger.LimitKey(key),
		slog.Duration("retry_after", s.limiter.RetryAfter(key, s.limit)))
	return newError(http.StatusTooManyRequests, CodeRateLimitExceeded,
		"Rate limit exceeded. Please try again later.",
		fmt.Errorf("%w: %w", ErrRateLimited, ratelimiter.ErrRateLimitExceeded))
}

// storedHeaderStage copies a stored secret into a header when present.
type storedHeaderStage struct {
	name   string
	store  TokenStore
	key    string
	header string
	prefix string
}

func (s storedHeaderStage) Name() string { return s.name }

func (s storedHeaderStage) Apply(ctx context.Context, req *Request) error {
	v, ok := s.store.GetItem(ctx, s.key)
	if !ok || v == "" {
		return nil
	}
	req.Header.Set(s.header, s.prefix+v)
	return nil
}

// timestampStage stamps the request with the current epoch milliseconds.
type timestampStage struct {
	clock func() time.Time
}

func (timestampStage) Name() string { return "timestamp" }

func (s timestampStage) Apply(_ context.Context, req *Request) error {
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(s.clock().UnixMilli(), 10))
	return nil
}

// signatureStage signs requests that carry a body.
type signatureStage struct {
	enabled bool
}

func (signatureStage) Name() string { return "signature" }

func (s signatureStage) Apply(_ context.Context, req *Request) error {
	if !s.enabled || !req.HasBody() {
		return nil
	}
	sig, err := Signature(req.Body, req.Header.Get(HeaderTimestamp))
	if err != nil {
		return newError(0, CodeInvalidRequest, "Request body cannot be encoded",
			fmt.Errorf("%w: %v", ErrInvalidRequest, err))
	}
	req.Header.Set(HeaderSignature, sig)
	return nil
}

// sanitizeBodyStage replaces the body with its decoded JSON form with every
// string escaped, so each string the server receives has passed Markup.
type sanitizeBodyStage struct{}

func (sanitizeBodyStage) Name() string { return "sanitize_body" }

func (sanitizeBodyStage) Apply(_ context.Context, req *Request) error {
	if !req.HasBody() {
		return nil
	}
	body, err := sanitizer.JSONBody(req.Body)
	if err != nil {
		return newError(0, CodeInvalidRequest, "Request body cannot be encoded",
			fmt.Errorf("%w: %v", ErrInvalidRequest, err))
	}
	req.Body = body
	return nil
}

// suspiciousPattern matches script injection markers in response bodies.
var suspiciousPattern = regexp.MustCompile(`(?i)<script|javascript:|on\w+\s*=|eval\(`)

// structureStage requires a body and flags suspicious content.
type structureStage struct {
	metrics *Metrics
	logger  *slog.Logger
}

func (structureStage) Name() string { return "structure" }

func (s structureStage) Inspect(ctx context.Context, req *Request, resp *Response) error {
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		if resp.Status == http.StatusNoContent || req.Method == http.MethodHead {
			return nil
		}
		return newError(resp.Status, CodeInvalidResponse, "Invalid response: empty body", ErrInvalidResponse)
	}

	if loc := suspiciousPattern.FindIndex(resp.Body); loc != nil {
		s.metrics.incSuspicious()
		s.logger.WarnContext(ctx, "suspicious content in response",
			logger.Method(req.Method),
			logger.URL(req.URL),
			slog.String("match", string(resp.Body[loc[0]:loc[1]])))
	}
	return nil
}

// ExpectedSecurityHeaders are the response headers whose absence is reported.
var ExpectedSecurityHeaders = []string{
	"X-Content-Type-Options",
	"X-Frame-Options",
	"X-XSS-Protection",
	"Strict-Transport-Security",
}

// securityHeadersStage warns when hardening headers are missing.
type securityHeadersStage struct {
	logger *slog.Logger
}

func (securityHeadersStage) Name() string { return "security_headers" }

func (s securityHeadersStage) Inspect(ctx context.Context, req *Request, resp *Response) error {
	var missing []string
	for _, h := range ExpectedSecurityHeaders {
		if resp.Header.Get(h) == "" {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		s.logger.WarnContext(ctx, "response is missing security headers",
			logger.URL(req.URL),
			slog.Any("missing", missing))
	}
	return nil
}
