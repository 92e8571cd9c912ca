package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TransportRequest is what the client hands to a Transport once every
// request stage has run. Body is the JSON encoding of the sanitized body.
type TransportRequest struct {
	Method  string
	URL     string
	Header  *Headers
	Body    []byte
	Timeout time.Duration
}

// TransportResponse is the raw result of a round trip. A Transport returns
// one for every status code, errors included.
type TransportResponse struct {
	Status int
	Header http.Header
	Body   []byte
}

// Transport performs the network round trip. Returning an error means no
// response was obtained.
type Transport interface {
	Do(ctx context.Context, req *TransportRequest) (*TransportResponse, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, req *TransportRequest) (*TransportResponse, error)

// Do implements Transport.
func (f TransportFunc) Do(ctx context.Context, req *TransportRequest) (*TransportResponse, error) {
	return f(ctx, req)
}

// DefaultMaxResponseBytes caps how much of a response body is read.
const DefaultMaxResponseBytes = 10 << 20

// HTTPTransport is the default Transport backed by net/http.
type HTTPTransport struct {
	client   *http.Client
	maxBytes int64
}

// HTTPTransportOption configures an HTTPTransport.
type HTTPTransportOption func(*HTTPTransport)

// WithMaxResponseBytes overrides DefaultMaxResponseBytes. Non-positive
// values are ignored.
func WithMaxResponseBytes(n int64) HTTPTransportOption {
	return func(t *HTTPTransport) {
		if n > 0 {
			t.maxBytes = n
		}
	}
}

// NewHTTPTransport wraps client. A nil client uses a fresh http.Client.
func NewHTTPTransport(client *http.Client, opts ...HTTPTransportOption) *HTTPTransport {
	if client == nil {
		client = &http.Client{}
	}
	t := &HTTPTransport{client: client, maxBytes: DefaultMaxResponseBytes}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Do implements Transport. The per-request timeout bounds the whole round
// trip including reading the body.
func (t *HTTPTransport) Do(ctx context.Context, req *TransportRequest) (*TransportResponse, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if req.Header != nil {
		httpReq.Header = req.Header.HTTP()
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if int64(len(data)) > t.maxBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrInvalidResponse, t.maxBytes)
	}

	return &TransportResponse{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   data,
	}, nil
}
