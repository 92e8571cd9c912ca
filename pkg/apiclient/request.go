package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Header names set by the request pipeline.
const (
	HeaderAuthorization = "Authorization"
	HeaderCSRFToken     = "X-CSRF-Token"
	HeaderTimestamp     = "X-Timestamp"
	HeaderSignature     = "X-Signature"
	HeaderContentType   = "Content-Type"
	HeaderUserAgent     = "User-Agent"
)

// Request is the outbound request as it moves through the stages. Stages
// mutate it in place. Body is any JSON-serializable value; nil means no body.
type Request struct {
	Method string
	URL    string
	Header *Headers
	Body   any
}

// NewRequest builds a request with an empty header set.
func NewRequest(method, url string, body any) *Request {
	return &Request{
		Method: method,
		URL:    url,
		Header: NewHeaders(),
		Body:   body,
	}
}

// HasBody reports whether the request carries a body.
func (r *Request) HasBody() bool {
	return r.Body != nil
}

// Response is a received HTTP response with its body fully read.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Decode unmarshals the JSON body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("apiclient: decode response: %w", err)
	}
	return nil
}
