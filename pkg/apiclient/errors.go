package apiclient

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidConfig     = errors.New("apiclient: invalid configuration")
	ErrInvalidRequest    = errors.New("apiclient: invalid request")
	ErrInsecureTransport = errors.New("apiclient: insecure transport")
	ErrRateLimited       = errors.New("apiclient: rate limit exceeded")
	ErrAuthExpired       = errors.New("apiclient: authentication expired")
	ErrForbidden         = errors.New("apiclient: access forbidden")
	ErrThrottled         = errors.New("apiclient: too many requests")
	ErrHTTP              = errors.New("apiclient: http error")
	ErrNetwork           = errors.New("apiclient: network error")
	ErrInvalidResponse   = errors.New("apiclient: invalid response")
)

// Machine-readable error codes carried by Error.Code.
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInsecureTransport = "INSECURE_TRANSPORT"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeTooManyRequests   = "TOO_MANY_REQUESTS"
	CodeHTTPError         = "HTTP_ERROR"
	CodeNetworkError      = "NETWORK_ERROR"
	CodeInvalidResponse   = "INVALID_RESPONSE"
)

// Error is returned for every failed request. Status is zero when no
// response was received. Err is one of the package sentinels, or a
// *TransportError for network failures, and can be matched with errors.Is.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying sentinel or transport error.
func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status of the failed response.
func (e *Error) StatusCode() int {
	return e.Status
}

// TransportError wraps a failure to obtain any response at all, such as a
// DNS error, a refused connection or a timeout.
type TransportError struct {
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return "apiclient: transport: " + e.Err.Error()
}

// Unwrap returns the cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is makes every TransportError match ErrNetwork.
func (e *TransportError) Is(target error) bool {
	return target == ErrNetwork
}

func newError(status int, code, message string, err error) *Error {
	if message == "" {
		message = http.StatusText(status)
	}
	return &Error{Status: status, Code: code, Message: message, Err: err}
}
