package apiclient

import "net/http"

// Headers is an insertion-ordered set of request headers. Names are
// canonicalized. There is no delete: a stage may add or overwrite a header
// but cannot remove one set by an earlier stage.
type Headers struct {
	keys   []string
	values map[string]string
}

// NewHeaders returns an empty header set.
func NewHeaders() *Headers {
	return &Headers{values: make(map[string]string)}
}

// Set adds or overwrites a header. Overwriting keeps the original position.
func (h *Headers) Set(name, value string) {
	name = http.CanonicalHeaderKey(name)
	if _, ok := h.values[name]; !ok {
		h.keys = append(h.keys, name)
	}
	h.values[name] = value
}

// Get returns the header value or an empty string.
func (h *Headers) Get(name string) string {
	return h.values[http.CanonicalHeaderKey(name)]
}

// Has reports whether the header was set.
func (h *Headers) Has(name string) bool {
	_, ok := h.values[http.CanonicalHeaderKey(name)]
	return ok
}

// Keys returns header names in insertion order.
func (h *Headers) Keys() []string {
	return append([]string(nil), h.keys...)
}

// Len returns the number of headers.
func (h *Headers) Len() int {
	return len(h.keys)
}

// Clone returns an independent copy.
func (h *Headers) Clone() *Headers {
	c := &Headers{
		keys:   append([]string(nil), h.keys...),
		values: make(map[string]string, len(h.values)),
	}
	for k, v := range h.values {
		c.values[k] = v
	}
	return c
}

// HTTP converts the set into an http.Header.
func (h *Headers) HTTP() http.Header {
	out := make(http.Header, len(h.keys))
	for _, k := range h.keys {
		out.Set(k, h.values[k])
	}
	return out
}
