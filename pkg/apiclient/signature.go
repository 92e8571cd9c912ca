package apiclient

import (
	"bytes"
	"encoding/json"
	"strconv"
	"unicode/utf16"
)

// Signature computes the X-Signature value for body and timestamp: a 32-bit
// rolling hash (h = h*31 + unit, wrapping) over the UTF-16 code units of the
// JSON body followed by the timestamp, printed as the absolute value in base 16.
//
// It is a tamper-evidence placeholder, not a MAC. Anyone can recompute it.
func Signature(body any, timestamp string) (string, error) {
	payload, err := marshalBody(body)
	if err != nil {
		return "", err
	}
	return rollingHash(string(payload) + timestamp), nil
}

func rollingHash(s string) string {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(u)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 16)
}

// marshalBody encodes v as compact JSON without HTML escaping. The signature
// covers the body as the caller passed it; sanitize_body runs afterwards, so
// the bytes on the wire differ whenever a string needed escaping.
func marshalBody(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
