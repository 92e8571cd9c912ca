package sanitizer

import (
	"bytes"
	"encoding/json"
)

// JSONBody escapes every string of v as it would appear once encoded as
// JSON. v is marshaled, decoded into generic maps, slices and json.Number
// values, then walked with Markup. Unlike Body, this also covers strings
// that only exist in the encoded form: fields promoted from unexported
// embedded structs, json.RawMessage and custom json.Marshaler output.
// Object key order of the result follows encoding/json map ordering.
func JSONBody(v any) (any, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	return Walk(tree, Markup), nil
}
