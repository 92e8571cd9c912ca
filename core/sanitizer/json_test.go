package sanitizer_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/guard/core/sanitizer"
)

type meta struct {
	Note string `json:"note"`
}

type embeddedPayload struct {
	meta
	Name string `json:"name"`
}

type marshalerPayload struct{ secret string }

func (p marshalerPayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"value": p.secret})
}

func TestWalk_SkipsUnexportedEmbedded(t *testing.T) {
	t.Parallel()

	in := embeddedPayload{meta: meta{Note: "<script>"}, Name: "<b>"}
	out := sanitizer.Body(in).(embeddedPayload)

	assert.Equal(t, "&lt;b&gt;", out.Name)
	assert.Equal(t, "<script>", out.Note, "Walk does not reach unexported embedded structs")
}

func TestJSONBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want any
	}{
		{
			name: "promoted fields of unexported embedded struct",
			in:   embeddedPayload{meta: meta{Note: "<script>x</script>"}, Name: "<b>"},
			want: map[string]any{
				"note": "&lt;script&gt;x&lt;&#x2F;script&gt;",
				"name": "&lt;b&gt;",
			},
		},
		{
			name: "raw message",
			in:   map[string]any{"raw": json.RawMessage(`"<script>y</script>"`)},
			want: map[string]any{"raw": "&lt;script&gt;y&lt;&#x2F;script&gt;"},
		},
		{
			name: "custom marshaler",
			in:   marshalerPayload{secret: `"quoted"`},
			want: map[string]any{"value": "&quot;quoted&quot;"},
		},
		{
			name: "numbers keep their text",
			in:   map[string]any{"n": json.Number("12345678901234567890"), "f": 1.5},
			want: map[string]any{"n": json.Number("12345678901234567890"), "f": json.Number("1.5")},
		},
		{
			name: "top level string",
			in:   "a&b",
			want: "a&amp;b",
		},
		{
			name: "nil",
			in:   nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := sanitizer.JSONBody(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONBody_Unencodable(t *testing.T) {
	t.Parallel()

	_, err := sanitizer.JSONBody(map[string]any{"x": math.Inf(1)})
	require.Error(t, err)
}
