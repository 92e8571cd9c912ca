package sanitizer_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/guard/core/sanitizer"
)

func TestBody_GenericJSONShapes(t *testing.T) {
	t.Parallel()

	input := map[string]any{
		"name":   "<b>shop</b>",
		"amount": 12.5,
		"active": true,
		"tags":   []any{"a&b", 42, nil, map[string]any{"note": "'x'"}},
		"empty":  nil,
	}

	out, ok := sanitizer.Body(input).(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "&lt;b&gt;shop&lt;&#x2F;b&gt;", out["name"])
	assert.Equal(t, 12.5, out["amount"])
	assert.Equal(t, true, out["active"])
	assert.Nil(t, out["empty"])

	tags, ok := out["tags"].([]any)
	require.True(t, ok)
	require.Len(t, tags, 4)
	assert.Equal(t, "a&amp;b", tags[0])
	assert.Equal(t, 42, tags[1])
	assert.Nil(t, tags[2])
	assert.Equal(t, map[string]any{"note": "&#x27;x&#x27;"}, tags[3])

	// input is left intact
	assert.Equal(t, "<b>shop</b>", input["name"])
	assert.Equal(t, "a&b", input["tags"].([]any)[0])
}

func TestWalk_Structs(t *testing.T) {
	t.Parallel()

	type address struct {
		Street string
		Zip    int
	}
	type payload struct {
		Name     string
		Address  *address
		Aliases  []string
		Created  time.Time
		internal string
	}

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	in := payload{
		Name:     "a<b",
		Address:  &address{Street: "x>y", Zip: 12345},
		Aliases:  []string{"one", "t/o"},
		Created:  created,
		internal: "<keep>",
	}

	out, ok := sanitizer.Walk(in, strings.ToUpper).(payload)
	require.True(t, ok)

	assert.Equal(t, "A<B", out.Name)
	require.NotNil(t, out.Address)
	assert.Equal(t, "X>Y", out.Address.Street)
	assert.Equal(t, 12345, out.Address.Zip)
	assert.Equal(t, []string{"ONE", "T/O"}, out.Aliases)
	assert.True(t, created.Equal(out.Created))

	// the original pointer target is not modified
	assert.Equal(t, "x>y", in.Address.Street)
}

func TestWalk_Leaves(t *testing.T) {
	t.Parallel()

	assert.Nil(t, sanitizer.Walk(nil, strings.ToUpper))
	assert.Equal(t, "ABC", sanitizer.Walk("abc", strings.ToUpper))
	assert.Equal(t, 10, sanitizer.Walk(10, strings.ToUpper))
	assert.Equal(t, [2]string{"A", "B"}, sanitizer.Walk([2]string{"a", "b"}, strings.ToUpper))

	var nilSlice []string
	assert.Nil(t, sanitizer.Walk(nilSlice, strings.ToUpper))
}
