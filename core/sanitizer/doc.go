// Package sanitizer provides the input cleaning primitives used by the request
// pipeline and the form controller.
//
// # Markup escaping
//
// Markup escapes the characters that are significant in HTML and in quoted
// attribute values:
//
//	sanitizer.Markup(`<a href="/x">Tom & Jerry's</a>`)
//	// &lt;a href=&quot;&#x2F;x&quot;&gt;Tom &amp; Jerry&#x27;s&lt;&#x2F;a&gt;
//
// The escape is a single pass and is not idempotent: a second call escapes the
// ampersands produced by the first one. Callers must sanitize a value once, at
// the boundary where it enters the system.
//
// # Search terms
//
// SearchTerm deletes the characters < > " ' & instead of escaping them,
// collapses whitespace and limits the result to 100 UTF-16 code units, the
// unit browsers use for string length.
//
// # Structured bodies
//
// Walk and Body copy an arbitrary value (maps, slices, structs, pointers)
// depth-first and rewrite every string leaf. Keys, order and non-string leaves
// are preserved:
//
//	clean := sanitizer.Body(map[string]any{
//		"name": "<b>shop</b>",
//		"tags": []any{"a&b", 42},
//	})
//
// JSONBody escapes the JSON view of a value instead, reaching strings that a
// reflective walk cannot see, such as json.RawMessage contents.
package sanitizer
