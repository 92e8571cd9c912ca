package sanitizer

import "strings"

// SearchTermMaxLength is the maximum length of a search term in UTF-16 code units.
const SearchTermMaxLength = 100

// searchTermStripChars are deleted, not escaped, from search input.
const searchTermStripChars = `<>"'&`

// markupReplacer escapes & first so that entities produced for the other
// characters are never re-escaped within the same pass.
var markupReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// Markup escapes & < > " ' / to HTML entities in a single pass.
// Applying it twice escapes the ampersands of the first pass again.
func Markup(s string) string {
	return markupReplacer.Replace(s)
}

// SearchTerm removes markup-significant characters, collapses whitespace and
// truncates the result to SearchTermMaxLength code units.
func SearchTerm(s string) string {
	s = RemoveChars(s, searchTermStripChars)
	s = RemoveExtraWhitespace(s)
	return MaxLength16(s, SearchTermMaxLength)
}
