package sanitizer

import (
	"strings"
	"unicode/utf16"
)

// Trim removes leading and trailing whitespace from the string.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// RemoveChars removes all occurrences of the specified characters from the string.
func RemoveChars(s string, chars string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(chars, r) {
			return -1
		}
		return r
	}, s)
}

// RemoveExtraWhitespace collapses every whitespace run into a single space and trims the ends.
func RemoveExtraWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Length16 returns the length of s in UTF-16 code units, which is how browsers
// measure field lengths.
func Length16(s string) int {
	n := 0
	for _, r := range s {
		n += runeLen16(r)
	}
	return n
}

// MaxLength16 truncates s to at most maxLen UTF-16 code units.
// A surrogate pair that would straddle the limit is dropped entirely.
func MaxLength16(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	n := 0
	for i, r := range s {
		w := runeLen16(r)
		if n+w > maxLen {
			return s[:i]
		}
		n += w
	}
	return s
}

func runeLen16(r rune) int {
	if l := utf16.RuneLen(r); l > 0 {
		return l
	}
	// Invalid runes decode to U+FFFD, a single unit.
	return 1
}
