// Package token normalizes free text into comparable terms for lexical
// overlap scoring.
package token

import (
	"strings"
	"unicode"
)

// Normalize splits text on any non-alphanumeric boundary, lowercases every
// term, and removes duplicates while preserving first-occurrence order.
// Empty or whitespace-only input yields nil.
func Normalize(text string) []string {
	var (
		out  []string
		buf  strings.Builder
		seen = map[string]bool{}
	)
	flush := func() {
		if buf.Len() == 0 {
			return
		}
		term := buf.String()
		buf.Reset()
		if !seen[term] {
			seen[term] = true
			out = append(out, term)
		}
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			buf.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return out
}
