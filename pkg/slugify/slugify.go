// Package slugify derives URL-safe slugs from display names.
package slugify

import (
	"strings"
	"unicode"
)

// Make converts s into a lowercase hyphen-separated slug. Letters and digits
// are kept, runs of anything else collapse into a single hyphen.
func Make(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.TrimRight(b.String(), "-")
}
