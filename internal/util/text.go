// Package util holds small input-cleaning helpers shared by the services.
package util

import (
	"strings"
	"unicode"
)

// CleanText trims s and drops control and invisible format characters.
// Newlines and tabs survive when keepLines is set.
func CleanText(s string, keepLines bool) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if keepLines && (r == '\n' || r == '\t') {
			b.WriteRune(r)
			continue
		}
		if unicode.IsControl(r) || isInvisibleUnicode(r) {
			continue
		}
		b.WriteRune(r)
	}

	return strings.TrimSpace(b.String())
}

// isInvisibleUnicode reports zero-width and other format characters that
// render as nothing but still defeat equality checks.
func isInvisibleUnicode(r rune) bool {
	switch r {
	case
		'\u200B', // zero-width space
		'\u200C', // zero-width non-joiner
		'\u200D', // zero-width joiner
		'\u2060', // word joiner
		'\uFEFF', // BOM
		'\uFFF9', '\uFFFA', '\uFFFB':
		return true
	}
	return unicode.Is(unicode.Cf, r)
}
