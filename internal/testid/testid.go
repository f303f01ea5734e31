// Package testid builds deterministic kebab-case identifiers used as the
// data-testid of verification targets.
package testid

import (
	"strings"
	"unicode"
)

// Generate joins the normalized component, element and variant segments
// with "-". Segments that normalize to the empty string are dropped, so the
// result may itself be empty.
func Generate(component, element, variant string) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{component, element, variant} {
		if n := Normalize(s); n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "-")
}

// Normalize converts s to kebab-case: camelCase boundaries and runs of
// whitespace or underscores become single hyphens, everything outside
// [a-z0-9-] is removed, and leading/trailing hyphens are trimmed.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)

	var prev rune
	for i, r := range s {
		switch {
		case unicode.IsSpace(r) || r == '_':
			r = '-'
		case i > 0 && isUpperASCII(r) && (isLowerASCII(prev) || isDigitASCII(prev)):
			writeHyphen(&b)
		}
		prev = r

		r = unicode.ToLower(r)
		if r == '-' {
			writeHyphen(&b)
			continue
		}
		if isLowerASCII(r) || isDigitASCII(r) {
			b.WriteRune(r)
		}
	}

	return strings.Trim(b.String(), "-")
}

// Valid reports whether id is a canonical test ID: lowercase alphanumeric
// words separated by single hyphens.
func Valid(id string) bool {
	return id != "" && Normalize(id) == id
}

// writeHyphen appends a hyphen unless the builder already ends in one.
func writeHyphen(b *strings.Builder) {
	s := b.String()
	if len(s) > 0 && s[len(s)-1] == '-' {
		return
	}
	b.WriteByte('-')
}

func isUpperASCII(r rune) bool { return r >= 'A' && r <= 'Z' }
func isLowerASCII(r rune) bool { return r >= 'a' && r <= 'z' }
func isDigitASCII(r rune) bool { return r >= '0' && r <= '9' }
