package catalog

import (
	"regexp"
	"strings"
	"unicode"
)

var urlSafe = regexp.MustCompile(`^[A-Za-z0-9._~-]+$`)

// IsURLSafe reports whether s can be used as a single path segment without
// escaping.
func IsURLSafe(s string) bool {
	return s != "." && s != ".." && urlSafe.MatchString(s)
}

// foldName converts a display name to a comparison form: lowercase, letters
// and digits only, single spaces. Arabic alef variants collapse to bare alef
// and tatweel is dropped so spelling variants of the same name match.
func foldName(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))

	prevSpace := false
	for _, r := range s {
		switch r {
		case 'أ', 'إ', 'آ', 'ٱ':
			r = 'ا'
		case 'ـ':
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevSpace = false
			continue
		}
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if !prevSpace {
			b.WriteRune(' ')
			prevSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// Slug turns a label into a machine key: folded, with spaces as hyphens.
func Slug(s string) string {
	return strings.ReplaceAll(foldName(s), " ", "-")
}
