package util

import (
	"strings"
	"unicode"
)

// DefaultMaxSegmentLength bounds sanitized path segments.
const DefaultMaxSegmentLength = 120

// illegalPathChars are rejected in a path segment on at least one of the
// platforms the output is copied to.
const illegalPathChars = `<>:"/\|?*`

// Sanitizer turns arbitrary text into a filesystem-safe path segment.
type Sanitizer struct {
	// MaxLength is the maximum segment length in runes (0 = default).
	MaxLength int
}

// Sanitize replaces illegal characters with '_', collapses whitespace runs,
// turns spaces into '_' and truncates the result. Sanitize is idempotent.
func (z Sanitizer) Sanitize(s string) string {
	max := z.MaxLength
	if max <= 0 {
		max = DefaultMaxSegmentLength
	}

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = true
			continue
		case r < 0x20 || r == 0x7f || strings.ContainsRune(illegalPathChars, r):
			r = '_'
		}
		if pendingSpace {
			if b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSpace = false
		}
		b.WriteRune(r)
	}

	out := []rune(b.String())
	if len(out) > max {
		out = out[:max]
	}
	// Windows drops trailing dots from directory names.
	result := strings.TrimRight(string(out), ".")
	if result == "" {
		return "_"
	}
	return result
}

// SanitizePath is Sanitize with the default maximum length.
func SanitizePath(s string) string {
	return Sanitizer{}.Sanitize(s)
}
