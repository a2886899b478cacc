// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rst

import "strings"

const esc = 0x1b

// Strip removes terminal control sequences from s. Each sequence runs from
// an ESC byte through the next lowercase ASCII letter, inclusive, and is
// dropped whole; an unterminated sequence at the end of s is dropped too.
// All other bytes, newlines included, are kept unchanged.
//
// ESC and the terminating letters are ASCII, so scanning bytes rather than
// runes keeps multi-byte and even invalid UTF-8 intact.
func Strip(s string) string {
	if strings.IndexByte(s, esc) < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	inEscape := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inEscape:
			if 'a' <= c && c <= 'z' {
				inEscape = false
			}
		case c == esc:
			inEscape = true
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
