package sqltext

import "strings"

// scanner walks SQL text tracking parenthesis depth and string literals.
// Backquoted identifiers count as quotes so a "," or "(" inside them is
// ignored.
type scanner struct {
	depth int
	quote byte
	esc   bool
}

// step consumes s[i] and reports whether it sits outside any literal.
func (sc *scanner) step(c byte) bool {
	if sc.quote != 0 {
		switch {
		case sc.esc:
			sc.esc = false
		case c == '\\' && sc.quote != '`':
			sc.esc = true
		case c == sc.quote:
			sc.quote = 0
		}
		return false
	}
	switch c {
	case '\'', '"', '`':
		sc.quote = c
		return false
	case '(':
		sc.depth++
	case ')':
		if sc.depth > 0 {
			sc.depth--
		}
	}
	return true
}

// splitTopLevel splits s on sep where it appears outside parentheses and
// quotes. Parts are trimmed; empty parts are dropped.
func splitTopLevel(s string, sep byte) []string {
	var (
		out   []string
		sc    scanner
		start int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if sc.step(c) && c == sep && sc.depth == 0 {
			if p := strings.TrimSpace(s[start:i]); p != "" {
				out = append(out, p)
			}
			start = i + 1
		}
	}
	if p := strings.TrimSpace(s[start:]); p != "" {
		out = append(out, p)
	}
	return out
}

// splitTopLevelSpace splits s into whitespace-separated tokens, keeping
// parenthesised groups and literals whole.
func splitTopLevelSpace(s string) []string {
	var (
		out   []string
		sc    scanner
		start = -1
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		outside := sc.step(c)
		space := outside && sc.depth == 0 && isSpace(c)
		switch {
		case space && start >= 0:
			out = append(out, s[start:i])
			start = -1
		case !space && start < 0:
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

// mask blanks the content of string literals so keyword searches cannot
// match inside them. Byte offsets are preserved. Backquoted identifiers are
// left readable.
func mask(s string) string {
	b := []byte(s)
	var quote byte
	for i := 0; i < len(b); i++ {
		c := b[i]
		if quote == 0 {
			if c == '\'' || c == '"' {
				quote = c
			}
			continue
		}
		switch {
		case c == '\\' && i+1 < len(b):
			b[i], b[i+1] = 'x', 'x'
			i++
		case c == quote && i+1 < len(b) && b[i+1] == quote:
			b[i], b[i+1] = 'x', 'x'
			i++
		case c == quote:
			quote = 0
		default:
			b[i] = 'x'
		}
	}
	return string(b)
}

// depths returns the parenthesis depth before each byte of a masked string.
func depths(m string) []int {
	out := make([]int, len(m)+1)
	d := 0
	for i := 0; i < len(m); i++ {
		out[i] = d
		switch m[i] {
		case '(':
			d++
		case ')':
			if d > 0 {
				d--
			}
		}
	}
	out[len(m)] = d
	return out
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isWordByte(c byte) bool {
	return c == '_' || c == '$' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
