package sqltext

import "strings"

// StripPrompts removes CLI prompt and continuation tokens from every line
// and trims the result. Line structure is kept.
func StripPrompts(sql string) string {
	lines := splitLines(sql)
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, stripTokens(l))
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// Compress renders sql on a single line: tokens and comments removed,
// whitespace collapsed, trailing terminators dropped. Compress is
// idempotent.
func Compress(sql string) string {
	s := sql
	for {
		next := compressOnce(s)
		if next == s {
			return next
		}
		s = next
	}
}

func compressOnce(s string) string {
	s = stripComments(StripPrompts(s))
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(strings.TrimRight(s, "; "))
}

// stripComments replaces "-- " line comments and /* */ block comments
// outside string literals with a single space.
func stripComments(s string) string {
	var (
		b  strings.Builder
		sc scanner
	)
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if sc.quote == 0 && c == '-' && strings.HasPrefix(s[i:], "--") && (i+2 == len(s) || isSpace(s[i+2])) {
			b.WriteByte(' ')
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				b.WriteByte('\n')
			}
			continue
		}
		if sc.quote == 0 && c == '/' && strings.HasPrefix(s[i:], "/*") {
			b.WriteByte(' ')
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				break
			}
			i += end + 3
			continue
		}
		sc.step(c)
		b.WriteByte(c)
	}
	return b.String()
}

// Format lays sql out one clause per line with the SELECT field list
// indented, terminated by exactly one ';'. Empty input yields "".
func Format(sql string) string {
	s := Compress(sql)
	if s == "" {
		return ""
	}
	var out []string
	for _, line := range breakClauses(s + ";") {
		out = append(out, layoutLine(line)...)
	}
	return strings.Join(out, "\n")
}

// breakClauses splits a compressed statement before every clause keyword
// found at parenthesis depth 0 outside literals.
func breakClauses(s string) []string {
	var (
		lines []string
		sc    scanner
		start int
	)
	for i := 0; i < len(s); i++ {
		if !sc.step(s[i]) || sc.depth != 0 || i == 0 || s[i-1] != ' ' {
			continue
		}
		n := matchClause(s[i:])
		if n == 0 {
			continue
		}
		lines = append(lines, strings.TrimSpace(s[start:i]))
		start = i
		i += n - 1
	}
	return append(lines, strings.TrimSpace(s[start:]))
}

func matchClause(rest string) int {
	for _, kw := range ClauseKeywords {
		if hasWord(rest, kw) {
			return len(kw)
		}
	}
	return 0
}

// hasWord reports whether s starts with kw (case-insensitive) followed by
// a non-word byte or the end of s.
func hasWord(s, kw string) bool {
	if len(s) < len(kw) || !strings.EqualFold(s[:len(kw)], kw) {
		return false
	}
	return len(s) == len(kw) || !isWordByte(s[len(kw)])
}

func layoutLine(line string) []string {
	switch {
	case hasWord(line, "SELECT"):
		return layoutSelect(line)
	case hasWord(line, "UNION ALL"), hasWord(line, "UNION"):
		kw := "UNION"
		if hasWord(line, "UNION ALL") {
			kw = "UNION ALL"
		}
		rest := strings.TrimSpace(line[len(kw):])
		if hasWord(rest, "SELECT") {
			return append([]string{line[:len(kw)]}, layoutSelect(rest)...)
		}
	}
	return []string{line}
}

// layoutSelect puts SELECT (and DISTINCT) on its own line followed by one
// field per line.
func layoutSelect(line string) []string {
	head := line[:len("SELECT")]
	rest := strings.TrimSpace(line[len("SELECT"):])
	if hasWord(rest, "DISTINCT") {
		head += " " + rest[:len("DISTINCT")]
		rest = strings.TrimSpace(rest[len("DISTINCT"):])
	}
	fields := splitTopLevel(rest, ',')
	out := make([]string, 0, len(fields)+1)
	out = append(out, head)
	for i, f := range fields {
		if i < len(fields)-1 {
			f += ","
		}
		out = append(out, "  "+f)
	}
	return out
}
