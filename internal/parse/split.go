package parse

import "strings"

// SplitLine splits one line of delimited text into trimmed cells.
//
// Framed rows (leading `|`) are scanned rune by rune; a delimiter inside
// braces, brackets or a quoted string stays part of the cell so embedded
// JSON survives. Anything else falls back to a naive split that drops
// empty cells.
func SplitLine(line string) []string {
	s := strings.TrimSpace(line)
	if s == "" {
		return nil
	}
	if s[0] != Delimiter {
		return splitLoose(s)
	}
	body := s[1:]
	if strings.HasSuffix(body, string(Delimiter)) {
		body = body[:len(body)-1]
	}
	cells, balanced := scanCells(body, true)
	if !balanced {
		// An unmatched quote (e.g. an apostrophe in prose) would otherwise
		// swallow the rest of the row.
		cells, _ = scanCells(body, false)
	}
	return cells
}

func splitLoose(s string) []string {
	parts := strings.Split(s, string(Delimiter))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// scanCells splits body on top-level delimiters. The second result is false
// when a quote was still open at the end of the input.
func scanCells(body string, trackQuotes bool) ([]string, bool) {
	var (
		cells    []string
		cur      strings.Builder
		braces   int
		brackets int
		quote    rune
		escaped  bool
	)
	for _, r := range body {
		if escaped {
			cur.WriteRune(r)
			escaped = false
			continue
		}
		switch {
		case r == '\\' && quote != 0:
			escaped = true
		case trackQuotes && (r == '"' || r == '\''):
			if quote == 0 {
				quote = r
			} else if quote == r {
				quote = 0
			}
		case quote != 0:
		case r == '{':
			braces++
		case r == '}':
			if braces > 0 {
				braces--
			}
		case r == '[':
			brackets++
		case r == ']':
			if brackets > 0 {
				brackets--
			}
		case r == Delimiter && braces == 0 && brackets == 0:
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteRune(r)
	}
	cells = append(cells, strings.TrimSpace(cur.String()))
	return cells, quote == 0
}
