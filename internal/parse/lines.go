package parse

import (
	"strings"
	"unicode"
)

const (
	Delimiter  = '|'
	BorderChar = '+'
)

// separatorChars are the only runes allowed on a Markdown header divider.
const separatorChars = "|-: \t"

// IsFramed reports whether the trimmed line starts and ends with the delimiter.
func IsFramed(line string) bool {
	s := strings.TrimSpace(line)
	return len(s) >= 2 && s[0] == Delimiter && s[len(s)-1] == Delimiter
}

// StartsWithDelimiter reports whether the trimmed line opens a row.
func StartsWithDelimiter(line string) bool {
	s := strings.TrimSpace(line)
	return s != "" && s[0] == Delimiter
}

// IsSeparatorLine matches the Markdown divider (`|---|:--:|`).
// A line needs at least one dash so blank lines never qualify.
func IsSeparatorLine(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" || !strings.ContainsRune(s, '-') {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(separatorChars, r) {
			return false
		}
	}
	return true
}

// IsBorderLine matches ASCII framing such as `+----+------+`.
func IsBorderLine(line string) bool {
	s := strings.TrimSpace(line)
	if !strings.ContainsRune(s, BorderChar) {
		return false
	}
	return !hasAlnum(s)
}

// IsDecorative reports lines that are skipped while scanning data rows.
func IsDecorative(line string) bool {
	s := strings.TrimSpace(line)
	return s == "" || IsBorderLine(s) || IsSeparatorLine(s)
}

func hasAlnum(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// splitLines breaks text into trimmed physical lines.
func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, len(raw))
	for i, l := range raw {
		out[i] = strings.TrimSpace(l)
	}
	return out
}
