package generate

import (
	"regexp"
	"strings"
)

var reNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?(?:[eE][-+]?\d+)?$`)

// Literal renders a cell as a SQL value: NULL for a null cell, the raw
// token for numbers, otherwise a single-quoted string with embedded quotes
// doubled. Numbers with leading zeros stay quoted so codes keep their form.
func Literal(v string) string {
	t := strings.TrimSpace(v)
	switch {
	case strings.EqualFold(t, "NULL"):
		return "NULL"
	case reNumeric.MatchString(t):
		return t
	}
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

// cellLiteral renders row[i], treating a missing cell as NULL.
func cellLiteral(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return "NULL"
	}
	return Literal(row[i])
}

// inList renders the distinct values of column i across rows, in
// first-seen order.
func inList(rows [][]string, i int) string {
	seen := map[string]bool{}
	vals := make([]string, 0, len(rows))
	for _, r := range rows {
		lit := cellLiteral(r, i)
		if seen[lit] {
			continue
		}
		seen[lit] = true
		vals = append(vals, lit)
	}
	return strings.Join(vals, ", ")
}
