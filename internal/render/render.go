// Package render draws a projection as a plain aligned text table.
package render

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"tablesense/internal/view"
)

type Options struct {
	// MaxCellWidth truncates wider cells; 0 disables truncation.
	MaxCellWidth int
	// Footer appends the "(N rows)" line.
	Footer bool
}

// Table renders columns and rows in the `+---+` style of the MySQL client.
// Widths are display widths, so wide runes stay aligned.
func Table(columns []string, rows [][]string, opt Options) string {
	if len(columns) == 0 {
		return "(0 rows)\n"
	}
	fit := func(s string) string {
		s = strings.ReplaceAll(s, "\n", " ")
		if opt.MaxCellWidth > 0 && runewidth.StringWidth(s) > opt.MaxCellWidth {
			return runewidth.Truncate(s, opt.MaxCellWidth, "…")
		}
		return s
	}
	head := make([]string, len(columns))
	widths := make([]int, len(columns))
	for i, c := range columns {
		head[i] = fit(c)
		widths[i] = runewidth.StringWidth(head[i])
	}
	body := make([][]string, len(rows))
	for r, row := range rows {
		body[r] = make([]string, len(columns))
		for i := range columns {
			cell := ""
			if i < len(row) {
				cell = fit(row[i])
			}
			body[r][i] = cell
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	sep := separator(widths)
	line := func(cells []string) {
		b.WriteByte('|')
		for i, c := range cells {
			b.WriteByte(' ')
			b.WriteString(runewidth.FillRight(c, widths[i]))
			b.WriteString(" |")
		}
		b.WriteByte('\n')
	}
	b.WriteString(sep)
	line(head)
	b.WriteString(sep)
	for _, row := range body {
		line(row)
	}
	b.WriteString(sep)
	if opt.Footer {
		if n := len(rows); n == 1 {
			b.WriteString("(1 row)\n")
		} else {
			fmt.Fprintf(&b, "(%d rows)\n", n)
		}
	}
	return b.String()
}

// Projection renders the visible part of p, marking the sorted column.
func Projection(p view.Projection, opt Options) string {
	headers := make([]string, len(p.Headers))
	copy(headers, p.Headers)
	for i, c := range p.Columns {
		if c == p.SortCol && i < len(headers) {
			switch p.SortDir {
			case view.SortAsc:
				headers[i] += " ▲"
			case view.SortDesc:
				headers[i] += " ▼"
			}
		}
	}
	return Table(headers, p.Cells, opt)
}

func separator(widths []int) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteByte('+')
	}
	b.WriteByte('\n')
	return b.String()
}
