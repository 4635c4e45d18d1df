// Package generate derives SELECT, INSERT and DELETE statements from the
// rows and columns currently on screen.
package generate

import (
	"fmt"
	"strings"
)

type Status int

const (
	StatusOK Status = iota
	// StatusEmpty means there is nothing to generate from.
	StatusEmpty
	// StatusRefused is the policy refusal to write to several tables at once.
	StatusRefused
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusRefused:
		return "refused"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

type Result struct {
	SQL    string
	Status Status
	Reason string
}

func (r Result) OK() bool { return r.Status == StatusOK }

func ok(sql string) Result       { return Result{SQL: sql, Status: StatusOK} }
func empty(reason string) Result { return Result{Status: StatusEmpty, Reason: reason} }
func refused(format string, a ...any) Result {
	return Result{Status: StatusRefused, Reason: fmt.Sprintf(format, a...)}
}

// View is the slice of table state generation works on.
type View struct {
	Table    string     // explicit target table; "" derives it from the source
	Headers  []string   // all parsed headers
	Rows     [][]string // filtered and sorted full rows
	Columns  []int      // visible columns in display order
	Filtered bool       // a row filter is active
}

func (v View) visibleHeaders() []string {
	out := make([]string, 0, len(v.Columns))
	for _, c := range v.Columns {
		if c >= 0 && c < len(v.Headers) {
			out = append(out, v.Headers[c])
		}
	}
	return out
}

// Select builds a SELECT of the visible columns. A join source keeps its
// FROM clause verbatim. When a row filter is active the rows on screen are
// pinned with an IN list over the first visible column.
func Select(v View, src Source) Result {
	headers := v.visibleHeaders()
	if len(headers) == 0 {
		return empty("no visible columns")
	}
	join := src.Join && src.From != ""
	from := v.Table
	if join {
		from = src.From
	} else if from == "" {
		from = src.DefaultTable()
	}
	if from == "" {
		return empty("no table name")
	}
	fields := make([]string, len(headers))
	for i, h := range headers {
		fields[i] = h
		if join {
			fields[i] = src.ref(h)
			if src.name(h) != h && fields[i] != h {
				fields[i] += " AS " + h
			}
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(fields, ", "), from)
	if v.Filtered {
		if len(v.Rows) == 0 {
			return empty("no rows match the filter")
		}
		col := headers[0]
		if join {
			col = src.ref(col)
		}
		fmt.Fprintf(&b, " WHERE %s IN (%s)", col, inList(v.Rows, v.Columns[0]))
	}
	b.WriteByte(';')
	return ok(b.String())
}

// Insert builds one INSERT with a tuple per row.
func Insert(v View, src Source) Result {
	headers := v.visibleHeaders()
	if len(headers) == 0 {
		return empty("no visible columns")
	}
	if tables, multi := CrossTable(v, src); multi {
		return refused("visible columns come from several tables (%s)", strings.Join(tables, ", "))
	}
	table := target(v, src)
	if table == "" {
		return empty("no table name")
	}
	if len(v.Rows) == 0 {
		return empty("no rows to insert")
	}
	cols := make([]string, len(headers))
	for i, h := range headers {
		cols[i] = src.name(h)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES", table, strings.Join(cols, ", "))
	for i, r := range v.Rows {
		vals := make([]string, len(v.Columns))
		for j, c := range v.Columns {
			vals[j] = cellLiteral(r, c)
		}
		sep := ","
		if i == len(v.Rows)-1 {
			sep = ";"
		}
		fmt.Fprintf(&b, "\n  (%s)%s", strings.Join(vals, ", "), sep)
	}
	return ok(b.String())
}

// Delete builds a DELETE of the rows on screen, keyed by the first visible
// column. It always carries a WHERE clause.
func Delete(v View, src Source) Result {
	headers := v.visibleHeaders()
	if len(headers) == 0 {
		return empty("no visible columns")
	}
	if tables, multi := CrossTable(v, src); multi {
		return refused("visible columns come from several tables (%s)", strings.Join(tables, ", "))
	}
	table := target(v, src)
	if table == "" {
		return empty("no table name")
	}
	if len(v.Rows) == 0 {
		return empty("no rows to delete")
	}
	return ok(fmt.Sprintf("DELETE FROM %s WHERE %s IN (%s);", table, src.name(headers[0]), inList(v.Rows, v.Columns[0])))
}
