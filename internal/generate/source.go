package generate

import (
	"sort"
	"strings"

	"tablesense/internal/sqltext"
)

// Source is the analysed form of the most recently extracted statement.
type Source struct {
	SQL     string // compressed statement
	Tables  []string
	Join    bool
	From    string // verbatim FROM clause
	Columns []sqltext.Column
	Aliases map[string]string
}

// NewSource analyses sql. Empty input yields an empty Source.
func NewSource(sql string) Source {
	c := sqltext.Compress(sql)
	if c == "" {
		return Source{}
	}
	return Source{
		SQL:     c,
		Tables:  sqltext.TableNames(c),
		Join:    sqltext.IsJoin(c),
		From:    sqltext.FromClause(c),
		Columns: sqltext.SelectColumns(c),
		Aliases: sqltext.TableAliases(c),
	}
}

func (s Source) Empty() bool { return s.SQL == "" }

// DefaultTable is the first table the statement references.
func (s Source) DefaultTable() string {
	if len(s.Tables) == 0 {
		return ""
	}
	return s.Tables[0]
}

// column finds the SELECT field that produced header.
func (s Source) column(header string) (sqltext.Column, bool) {
	for _, c := range s.Columns {
		if c.Key == header {
			return c, true
		}
	}
	for _, c := range s.Columns {
		if strings.EqualFold(c.Key, header) {
			return c, true
		}
	}
	return sqltext.Column{}, false
}

// TableOf resolves the table a header came from, or sqltext.Unknown.
func (s Source) TableOf(header string) string {
	c, ok := s.column(header)
	if !ok || !c.Qualified() {
		return sqltext.Unknown
	}
	if t, ok := s.Aliases[c.Table]; ok {
		return t
	}
	return c.Table
}

// ref is how a join query refers to header: the prefixed expression when
// one is known, else the bare header.
func (s Source) ref(header string) string {
	if c, ok := s.column(header); ok && c.Qualified() {
		return c.Expr
	}
	return header
}

// name is the real column name behind header, undoing a SELECT alias.
func (s Source) name(header string) string {
	if c, ok := s.column(header); ok && c.Qualified() {
		return c.Name
	}
	return header
}

// CrossTable returns the distinct resolved tables of the visible columns
// and whether there is more than one. Unresolved columns are ignored.
func CrossTable(v View, src Source) ([]string, bool) {
	seen := map[string]bool{}
	var tables []string
	for _, h := range v.visibleHeaders() {
		t := src.TableOf(h)
		if t == sqltext.Unknown || seen[t] {
			continue
		}
		seen[t] = true
		tables = append(tables, t)
	}
	sort.Strings(tables)
	return tables, len(tables) > 1
}

// target picks the single table INSERT and DELETE write to.
func target(v View, src Source) string {
	if v.Table != "" {
		return v.Table
	}
	if tables, _ := CrossTable(v, src); len(tables) == 1 {
		return tables[0]
	}
	if !src.Join {
		return src.DefaultTable()
	}
	return ""
}
