// Package view owns the user's view over a parsed table: which columns are
// shown and in what order, the sort key and the row filter.
package view

import (
	"slices"
	"sort"
	"strings"

	"tablesense/internal/filter"
	"tablesense/internal/model"
)

type SortDir int

const (
	SortNone SortDir = iota
	SortAsc
	SortDesc
)

func (d SortDir) String() string {
	switch d {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	}
	return "none"
}

// State is reset on every parse. Columns are addressed by their index in
// the parsed header; positions refer to the display order.
type State struct {
	active  []bool
	order   []int
	sortCol int
	sortDir SortDir
	crit    filter.Criteria
	search  string
}

func New(n int) *State {
	s := &State{}
	s.Reset(n)
	return s
}

// Reset restores the defaults for a table of n columns: all columns active
// in natural order, no sort, no filter.
func (s *State) Reset(n int) {
	s.active = make([]bool, n)
	s.order = make([]int, n)
	for i := range s.order {
		s.active[i] = true
		s.order[i] = i
	}
	s.sortCol, s.sortDir = -1, SortNone
	s.crit = filter.Criteria{}
	s.search = ""
}

func (s *State) Len() int { return len(s.order) }

func (s *State) Active(col int) bool { return col >= 0 && col < len(s.active) && s.active[col] }

func (s *State) ToggleColumn(col int) {
	if col >= 0 && col < len(s.active) {
		s.active[col] = !s.active[col]
	}
}

func (s *State) SetColumn(col int, on bool) {
	if col >= 0 && col < len(s.active) {
		s.active[col] = on
	}
}

func (s *State) SetAllColumns(on bool) {
	for i := range s.active {
		s.active[i] = on
	}
}

// SetColumns activates exactly the given columns.
func (s *State) SetColumns(cols []int) {
	s.SetAllColumns(false)
	for _, c := range cols {
		s.SetColumn(c, true)
	}
}

// Order returns the display order of all columns, hidden ones included.
func (s *State) Order() []int { return slices.Clone(s.order) }

// MoveColumn moves the column at display position from to position to.
func (s *State) MoveColumn(from, to int) {
	n := len(s.order)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return
	}
	col := s.order[from]
	s.order = slices.Delete(s.order, from, from+1)
	s.order = slices.Insert(s.order, to, col)
}

// Position returns the display position of col, or -1.
func (s *State) Position(col int) int { return slices.Index(s.order, col) }

// CycleSort advances the sort on col: none, asc, desc, none. Choosing a
// different column starts again at asc.
func (s *State) CycleSort(col int) {
	if col < 0 || col >= len(s.order) {
		return
	}
	if col != s.sortCol {
		s.sortCol, s.sortDir = col, SortAsc
		return
	}
	switch s.sortDir {
	case SortNone:
		s.sortDir = SortAsc
	case SortAsc:
		s.sortDir = SortDesc
	default:
		s.sortCol, s.sortDir = -1, SortNone
	}
}

// SetSort sets the sort directly; SortNone clears it.
func (s *State) SetSort(col int, dir SortDir) {
	if dir == SortNone || col < 0 || col >= len(s.order) {
		s.sortCol, s.sortDir = -1, SortNone
		return
	}
	s.sortCol, s.sortDir = col, dir
}

func (s *State) Sort() (int, SortDir) { return s.sortCol, s.sortDir }

// SetSearch sets the row filter text. "/pattern/" searches by regex.
func (s *State) SetSearch(text string) {
	s.search = text
	s.crit.Query, s.crit.UseRegex = filter.ParseQuery(text)
}

func (s *State) Search() string { return s.search }

// SetScope limits the search to one header; "" searches all active columns.
func (s *State) SetScope(header string) { s.crit.Scope = strings.TrimSpace(header) }

func (s *State) Scope() string { return s.crit.Scope }

func (s *State) SetExpr(expr string) { s.crit.Expr = strings.TrimSpace(expr) }

func (s *State) Expr() string { return s.crit.Expr }

// Filtered reports whether a row filter is in effect.
func (s *State) Filtered() bool { return s.crit.Query != "" || s.crit.Expr != "" }

// Visible returns the active columns in display order.
func (s *State) Visible() []int {
	out := make([]int, 0, len(s.order))
	for _, c := range s.order {
		if s.active[c] {
			out = append(out, c)
		}
	}
	return out
}

// Projection is what a renderer shows: visible headers in order and the
// filtered, sorted rows.
type Projection struct {
	Headers  []string   // visible headers in display order
	Columns  []int      // parsed column index of each visible header
	Rows     [][]string // full rows, filtered and sorted
	Cells    [][]string // visible cells of each row
	Total    int        // rows before filtering
	Filtered bool
	SortCol  int
	SortDir  SortDir
	// Err is set when the filter could not be compiled; rows are then
	// left unfiltered.
	Err error
}

// Project recomputes the projection of t from scratch.
func (s *State) Project(t model.ParsedTable) Projection {
	p := Projection{
		Columns:  s.Visible(),
		Total:    len(t.Rows),
		Filtered: s.Filtered(),
		SortCol:  -1,
	}
	for _, c := range p.Columns {
		if c < len(t.Headers) {
			p.Headers = append(p.Headers, t.Headers[c])
		}
	}
	p.Rows = t.Rows
	if p.Filtered {
		ev, err := filter.NewEvaluator(s.crit)
		if err != nil {
			p.Err = err
		} else {
			rows := make([][]string, 0, len(t.Rows))
			for _, r := range t.Rows {
				if ev.Match(t.Headers, r, p.Columns, s.crit) {
					rows = append(rows, r)
				}
			}
			p.Rows = rows
		}
	}
	if s.sortDir != SortNone && s.Active(s.sortCol) {
		rows := slices.Clone(p.Rows)
		col, desc := s.sortCol, s.sortDir == SortDesc
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := cell(rows[i], col), cell(rows[j], col)
			if desc {
				return a > b
			}
			return a < b
		})
		p.Rows = rows
		p.SortCol, p.SortDir = col, s.sortDir
	}
	p.Cells = make([][]string, len(p.Rows))
	for i, r := range p.Rows {
		cells := make([]string, len(p.Columns))
		for j, c := range p.Columns {
			cells[j] = cell(r, c)
		}
		p.Cells[i] = cells
	}
	return p
}

func cell(row []string, i int) string {
	if i >= 0 && i < len(row) {
		return row[i]
	}
	return ""
}
