// Package session ties parsing, SQL extraction, the view state and
// statement generation together for one input text.
package session

import (
	"fmt"
	"strings"

	"tablesense/internal/detect"
	"tablesense/internal/generate"
	"tablesense/internal/model"
	"tablesense/internal/parse"
	"tablesense/internal/sqltext"
	"tablesense/internal/util/logx"
	"tablesense/internal/view"
)

// StatusNoData is reported whenever the last input produced no table.
const StatusNoData = "no data"

// Session is not safe for concurrent use; the UI drives it from its update
// loop only.
type Session struct {
	input     string
	table     model.ParsedTable
	parsed    bool
	guess     detect.Guess
	view      *view.State
	extracted string
	src       generate.Source
	override  string
	cache     generate.Cache
}

func New() *Session {
	return &Session{view: view.New(0)}
}

// SetInput replaces the input. The table is re-parsed, the view state reset
// and the SQL re-extracted. It reports whether a table was found; the
// extracted SQL is kept either way.
func (s *Session) SetInput(text string) bool {
	s.input = text
	s.guess = detect.Heuristics(detect.Sample(text, 200))
	s.table, s.parsed = parse.ParseTable(text)
	s.view.Reset(s.table.Width())
	s.extracted = sqltext.Extract(text)
	s.src = generate.NewSource(s.extracted)
	s.cache.Invalidate()
	if s.parsed {
		logx.Infof("session: parsed %d rows x %d columns (kind=%s)", len(s.table.Rows), s.table.Width(), s.guess.Kind)
	} else {
		logx.Warnf("session: no table found in %d bytes (kind=%s)", len(text), s.guess.Kind)
	}
	if s.extracted != "" {
		logx.Debugf("session: extracted %q tables=%v join=%v", s.src.SQL, s.src.Tables, s.src.Join)
	}
	return s.parsed
}

// Clear drops the input entirely.
func (s *Session) Clear() { s.SetInput("") }

func (s *Session) Input() string { return s.input }

func (s *Session) Parsed() bool { return s.parsed }

func (s *Session) Table() model.ParsedTable { return s.table }

func (s *Session) Guess() detect.Guess { return s.guess }

// View exposes the view state for column, sort and filter changes.
func (s *Session) View() *view.State { return s.view }

func (s *Session) Projection() view.Projection { return s.view.Project(s.table) }

// Column looks up a parsed column by header: exact match first, then
// case-insensitive.
func (s *Session) Column(header string) (int, bool) {
	if i := s.table.HeaderIndex(header); i >= 0 {
		return i, true
	}
	for i, h := range s.table.Headers {
		if strings.EqualFold(h, header) {
			return i, true
		}
	}
	return -1, false
}

func (s *Session) ExtractedSQL() string { return s.extracted }

func (s *Session) FormattedSQL() string { return sqltext.Format(s.extracted) }

func (s *Session) CompressedSQL() string { return sqltext.Compress(s.extracted) }

func (s *Session) Source() generate.Source { return s.src }

// SetTable overrides the table generated statements target. "" restores
// the table derived from the extracted SQL.
func (s *Session) SetTable(name string) { s.override = strings.TrimSpace(name) }

// DefaultTable is the override when set, else the first table of the
// extracted statement.
func (s *Session) DefaultTable() string {
	if s.override != "" {
		return s.override
	}
	return s.src.DefaultTable()
}

// GenerateView builds the generation input from the current projection.
func (s *Session) GenerateView(table string) generate.View {
	p := s.Projection()
	if table == "" {
		table = s.override
	}
	return generate.View{
		Table:    table,
		Headers:  s.table.Headers,
		Rows:     p.Rows,
		Columns:  p.Columns,
		Filtered: p.Filtered && p.Err == nil,
	}
}

// Generate returns the SELECT, INSERT and DELETE bundle for the current
// view. table overrides the target for this call only; "" uses SetTable's
// value or the derived table. Unchanged views are served from the cache.
func (s *Session) Generate(table string) generate.Bundle {
	v := s.GenerateView(table)
	k := generate.NewKey(v, s.src, s.view.Search(), s.view.Scope(), s.view.Expr())
	return s.cache.Get(k, func() generate.Bundle { return generate.Generate(v, s.src) })
}

// CacheStats reports generation cache hits and misses.
func (s *Session) CacheStats() (int, int) { return s.cache.Stats() }

// Status summarizes the table on screen.
func (s *Session) Status() string {
	if !s.parsed {
		return StatusNoData
	}
	p := s.Projection()
	if len(p.Columns) == 0 {
		return fmt.Sprintf("%d rows, 0 columns (none selected)", p.Total)
	}
	if len(p.Rows) == p.Total {
		return fmt.Sprintf("%d rows, %d columns", p.Total, len(p.Columns))
	}
	return fmt.Sprintf("%d/%d rows, %d columns", len(p.Rows), p.Total, len(p.Columns))
}
