package ui

import (
	"fmt"
	"strings"

	"tablesense/internal/export"
	"tablesense/internal/util/logx"
)

func (m *Model) startInline(mode inlineMode, value, placeholder string) {
	m.inlineMode = mode
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Placeholder = placeholder
	m.input.Prompt = ""
	m.input.Focus()
}

func (m *Model) stopInline() {
	m.inlineMode = inlineNone
	m.input.Blur()
	m.input.SetValue("")
}

// applyInline commits the inline input of the current mode.
func (m *Model) applyInline() {
	q := strings.TrimSpace(m.input.Value())
	v := m.sess.View()
	switch m.inlineMode {
	case inlineSearch:
		v.SetSearch(q)
		m.refresh()
		m.tbl.SetCursor(0)
	case inlineExpr:
		v.SetExpr(q)
		m.refresh()
		m.tbl.SetCursor(0)
		if m.proj.Err != nil {
			m.lastMsg = "filter error: " + m.proj.Err.Error()
		}
	case inlineTable:
		m.sess.SetTable(q)
		if t := m.sess.DefaultTable(); t != "" {
			m.lastMsg = "table: " + t
		} else {
			m.lastMsg = "table cleared"
		}
	case inlineExport:
		m.exportTo(q)
	}
	m.stopInline()
}

// toggleScope limits the search to the selected column, or back to all.
func (m *Model) toggleScope() {
	v := m.sess.View()
	if v.Scope() != "" {
		v.SetScope("")
		m.lastMsg = "search scope: all columns"
	} else if col, ok := m.selectedColumn(); ok {
		h := m.sess.Table().Headers[col]
		v.SetScope(h)
		m.lastMsg = "search scope: " + h
	}
	m.refresh()
}

func (m *Model) clearFilters() {
	v := m.sess.View()
	v.SetSearch("")
	v.SetScope("")
	v.SetExpr("")
	m.refresh()
}

// filterSummary describes the active filter for the line above the status.
func (m *Model) filterSummary() string {
	v := m.sess.View()
	var parts []string
	if q := v.Search(); q != "" {
		s := "search: " + q
		if sc := v.Scope(); sc != "" {
			s += " (in " + sc + ")"
		}
		parts = append(parts, s)
	} else if sc := v.Scope(); sc != "" {
		parts = append(parts, "scope: "+sc)
	}
	if e := v.Expr(); e != "" {
		parts = append(parts, "where: "+e)
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "  ") + "    [F]=clear filter"
}

// exportTo writes the current view to path. The format follows the -export
// flag, else the file extension.
func (m *Model) exportTo(path string) {
	if path == "" {
		m.lastMsg = "export: no path"
		return
	}
	f, err := export.FormatFor(m.cfg.ExportFormat, path)
	if err != nil {
		m.lastMsg = "export: " + err.Error()
		return
	}
	if err := export.ToFile(path, f, m.proj, m.sess.DefaultTable()); err != nil {
		m.lastMsg = "export failed: " + err.Error()
		logx.Errorf("export: %v", err)
		return
	}
	m.lastMsg = fmt.Sprintf("exported %d rows to %s (%s)", len(m.proj.Rows), path, f)
	logx.Infof("export: wrote %d rows to %s (%s)", len(m.proj.Rows), path, f)
}
