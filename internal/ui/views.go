package ui

import (
	"fmt"
	"strings"

	"tablesense/internal/clipboard"
	"tablesense/internal/generate"
	"tablesense/internal/highlight"
	"tablesense/internal/model"
	"tablesense/internal/util/logx"
)

func overlay(base, overlay string) string {
	// Draw overlay on top of base by replacing lines where overlay has content.
	bLines := strings.Split(base, "\n")
	oLines := strings.Split(overlay, "\n")
	maxLen := len(bLines)
	if len(oLines) > maxLen {
		maxLen = len(oLines)
	}
	for len(bLines) < maxLen {
		bLines = append(bLines, "")
	}
	for len(oLines) < maxLen {
		oLines = append(oLines, "")
	}
	out := make([]string, maxLen)
	for i := 0; i < maxLen; i++ {
		// Treat whitespace-only overlay lines as transparent
		if strings.TrimSpace(oLines[i]) != "" {
			out[i] = oLines[i]
		} else {
			out[i] = bLines[i]
		}
	}
	return strings.Join(out, "\n")
}

// copyText puts s on the clipboard and reports how in the status bar.
func (m *Model) copyText(what, s string) {
	method, err := clipboard.Write(s)
	if err != nil {
		m.lastMsg = "copy failed: " + err.Error()
		logx.Warnf("clipboard: %v", err)
		return
	}
	m.lastMsg = fmt.Sprintf("copied %s to clipboard (%s)", what, method)
}

func (m *Model) highlightSQL(sql string) string {
	return highlight.SQL(sql, highlight.Options{Enabled: m.color, Theme: string(m.cfg.Theme)})
}

func (m *Model) openModal(kind modalKind, title, body string) {
	m.modalActive = true
	m.modalKind = kind
	m.modalTitle = title
	m.modalBody = body
	m.resizeModal()
}

func (m *Model) openInspectorModal() {
	header, cell, ok := m.selectedCell()
	if !ok {
		return
	}
	body := cell
	if doc, isJSON := model.ClassifyCell(cell); isJSON {
		body = colorizeJSON(doc, m.styles)
	}
	m.openModal(modalInspector, "Cell: "+header, body)
}

func (m *Model) openSQLModal() {
	sql := m.sess.FormattedSQL()
	if sql == "" {
		m.lastMsg = "no SQL statement found in the input"
		return
	}
	src := m.sess.Source()
	info := fmt.Sprintf("tables: %s  join: %v", strings.Join(src.Tables, ", "), src.Join)
	m.openModal(modalSQL, "Extracted SQL", m.styles.Muted.Render(info)+"\n\n"+m.highlightSQL(sql))
}

var genNames = [...]string{"SELECT", "INSERT", "DELETE"}

func (m *Model) genResults() [3]generate.Result {
	b := m.sess.Generate("")
	return [3]generate.Result{b.Select, b.Insert, b.Delete}
}

func (m *Model) openGenerateModal() {
	if !m.sess.Parsed() {
		m.lastMsg = "no data"
		return
	}
	m.openModal(modalGenerate, "Generate SQL", m.renderGenerate())
}

func (m *Model) renderGenerate() string {
	var b strings.Builder
	table := m.sess.DefaultTable()
	if table == "" {
		table = "(none, press t to set one)"
	}
	b.WriteString(m.styles.Muted.Render("table: "+table) + "\n")
	for i, r := range m.genResults() {
		prefix := "  "
		if i == m.genSel {
			prefix = "> "
		}
		b.WriteString("\n" + m.styles.PopupTitle.Render(prefix+genNames[i]) + "\n")
		switch r.Status {
		case generate.StatusRefused:
			b.WriteString(m.styles.Refused.Render("refused: "+r.Reason) + "\n")
		case generate.StatusEmpty:
			b.WriteString(m.styles.Muted.Render("nothing to generate: "+r.Reason) + "\n")
		default:
			b.WriteString(m.highlightSQL(r.SQL) + "\n")
		}
	}
	return b.String()
}

func (m *Model) selectedGen() (string, generate.Result) {
	return genNames[m.genSel], m.genResults()[m.genSel]
}

func (m *Model) openColumnsModal() {
	if m.sess.View().Len() == 0 {
		return
	}
	if c, ok := m.selectedColumn(); ok {
		m.colSel = m.sess.View().Position(c)
	}
	m.openModal(modalColumns, "Columns", m.renderColumnsList())
}

func (m *Model) renderColumnsList() string {
	v := m.sess.View()
	headers := m.sess.Table().Headers
	var b strings.Builder
	for pos, col := range v.Order() {
		prefix := "  "
		if pos == m.colSel {
			prefix = "> "
		}
		box := "[ ]"
		if v.Active(col) {
			box = "[x]"
		}
		fmt.Fprintf(&b, "%s%s %s\n", prefix, box, headers[col])
	}
	return b.String()
}

func (m *Model) openAppLogsModal() {
	m.openModal(modalLogs, "Application Logs", logx.Dump())
}
