package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"tablesense/internal/clipboard"
	"tablesense/internal/generate"
	"tablesense/internal/util/logx"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		// reserve 1 for the table header, 1 for sub-status, 1 for status
		h := msg.Height - 3
		if h < 1 {
			h = 1
		}
		m.tbl.SetHeight(h)
		m.tbl.SetWidth(msg.Width)
		m.refresh()
		if m.modalActive {
			m.resizeModal()
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.modalActive {
			return m.updateModal(msg)
		}
		if m.inlineMode != inlineNone {
			switch msg.Type {
			case tea.KeyEnter:
				m.applyInline()
				return m, nil
			case tea.KeyEsc:
				m.stopInline()
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		if cmd, handled := m.handleShortcut(msg); handled {
			return m, cmd
		}
	case inputMsg:
		if msg.err != nil {
			m.lastMsg = fmt.Sprintf("%s: %v", msg.source, msg.err)
			logx.Errorf("input %s: %v", msg.source, msg.err)
			return m, nil
		}
		m.setInput(msg.text, msg.source)
		return m, nil
	case tickMsg:
		if m.drainFollow() {
			m.setInput(m.followed.String(), m.source)
			m.lastMsg = "reloaded " + time.Now().Format("15:04:05")
		}
		m.drainErrors()
		if m.lines == nil {
			return m, nil
		}
		return m, tea.Tick(300*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
	case explainDoneMsg:
		m.netBusy = false
		if msg.err != nil {
			m.lastMsg = "OpenAI failed: " + msg.err.Error()
			logx.Warnf("openai: explain failed: %v", msg.err)
			return m, nil
		}
		m.lastMsg = ""
		m.openModal(modalExplain, "Explain", msg.text)
		return m, nil
	case dryRunDoneMsg:
		m.netBusy = false
		if msg.err != nil {
			m.lastMsg = "dry-run failed: " + msg.err.Error()
			logx.Warnf("dry-run %s: %v", msg.title, msg.err)
			return m, nil
		}
		m.lastMsg = ""
		m.openModal(modalDryRun, "Dry run: "+msg.title, m.highlightSQL(msg.report.Statement)+"\n\n"+msg.report.String())
		return m, nil
	case toastMsg:
		m.lastMsg = msg.text
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	// Clamp cursor to avoid wrap-around behavior
	if n := len(m.tbl.Rows()); n > 0 {
		if m.tbl.Cursor() < 0 {
			m.tbl.SetCursor(0)
		}
		if m.tbl.Cursor() >= n {
			m.tbl.SetCursor(n - 1)
		}
	}
	return m, cmd
}

// setInput runs the whole pipeline on new text.
func (m *Model) setInput(text, source string) {
	m.source = source
	m.selCol, m.colOffset = 0, 0
	m.colWidthAdj = map[int]int{}
	if m.sess.SetInput(text) {
		m.lastMsg = ""
	} else {
		m.lastMsg = "no table found"
	}
	m.refresh()
	m.tbl.SetCursor(0)
}

func (m *Model) handleShortcut(msg tea.KeyMsg) (tea.Cmd, bool) {
	v := m.sess.View()
	switch {
	case keyMatches(msg, m.keymap.Quit):
		return tea.Quit, true
	case keyMatches(msg, m.keymap.Help):
		m.openHelpModal()
	case keyMatches(msg, m.keymap.Paste):
		m.lastMsg = "reading clipboard..."
		return m.pasteClipboard(), true
	case keyMatches(msg, m.keymap.Reload):
		return m.setupPipeline(), true
	case keyMatches(msg, m.keymap.ShowSQL):
		m.openSQLModal()
	case keyMatches(msg, m.keymap.AppLogs):
		m.openAppLogsModal()
	case keyMatches(msg, m.keymap.Explain):
		return m.explainCmd(), true
	case keyMatches(msg, m.keymap.Table):
		m.startInline(inlineTable, m.sess.DefaultTable(), "table name")
	case !m.sess.Parsed():
		// everything below needs a table
		return nil, false
	case msg.Type == tea.KeyLeft:
		if m.selCol > 0 {
			m.selCol--
			m.refresh()
		}
	case msg.Type == tea.KeyRight:
		if m.selCol+1 < len(m.proj.Columns) {
			m.selCol++
			m.refresh()
		}
	case keyMatches(msg, m.keymap.Top):
		m.tbl.SetCursor(0)
	case keyMatches(msg, m.keymap.Bottom):
		if n := len(m.tbl.Rows()); n > 0 {
			m.tbl.SetCursor(n - 1)
		}
	case keyMatches(msg, m.keymap.Sort):
		if col, ok := m.selectedColumn(); ok {
			v.CycleSort(col)
			m.refresh()
		}
	case keyMatches(msg, m.keymap.Hide):
		if col, ok := m.selectedColumn(); ok {
			v.SetColumn(col, false)
			m.refresh()
			m.lastMsg = "hidden: " + m.sess.Table().Headers[col] + " ([c] to show again)"
		}
	case keyMatches(msg, m.keymap.Columns):
		m.openColumnsModal()
	case keyMatches(msg, m.keymap.MoveLeft), keyMatches(msg, m.keymap.MoveRight):
		m.moveSelected(keyMatches(msg, m.keymap.MoveRight))
	case keyMatches(msg, m.keymap.IncColWidth), keyMatches(msg, m.keymap.DecColWidth):
		if col, ok := m.selectedColumn(); ok {
			d := 2
			if keyMatches(msg, m.keymap.DecColWidth) {
				d = -2
			}
			m.colWidthAdj[col] += d
			m.refresh()
		}
	case keyMatches(msg, m.keymap.Search):
		m.startInline(inlineSearch, v.Search(), "text or /regex/")
	case keyMatches(msg, m.keymap.Scope):
		m.toggleScope()
	case keyMatches(msg, m.keymap.Expr):
		m.startInline(inlineExpr, v.Expr(), "expression")
	case keyMatches(msg, m.keymap.ClearFilter):
		m.clearFilters()
	case keyMatches(msg, m.keymap.Inspect):
		m.openInspectorModal()
	case keyMatches(msg, m.keymap.CopyCell):
		if _, cell, ok := m.selectedCell(); ok {
			m.copyText("cell", cell)
		}
	case keyMatches(msg, m.keymap.CopyHeader):
		if m.selCol < len(m.proj.Headers) {
			m.copyText("header", m.proj.Headers[m.selCol])
		}
	case keyMatches(msg, m.keymap.Generate):
		m.genSel = 0
		m.openGenerateModal()
	case keyMatches(msg, m.keymap.Export):
		if m.cfg.ExportOut != "" {
			m.exportTo(m.cfg.ExportOut)
		} else {
			m.startInline(inlineExport, "", "path, e.g. out.csv")
		}
	default:
		return nil, false
	}
	return nil, true
}

// moveSelected moves the selected column one display slot, skipping
// hidden columns, and keeps the cursor on it.
func (m *Model) moveSelected(right bool) {
	col, ok := m.selectedColumn()
	if !ok {
		return
	}
	v := m.sess.View()
	next := m.selCol - 1
	if right {
		next = m.selCol + 1
	}
	if next < 0 || next >= len(m.proj.Columns) {
		return
	}
	v.MoveColumn(v.Position(col), v.Position(m.proj.Columns[next]))
	m.selCol = next
	m.refresh()
}

func (m *Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modalKind {
	case modalHelp:
		switch {
		case msg.Type == tea.KeyUp:
			if m.helpSel > 0 {
				m.helpSel--
			}
		case msg.Type == tea.KeyDown:
			if m.helpSel+1 < len(m.helpItems) {
				m.helpSel++
			}
		case msg.Type == tea.KeyEnter:
			m.modalActive = false
			if len(m.helpItems) > 0 {
				return m, keyCmd(m.helpItems[m.helpSel].key)
			}
		case msg.Type == tea.KeyEsc || msg.String() == "q" || msg.String() == "?":
			m.modalActive = false
		}
		return m, nil
	case modalColumns:
		return m, m.updateColumnsModal(msg)
	case modalGenerate:
		return m, m.updateGenerateModal(msg)
	}
	if msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter {
		m.modalActive = false
		return m, nil
	}
	if msg.String() == "c" || msg.String() == "C" {
		switch m.modalKind {
		case modalInspector:
			if _, cell, ok := m.selectedCell(); ok {
				m.copyText("cell", cell)
			}
		case modalSQL:
			m.copyText("SQL", m.sess.FormattedSQL())
		default:
			m.copyText(strings.ToLower(m.modalTitle), m.modalBody)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.modalVP, cmd = m.modalVP.Update(msg)
	return m, cmd
}

func (m *Model) updateColumnsModal(msg tea.KeyMsg) tea.Cmd {
	v := m.sess.View()
	n := v.Len()
	switch {
	case msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter || msg.String() == "q":
		m.modalActive = false
		return nil
	case msg.Type == tea.KeyUp || msg.String() == "k":
		if m.colSel > 0 {
			m.colSel--
		}
	case msg.Type == tea.KeyDown || msg.String() == "j":
		if m.colSel+1 < n {
			m.colSel++
		}
	case msg.String() == " " || msg.Type == tea.KeySpace:
		v.ToggleColumn(v.Order()[m.colSel])
	case msg.String() == "K":
		if m.colSel > 0 {
			v.MoveColumn(m.colSel, m.colSel-1)
			m.colSel--
		}
	case msg.String() == "J":
		if m.colSel+1 < n {
			v.MoveColumn(m.colSel, m.colSel+1)
			m.colSel++
		}
	case msg.String() == "a":
		v.SetAllColumns(true)
	case msg.String() == "n":
		v.SetAllColumns(false)
	default:
		return nil
	}
	m.refresh()
	m.modalBody = m.renderColumnsList()
	m.modalVP.SetContent(m.modalBody)
	return nil
}

func (m *Model) updateGenerateModal(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter || msg.String() == "q":
		m.modalActive = false
		return nil
	case msg.Type == tea.KeyTab || msg.Type == tea.KeyRight:
		m.genSel = (m.genSel + 1) % len(genNames)
	case msg.Type == tea.KeyShiftTab || msg.Type == tea.KeyLeft:
		m.genSel = (m.genSel + len(genNames) - 1) % len(genNames)
	case msg.String() == "c" || msg.String() == "C":
		name, r := m.selectedGen()
		if r.Status != generate.StatusOK {
			m.lastMsg = fmt.Sprintf("%s: %s", strings.ToLower(name), r.Reason)
			return nil
		}
		m.copyText(name, clipboard.StripANSI(r.SQL))
		return nil
	case msg.String() == "d":
		name, r := m.selectedGen()
		if r.Status != generate.StatusOK {
			m.lastMsg = fmt.Sprintf("%s: %s", strings.ToLower(name), r.Reason)
			return nil
		}
		m.modalActive = false
		return m.dryRunCmd(name, r.SQL)
	default:
		var cmd tea.Cmd
		m.modalVP, cmd = m.modalVP.Update(msg)
		return cmd
	}
	m.modalBody = m.renderGenerate()
	m.modalVP.SetContent(m.modalBody)
	return nil
}
