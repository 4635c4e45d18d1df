package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) View() string {
	v := m.renderMain()
	if m.modalActive {
		// Dim the background content while keeping it visible
		dimmed := lipgloss.NewStyle().Faint(true).Render(v)
		v = overlay(dimmed, m.renderModal())
	}
	return v
}

func (m *Model) renderMain() string {
	var tv string
	if m.sess.Parsed() {
		tv = m.tbl.View()
	} else {
		tv = m.renderEmpty()
	}
	cur, total := 0, len(m.proj.Rows)
	if total > 0 {
		cur = m.tbl.Cursor() + 1
	}
	busy := ""
	if m.netBusy {
		busy = m.spin.View() + " "
	}
	table := m.sess.DefaultTable()
	if table == "" {
		table = "-"
	}
	status := fmt.Sprintf("[%s %s] %s | row:%d/%d col:%d/%d table:%s | [?]=help | %s%s",
		m.source, m.sess.Guess().Kind, m.sess.Status(),
		cur, total, m.selCol+min(1, len(m.proj.Columns)), len(m.proj.Columns),
		table, busy, m.lastMsg)
	var bottom string
	switch m.inlineMode {
	case inlineSearch:
		bottom = fmt.Sprintf("search: %s    [enter]=apply [esc]=cancel (text or /regex/)", m.input.View())
	case inlineExpr:
		bottom = fmt.Sprintf("where: %s    [enter]=apply [esc]=cancel (e.g. id > 2 && name != \"x\")", m.input.View())
	case inlineTable:
		bottom = fmt.Sprintf("table: %s    [enter]=apply [esc]=cancel (empty restores the extracted table)", m.input.View())
	case inlineExport:
		bottom = fmt.Sprintf("export to: %s    [enter]=write [esc]=cancel (.csv .json .md .sql)", m.input.View())
	default:
		bottom = m.filterSummary()
	}
	// Always render a sub status bar to keep layout stable
	if bottom == "" && m.termWidth > 0 {
		bottom = strings.Repeat(" ", m.termWidth)
	}
	return lipgloss.JoinVertical(lipgloss.Left, tv, bottom, m.styles.Status.Render(status))
}

func (m *Model) renderEmpty() string {
	lines := []string{
		"no data",
		"",
		"Paste a Markdown table, MySQL client output or pipe-delimited text:",
		"  [p] read the clipboard   [R] reload the input source   [q] quit",
	}
	if sql := m.sess.ExtractedSQL(); sql != "" {
		lines = append(lines, "", "A SQL statement was found: [v] to view it.")
	}
	h := m.termHeight - 2
	for len(lines) < h {
		lines = append(lines, "")
	}
	return m.styles.Help.Render(strings.Join(lines, "\n"))
}

func (m *Model) buildHelpItems() []helpItem {
	km := m.keymap
	return []helpItem{
		{group: "Navigation", text: "Previous row", key: tea.Key{Type: tea.KeyUp}},
		{group: "Navigation", text: "Next row", key: tea.Key{Type: tea.KeyDown}},
		{group: "Navigation", text: "Previous column", key: tea.Key{Type: tea.KeyLeft}},
		{group: "Navigation", text: "Next column", key: tea.Key{Type: tea.KeyRight}},
		{group: "Navigation", text: "Go to top", key: km.Top},
		{group: "Navigation", text: "Go to bottom", key: km.Bottom},

		{group: "Columns", text: "Hide column", key: km.Hide},
		{group: "Columns", text: "Choose columns", key: km.Columns},
		{group: "Columns", text: "Move column left", key: km.MoveLeft},
		{group: "Columns", text: "Move column right", key: km.MoveRight},
		{group: "Columns", text: "Cycle sort (asc, desc, none)", key: km.Sort},
		{group: "Columns", text: "Increase column width", key: km.IncColWidth},
		{group: "Columns", text: "Decrease column width", key: km.DecColWidth},

		{group: "Filter", text: "Search rows", key: km.Search},
		{group: "Filter", text: "Search only this column (toggle)", key: km.Scope},
		{group: "Filter", text: "Filter by expression", key: km.Expr},
		{group: "Filter", text: "Clear filter", key: km.ClearFilter},

		{group: "SQL", text: "Show extracted SQL", key: km.ShowSQL},
		{group: "SQL", text: "Generate SELECT/INSERT/DELETE", key: km.Generate},
		{group: "SQL", text: "Set table name", key: km.Table},
		{group: "SQL", text: "Explain statement (OpenAI)", key: km.Explain},

		{group: "Actions", text: "Inspect cell", key: km.Inspect},
		{group: "Actions", text: "Copy cell", key: km.CopyCell},
		{group: "Actions", text: "Copy column header", key: km.CopyHeader},
		{group: "Actions", text: "Paste clipboard as input", key: km.Paste},
		{group: "Actions", text: "Reload input", key: km.Reload},
		{group: "Actions", text: "Export view", key: km.Export},

		{group: "Control", text: "Application logs", key: km.AppLogs},
		{group: "Control", text: "Help", key: km.Help},
		{group: "Control", text: "Quit", key: km.Quit},
	}
}

func (m *Model) renderHelp() string {
	if len(m.helpItems) == 0 {
		m.helpItems = m.buildHelpItems()
	}
	if m.helpSel < 0 {
		m.helpSel = 0
	}
	if m.helpSel >= len(m.helpItems) {
		m.helpSel = len(m.helpItems) - 1
	}
	lines := []string{"Shortcuts:"}
	currentGroup := ""
	lineIndexOfSel := 0
	for i, it := range m.helpItems {
		if it.group != currentGroup {
			currentGroup = it.group
			lines = append(lines, "", currentGroup+":")
		}
		prefix := "  "
		if i == m.helpSel {
			prefix = "> "
			lineIndexOfSel = len(lines)
		}
		lines = append(lines, fmt.Sprintf("%s[%s] %s", prefix, keyLabel(it.key), it.text))
	}
	// Adjust viewport to keep selection visible
	if m.modalVP.Height > 0 {
		top := m.modalVP.YOffset
		bottom := top + m.modalVP.Height - 1
		if lineIndexOfSel <= top {
			m.modalVP.YOffset = max(0, lineIndexOfSel-1)
		} else if lineIndexOfSel >= bottom {
			m.modalVP.YOffset = max(0, lineIndexOfSel-m.modalVP.Height+2)
		}
	}
	return m.styles.Help.Render(strings.Join(lines, "\n"))
}

func (m *Model) openHelpModal() {
	m.helpItems = m.buildHelpItems()
	m.helpSel = 0
	m.openModal(modalHelp, "Help", m.renderHelp())
}

func (m *Model) resizeModal() {
	w := m.termWidth - 6
	h := m.termHeight - 6
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	m.modalVP = viewport.New(w-4, h-4)
	m.modalVP.SetContent(m.modalBody)
}

func (m *Model) renderModal() string {
	content := ""
	switch m.modalKind {
	case modalHelp:
		m.modalVP.SetContent(m.renderHelp())
		content = m.modalVP.View() + "\n[esc]=close  [enter]=run"
	case modalGenerate:
		content = m.modalVP.View() + "\n[tab/←/→]=choose  [c]=copy  [d]=dry-run  [esc]=close"
	case modalColumns:
		content = m.modalVP.View() + "\n[space]=toggle  [K/J]=move up/down  [a]=all  [n]=none  [esc]=close"
	case modalInspector, modalSQL, modalExplain, modalDryRun:
		content = m.modalVP.View() + "\n[esc/enter]=close  [c]=copy"
	case modalLogs:
		header := []string{
			"Status:",
			fmt.Sprintf("input: %s (%s)  %s", m.source, m.sess.Guess().Kind, m.sess.Status()),
			fmt.Sprintf("follow: %v  engine: %s", m.follow, m.sandbox.Engine),
		}
		hits, misses := m.sess.CacheStats()
		header = append(header, fmt.Sprintf("generation cache: %d hits, %d misses", hits, misses))
		h := m.styles.Help.Render(strings.Join(header, "\n"))
		content = h + "\n" + m.modalVP.View() + "\n[esc/enter]=close  [c]=copy"
	default:
		content = m.modalVP.View() + "\n[esc/enter]=close"
	}
	boxW := m.termWidth - 6
	if boxW < 20 {
		boxW = 20
	}
	title := m.styles.PopupTitle.Render(m.modalTitle)
	body := m.styles.PopupBox.Width(boxW).Render(title + "\n" + content)
	return lipgloss.Place(m.termWidth, m.termHeight, lipgloss.Center, lipgloss.Center, body)
}
