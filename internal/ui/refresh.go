package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/mattn/go-runewidth"

	"tablesense/internal/view"
)

const (
	maxColWidth = 40
	minColWidth = 3
)

// refresh recomputes the projection and rebuilds the table widget.
func (m *Model) refresh() {
	m.proj = m.sess.Projection()
	n := len(m.proj.Columns)
	if m.selCol >= n {
		m.selCol = n - 1
	}
	if m.selCol < 0 {
		m.selCol = 0
	}
	positions, widths := m.layoutColumns()
	cs := make([]table.Column, len(positions))
	for i, pos := range positions {
		cs[i] = table.Column{Title: m.columnTitle(pos), Width: widths[i]}
	}
	rows := make([]table.Row, len(m.proj.Cells))
	for r, cells := range m.proj.Cells {
		row := make(table.Row, len(positions))
		for i, pos := range positions {
			row[i] = displayCell(cells[pos], widths[i])
		}
		rows[r] = row
	}
	// Rows must never be wider than the columns while either is replaced.
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cs)
	m.tbl.SetRows(rows)
	if c := m.tbl.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.tbl.SetCursor(len(rows) - 1)
	}
}

// columnTitle marks the selected column and the sort direction.
func (m *Model) columnTitle(pos int) string {
	title := m.proj.Headers[pos]
	if m.proj.Columns[pos] == m.proj.SortCol {
		switch m.proj.SortDir {
		case view.SortAsc:
			title += " ▲"
		case view.SortDesc:
			title += " ▼"
		}
	}
	if pos == m.selCol {
		return "«" + title + "»"
	}
	return " " + title + " "
}

// columnWidth is the preferred width of the column at display position pos.
func (m *Model) columnWidth(pos int) int {
	limit := maxColWidth + m.colWidthAdj[m.proj.Columns[pos]]
	if limit < minColWidth {
		limit = minColWidth
	}
	w := runewidth.StringWidth(m.columnTitle(pos))
	for _, cells := range m.proj.Cells {
		if cw := runewidth.StringWidth(displayCell(cells[pos], 0)); cw > w {
			w = cw
		}
		if w >= limit {
			break
		}
	}
	if w > limit {
		w = limit
	}
	// Headers are never cut below their own width.
	if hw := runewidth.StringWidth(m.columnTitle(pos)); w < hw {
		w = hw
	}
	if w < minColWidth {
		w = minColWidth
	}
	return w
}

// layoutColumns picks the window of columns that fits the terminal and
// contains the selected column.
func (m *Model) layoutColumns() ([]int, []int) {
	n := len(m.proj.Columns)
	if n == 0 {
		return nil, nil
	}
	natural := make([]int, n)
	for i := range natural {
		natural[i] = m.columnWidth(i)
	}
	avail := m.termWidth
	if avail <= 0 {
		avail = 120
	}
	fit := func(start int) ([]int, []int) {
		var pos, widths []int
		used := 0
		for i := start; i < n; i++ {
			w := natural[i] + 1 // cell padding
			if used+w > avail && len(pos) > 0 {
				break
			}
			pos = append(pos, i)
			widths = append(widths, natural[i])
			used += w
		}
		return pos, widths
	}
	if m.colOffset > m.selCol {
		m.colOffset = m.selCol
	}
	if m.colOffset >= n {
		m.colOffset = n - 1
	}
	for {
		pos, widths := fit(m.colOffset)
		if m.selCol <= pos[len(pos)-1] || m.colOffset >= m.selCol {
			return pos, widths
		}
		m.colOffset++
	}
}

// selectedColumn is the parsed column index under the column cursor.
func (m *Model) selectedColumn() (int, bool) {
	if m.selCol < 0 || m.selCol >= len(m.proj.Columns) {
		return -1, false
	}
	return m.proj.Columns[m.selCol], true
}

// selectedCell returns the raw value under the cursor.
func (m *Model) selectedCell() (string, string, bool) {
	r := m.tbl.Cursor()
	if r < 0 || r >= len(m.proj.Cells) || m.selCol >= len(m.proj.Columns) {
		return "", "", false
	}
	return m.proj.Headers[m.selCol], m.proj.Cells[r][m.selCol], true
}
