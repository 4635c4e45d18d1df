package ui

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"tablesense/internal/config"
	"tablesense/internal/session"
	"tablesense/internal/view"
)

func newTestModel(t *testing.T, fixture string) *Model {
	t.Helper()
	cfg, err := config.Parse([]string{"-offline", "-no-color"}, false)
	if err != nil {
		t.Fatal(err)
	}
	m := initialModel(context.Background(), cfg, session.New())
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	if fixture != "" {
		b, err := os.ReadFile(filepath.Join("..", "..", "testdata", fixture))
		if err != nil {
			t.Fatal(err)
		}
		m.Update(inputMsg{text: string(b), source: "file"})
	}
	return m
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

func TestInputRendersTable(t *testing.T) {
	m := newTestModel(t, "mysql_session.txt")
	if len(m.proj.Rows) != 3 {
		t.Fatalf("rows %d", len(m.proj.Rows))
	}
	out := m.View()
	if !strings.Contains(out, "Alice") || !strings.Contains(out, "3 rows, 3 columns") {
		t.Fatalf("view:\n%s", out)
	}
}

func TestNoData(t *testing.T) {
	m := newTestModel(t, "")
	m.Update(inputMsg{text: "hello there", source: "clipboard"})
	if !strings.Contains(m.View(), "no data") {
		t.Fatalf("view:\n%s", m.View())
	}
	// table-only keys are ignored without a table
	press(m, "s", "h", "m")
	if m.modalActive {
		t.Fatalf("generation modal opened without data")
	}
}

func TestSortCycle(t *testing.T) {
	m := newTestModel(t, "mysql_session.txt")
	press(m, "right", "s")
	if m.proj.SortCol != 1 || m.proj.SortDir != view.SortAsc {
		t.Fatalf("sort %d %v", m.proj.SortCol, m.proj.SortDir)
	}
	press(m, "s")
	if m.proj.Cells[0][1] != "Carol" {
		t.Fatalf("desc first row %v", m.proj.Cells[0])
	}
	press(m, "s")
	if m.proj.SortDir != view.SortNone {
		t.Fatalf("third press should clear the sort")
	}
}

func TestHideAndMove(t *testing.T) {
	m := newTestModel(t, "mysql_session.txt")
	press(m, ">")
	if !reflect.DeepEqual(m.proj.Headers, []string{"name", "id", "email"}) || m.selCol != 1 {
		t.Fatalf("move: %v sel=%d", m.proj.Headers, m.selCol)
	}
	press(m, "h")
	if !reflect.DeepEqual(m.proj.Headers, []string{"name", "email"}) {
		t.Fatalf("hide: %v", m.proj.Headers)
	}
	press(m, "c", "n")
	if len(m.proj.Columns) != 0 {
		t.Fatalf("none: %v", m.proj.Headers)
	}
	press(m, "a", "esc")
	if len(m.proj.Columns) != 3 || m.modalActive {
		t.Fatalf("all: %v", m.proj.Headers)
	}
}

func TestInlineSearchAndClear(t *testing.T) {
	m := newTestModel(t, "mysql_session.txt")
	press(m, "/", "bob", "enter")
	if len(m.proj.Rows) != 1 || !strings.Contains(m.filterSummary(), "search: bob") {
		t.Fatalf("rows %d summary %q", len(m.proj.Rows), m.filterSummary())
	}
	press(m, "F")
	if len(m.proj.Rows) != 3 || m.filterSummary() != "" {
		t.Fatalf("filter not cleared")
	}
	press(m, "w", "id > 1", "enter")
	if len(m.proj.Rows) != 2 {
		t.Fatalf("expr rows %d", len(m.proj.Rows))
	}
}

func TestGenerateModal(t *testing.T) {
	m := newTestModel(t, "mysql_session.txt")
	press(m, "m")
	if !m.modalActive || m.modalKind != modalGenerate {
		t.Fatalf("modal not open")
	}
	if !strings.Contains(m.modalBody, "SELECT id, name, email FROM users;") ||
		!strings.Contains(m.modalBody, "DELETE FROM users WHERE id IN (1, 2, 3);") {
		t.Fatalf("body:\n%s", m.modalBody)
	}
	press(m, "tab")
	if name, _ := m.selectedGen(); name != "INSERT" {
		t.Fatalf("selected %s", name)
	}
}

func TestGenerateModalShowsRefusal(t *testing.T) {
	m := newTestModel(t, "join_session.txt")
	press(m, "m")
	if !strings.Contains(m.modalBody, "refused: visible columns come from several tables (orders, users)") {
		t.Fatalf("body:\n%s", m.modalBody)
	}
}

func TestSetTableInline(t *testing.T) {
	m := newTestModel(t, "markdown.md")
	press(m, "t", "orders", "enter")
	if m.sess.DefaultTable() != "orders" {
		t.Fatalf("table %q", m.sess.DefaultTable())
	}
}

func TestInspectJSONCell(t *testing.T) {
	m := newTestModel(t, "markdown.md")
	press(m, "right", "right", "right", "enter")
	if m.modalKind != modalInspector || !strings.Contains(m.modalBody, `"vip"`) {
		t.Fatalf("inspector:\n%s", m.modalBody)
	}
}

func TestExportInline(t *testing.T) {
	m := newTestModel(t, "mysql_session.txt")
	path := filepath.Join(t.TempDir(), "out.csv")
	press(m, "e", path, "enter")
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("export: %v (%s)", err, m.lastMsg)
	}
	if !strings.HasPrefix(string(b), "id,name,email\n") {
		t.Fatalf("csv:\n%s", b)
	}
}

func TestLayoutKeepsSelectedColumnVisible(t *testing.T) {
	m := newTestModel(t, "mysql_session.txt")
	m.Update(tea.WindowSizeMsg{Width: 12, Height: 10})
	press(m, "right", "right")
	pos, _ := m.layoutColumns()
	if len(pos) == 0 || pos[len(pos)-1] != 2 {
		t.Fatalf("window %v", pos)
	}
}
