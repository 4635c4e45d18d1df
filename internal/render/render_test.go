package render

import (
	"reflect"
	"strings"
	"testing"

	"tablesense/internal/model"
	"tablesense/internal/parse"
	"tablesense/internal/view"
)

func TestTableLayout(t *testing.T) {
	got := Table([]string{"id", "name"}, [][]string{{"1", "Alice"}, {"22", "Bo"}}, Options{Footer: true})
	want := strings.Join([]string{
		"+----+-------+",
		"| id | name  |",
		"+----+-------+",
		"| 1  | Alice |",
		"| 22 | Bo    |",
		"+----+-------+",
		"(2 rows)",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("got\n%s", got)
	}
}

func TestWideRunesAndTruncation(t *testing.T) {
	got := Table([]string{"名前"}, [][]string{{"x"}, {"abcdefgh"}}, Options{MaxCellWidth: 5})
	lines := strings.Split(got, "\n")
	if lines[1] != "| 名前  |" {
		t.Fatalf("header %q", lines[1])
	}
	if lines[4] != "| abcd… |" {
		t.Fatalf("truncated %q", lines[4])
	}
}

func TestRenderedTableParsesBack(t *testing.T) {
	tbl := model.ParsedTable{
		Headers: []string{"id", "payload"},
		Rows:    [][]string{{"1", `{"k": "a|b"}`}, {"2", "plain"}},
	}
	p := view.New(2).Project(tbl)
	got := parse.Parse(Projection(p, Options{}))
	want := append([][]string{tbl.Headers}, tbl.Rows...)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q", got)
	}
}

func TestSortMarker(t *testing.T) {
	s := view.New(2)
	s.CycleSort(1)
	p := s.Project(model.ParsedTable{Headers: []string{"a", "b"}, Rows: [][]string{{"1", "2"}}})
	if !strings.Contains(Projection(p, Options{}), "b ▲") {
		t.Fatalf("missing sort marker")
	}
	if Table(nil, nil, Options{}) != "(0 rows)\n" {
		t.Fatalf("empty table")
	}
}
