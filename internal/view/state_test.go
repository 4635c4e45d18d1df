package view

import (
	"reflect"
	"testing"

	"tablesense/internal/model"
)

func sample() model.ParsedTable {
	return model.ParsedTable{
		Headers: []string{"id", "name", "city"},
		Rows: [][]string{
			{"2", "Bob", "Lisbon"},
			{"1", "Alice", "Berlin"},
			{"3", "Carol", "Lisbon"},
		},
	}
}

func TestDefaultsAfterReset(t *testing.T) {
	s := New(2)
	s.ToggleColumn(0)
	s.CycleSort(1)
	s.SetSearch("x")
	s.Reset(2)
	if !reflect.DeepEqual(s.Visible(), []int{0, 1}) {
		t.Fatalf("visible %v", s.Visible())
	}
	if col, dir := s.Sort(); col != -1 || dir != SortNone {
		t.Fatalf("sort %d %v", col, dir)
	}
	if s.Filtered() {
		t.Fatalf("filter should be cleared")
	}
}

func TestCycleSort(t *testing.T) {
	s := New(3)
	steps := []struct {
		col  int
		want SortDir
	}{
		{1, SortAsc}, {1, SortDesc}, {1, SortNone}, {1, SortAsc}, {2, SortAsc},
	}
	for i, st := range steps {
		s.CycleSort(st.col)
		if _, dir := s.Sort(); dir != st.want {
			t.Fatalf("step %d: got %v want %v", i, dir, st.want)
		}
	}
}

func TestProjectSortsStably(t *testing.T) {
	s := New(3)
	s.CycleSort(2)
	p := s.Project(sample())
	got := []string{p.Rows[0][0], p.Rows[1][0], p.Rows[2][0]}
	if !reflect.DeepEqual(got, []string{"1", "2", "3"}) {
		t.Fatalf("asc order %v", got)
	}
	s.CycleSort(2)
	p = s.Project(sample())
	got = []string{p.Rows[0][0], p.Rows[1][0], p.Rows[2][0]}
	if !reflect.DeepEqual(got, []string{"2", "3", "1"}) {
		t.Fatalf("desc order %v", got)
	}
}

func TestSortIgnoredOnHiddenColumn(t *testing.T) {
	s := New(3)
	s.CycleSort(1)
	s.ToggleColumn(1)
	p := s.Project(sample())
	if p.Rows[0][0] != "2" || p.SortDir != SortNone {
		t.Fatalf("hidden sort column must not reorder rows")
	}
}

func TestMoveColumnAndVisible(t *testing.T) {
	s := New(3)
	s.MoveColumn(2, 0)
	if !reflect.DeepEqual(s.Order(), []int{2, 0, 1}) {
		t.Fatalf("order %v", s.Order())
	}
	s.ToggleColumn(0)
	p := s.Project(sample())
	if !reflect.DeepEqual(p.Headers, []string{"city", "name"}) {
		t.Fatalf("headers %v", p.Headers)
	}
	if !reflect.DeepEqual(p.Cells[0], []string{"Lisbon", "Bob"}) {
		t.Fatalf("cells %v", p.Cells[0])
	}
	s.MoveColumn(5, 0)
	if !reflect.DeepEqual(s.Order(), []int{2, 0, 1}) {
		t.Fatalf("out of range move must be ignored")
	}
}

func TestFilterScopeAndRegex(t *testing.T) {
	s := New(3)
	s.SetSearch("lis")
	p := s.Project(sample())
	if len(p.Rows) != 2 || !p.Filtered || p.Total != 3 {
		t.Fatalf("rows %d filtered %v", len(p.Rows), p.Filtered)
	}
	s.SetScope("name")
	if p = s.Project(sample()); len(p.Rows) != 0 {
		t.Fatalf("scoped search should miss, got %d", len(p.Rows))
	}
	s.SetScope("")
	s.SetSearch("/^(bob|carol)$/")
	if p = s.Project(sample()); len(p.Rows) != 2 {
		t.Fatalf("regex rows %d", len(p.Rows))
	}
	s.SetSearch("/(/")
	if p = s.Project(sample()); p.Err == nil || len(p.Rows) != 3 {
		t.Fatalf("bad regex should report and keep rows")
	}
}

func TestEndToEndDefaults(t *testing.T) {
	tbl := model.ParsedTable{Headers: []string{"id", "name"}, Rows: [][]string{{"1", "Alice"}, {"2", "Bob"}}}
	s := New(tbl.Width())
	p := s.Project(tbl)
	if !reflect.DeepEqual(p.Columns, []int{0, 1}) || p.Filtered || p.SortDir != SortNone {
		t.Fatalf("unexpected defaults %+v", p)
	}
	if !reflect.DeepEqual(p.Rows, tbl.Rows) {
		t.Fatalf("rows %v", p.Rows)
	}
}
