package filter

import "testing"

var headers = []string{"id", "name", "city"}

func mustEval(t *testing.T, c Criteria) *Evaluator {
	t.Helper()
	e, err := NewEvaluator(c)
	if err != nil {
		t.Fatalf("evaluator: %v", err)
	}
	return e
}

func TestMatchSubstringActiveColumns(t *testing.T) {
	row := []string{"1", "Alice", "Berlin"}
	c := Criteria{Query: "BERL"}
	e := mustEval(t, c)
	if !e.Match(headers, row, []int{0, 1, 2}, c) {
		t.Fatalf("expected match across active columns")
	}
	if e.Match(headers, row, []int{0, 1}, c) {
		t.Fatalf("hidden column must not match")
	}
}

func TestMatchScope(t *testing.T) {
	row := []string{"1", "Alice", "Alicante"}
	c := Criteria{Query: "ali", Scope: "City"}
	e := mustEval(t, c)
	if !e.Match(headers, row, []int{0}, c) {
		t.Fatalf("scoped header should be searched even when hidden")
	}
	c.Scope = "missing"
	e = mustEval(t, c)
	if e.Match(headers, row, []int{0, 1, 2}, c) {
		t.Fatalf("unknown scope matches nothing")
	}
}

func TestMatchUnicodeFold(t *testing.T) {
	row := []string{"1", "Ödön", "Köln"}
	c := Criteria{Query: "KÖLN"}
	e := mustEval(t, c)
	if !e.Match(headers, row, []int{2}, c) {
		t.Fatalf("case folding failed")
	}
}

func TestMatchRegexAndExpr(t *testing.T) {
	q, re := ParseQuery("/^a.*e$/")
	if !re || q != "^a.*e$" {
		t.Fatalf("ParseQuery: %q %v", q, re)
	}
	c := Criteria{Query: q, UseRegex: true, Expr: "id >= 2"}
	e := mustEval(t, c)
	if e.Match(headers, []string{"1", "Alice", "x"}, []int{1}, c) {
		t.Fatalf("expr should reject id 1")
	}
	if !e.Match(headers, []string{"2", "alice", "x"}, []int{1}, c) {
		t.Fatalf("expected regex+expr match")
	}
	if _, err := NewEvaluator(Criteria{Query: "(", UseRegex: true}); err == nil {
		t.Fatalf("bad regex must error")
	}
}
