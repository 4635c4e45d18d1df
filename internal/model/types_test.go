package model

import "testing"

func TestFromRecordsDropsRaggedRows(t *testing.T) {
	tbl, ok := FromRecords([][]string{{"id", "name"}, {"1", "Alice"}, {"2"}, {"3", "Carol"}})
	if !ok {
		t.Fatalf("expected ok")
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows: %d", len(tbl.Rows))
	}
	for _, r := range tbl.Rows {
		if len(r) != tbl.Width() {
			t.Fatalf("row width %d != %d", len(r), tbl.Width())
		}
	}
}

func TestFromRecordsEmpty(t *testing.T) {
	if _, ok := FromRecords(nil); ok {
		t.Fatalf("nil records must fail")
	}
	if _, ok := FromRecords([][]string{{}}); ok {
		t.Fatalf("empty header must fail")
	}
}

func TestClassifyCell(t *testing.T) {
	if _, ok := ClassifyCell(` {"a": 1} `); !ok {
		t.Fatalf("object should classify as JSON")
	}
	if _, ok := ClassifyCell(`[1,2]`); !ok {
		t.Fatalf("array should classify as JSON")
	}
	if _, ok := ClassifyCell(`{not json`); ok {
		t.Fatalf("broken JSON must fall back to text")
	}
	if _, ok := ClassifyCell(`42`); ok {
		t.Fatalf("scalars are plain text")
	}
}

func TestPrettyJSONFallback(t *testing.T) {
	if got := PrettyJSON("plain"); got != "plain" {
		t.Fatalf("got %q", got)
	}
	if got := CompactJSON(`{"a": "bbbbbbbbbb"}`, 5); got != `{"a":...` {
		t.Fatalf("got %q", got)
	}
}

func TestHeaderIndex(t *testing.T) {
	tbl := ParsedTable{Headers: []string{"id", "Name"}}
	if tbl.HeaderIndex("name") != 1 {
		t.Fatalf("case-insensitive fallback failed")
	}
	if tbl.HeaderIndex("missing") != -1 {
		t.Fatalf("expected -1")
	}
}
