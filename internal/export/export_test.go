package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tablesense/internal/model"
	"tablesense/internal/view"
)

func projection() view.Projection {
	tbl := model.ParsedTable{
		Headers: []string{"id", "name", "meta"},
		Rows:    [][]string{{"1", "Al|ice", `{"a": 1}`}, {"2", "Bob", "plain"}},
	}
	s := view.New(3)
	s.MoveColumn(2, 0)
	return s.Project(tbl)
}

func TestCSV(t *testing.T) {
	var b bytes.Buffer
	if err := ToCSV(&b, projection()); err != nil {
		t.Fatal(err)
	}
	want := "meta,id,name\n\"{\"\"a\"\": 1}\",1,Al|ice\nplain,2,Bob\n"
	if b.String() != want {
		t.Fatalf("got %q", b.String())
	}
}

func TestNDJSONEmbedsJSONCells(t *testing.T) {
	var b bytes.Buffer
	if err := ToNDJSON(&b, projection()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 2 || lines[0] != `{"id":"1","meta":{"a":1},"name":"Al|ice"}` {
		t.Fatalf("got %q", lines)
	}
}

func TestMarkdownEscapesPipes(t *testing.T) {
	var b bytes.Buffer
	if err := ToMarkdown(&b, projection()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), `| {"a": 1} | 1 | Al\|ice |`) {
		t.Fatalf("got %q", b.String())
	}
}

func TestSQLAndFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.sql")
	if err := ToFile(p, FormatSQL, projection(), "people"); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(p)
	if !strings.HasPrefix(string(b), "INSERT INTO people (meta, id, name) VALUES\n  ('{\"a\": 1}', 1, 'Al|ice'),") {
		t.Fatalf("got %q", b)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("unknown format must error")
	}
}

func TestFormatFor(t *testing.T) {
	if f, err := FormatFor("", "/tmp/out.md"); err != nil || f != FormatMarkdown {
		t.Fatalf("extension: %q %v", f, err)
	}
	if f, err := FormatFor("ndjson", "/tmp/out.txt"); err != nil || f != FormatNDJSON {
		t.Fatalf("explicit: %q %v", f, err)
	}
	if _, err := FormatFor("", "/tmp/out"); err == nil {
		t.Fatalf("expected error without extension")
	}
}
