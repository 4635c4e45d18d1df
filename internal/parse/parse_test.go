package parse

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

type tableCase struct {
	Name    string     `yaml:"name"`
	Input   string     `yaml:"input"`
	Headers []string   `yaml:"headers"`
	Rows    [][]string `yaml:"rows"`
	Fail    bool       `yaml:"fail"`
}

func loadTableCases(t *testing.T) []tableCase {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", "tables.yml"))
	if err != nil {
		t.Fatalf("read fixtures: %v", err)
	}
	var f struct {
		Cases []tableCase `yaml:"cases"`
	}
	if err := yaml.Unmarshal(b, &f); err != nil {
		t.Fatalf("parse fixtures: %v", err)
	}
	return f.Cases
}

func TestParseFixtures(t *testing.T) {
	for _, tc := range loadTableCases(t) {
		t.Run(tc.Name, func(t *testing.T) {
			got := Parse(tc.Input)
			if tc.Fail {
				if got != nil {
					t.Fatalf("expected failure, got %v", got)
				}
				return
			}
			if len(got) == 0 {
				t.Fatalf("parse failed")
			}
			if !reflect.DeepEqual(got[0], tc.Headers) {
				t.Fatalf("headers: got %q want %q", got[0], tc.Headers)
			}
			rows := got[1:]
			if len(tc.Rows) == 0 && len(rows) == 0 {
				return
			}
			if !reflect.DeepEqual(rows, tc.Rows) {
				t.Fatalf("rows: got %q want %q", rows, tc.Rows)
			}
		})
	}
}

func TestParseRowsMatchHeaderWidth(t *testing.T) {
	for _, tc := range loadTableCases(t) {
		got := Parse(tc.Input)
		if got == nil {
			continue
		}
		for i, r := range got[1:] {
			if len(r) != len(got[0]) {
				t.Fatalf("%s: row %d has %d cells, header has %d", tc.Name, i, len(r), len(got[0]))
			}
		}
	}
}

func TestSplitLineJSONPipe(t *testing.T) {
	got := SplitLine(`| 1 | {"a": "x|y"} |`)
	want := []string{"1", `{"a": "x|y"}`}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestSplitLineLoose(t *testing.T) {
	got := SplitLine("a | b || c ")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
	if SplitLine("   ") != nil {
		t.Fatalf("blank line must yield no cells")
	}
}

func TestSplitLineWithoutTrailingDelimiter(t *testing.T) {
	got := SplitLine("| a | [1|2]")
	want := []string{"a", "[1|2]"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestLineShapes(t *testing.T) {
	if !IsBorderLine("+----+------+") {
		t.Fatalf("border not detected")
	}
	if IsBorderLine("| 1+1 | 2 |") {
		t.Fatalf("row with digits is not a border")
	}
	if !IsSeparatorLine("| :--- | ---: |") {
		t.Fatalf("separator not detected")
	}
	if IsSeparatorLine("") || IsSeparatorLine("| |") {
		t.Fatalf("blank and dash-less lines are not separators")
	}
	if !IsFramed(" | a | ") || IsFramed("| a") {
		t.Fatalf("framing check wrong")
	}
}

func TestParseTableTyped(t *testing.T) {
	tbl, ok := ParseTable("| id | name |\n|---|---|\n| 1 | Alice |\n| 2 | Bob |")
	if !ok {
		t.Fatalf("expected ok")
	}
	if !reflect.DeepEqual(tbl.Headers, []string{"id", "name"}) || len(tbl.Rows) != 2 {
		t.Fatalf("unexpected table %+v", tbl)
	}
	if _, ok := ParseTable(""); ok {
		t.Fatalf("empty input must fail")
	}
}
