package model

import (
	"encoding/json"
	"strings"
)

// ParsedTable is the result of one successful parse of input text.
// Every row has exactly len(Headers) cells.
type ParsedTable struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// FromRecords builds a table from the raw parser output (headers first).
func FromRecords(records [][]string) (ParsedTable, bool) {
	if len(records) == 0 || len(records[0]) == 0 {
		return ParsedTable{}, false
	}
	t := ParsedTable{Headers: records[0], Rows: make([][]string, 0, len(records)-1)}
	for _, r := range records[1:] {
		if len(r) != len(t.Headers) {
			continue
		}
		t.Rows = append(t.Rows, r)
	}
	return t, true
}

func (t ParsedTable) Empty() bool { return len(t.Headers) == 0 }

func (t ParsedTable) Width() int { return len(t.Headers) }

// HeaderIndex returns the first column with the given name, or -1.
func (t ParsedTable) HeaderIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	for i, h := range t.Headers {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// ClassifyCell reports whether a cell holds an embedded JSON document.
// The raw string stays canonical; the decoded value is only for display.
func ClassifyCell(v string) (any, bool) {
	s := strings.TrimSpace(v)
	if !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "[") {
		return nil, false
	}
	var out any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, false
	}
	return out, true
}

// PrettyJSON re-indents a JSON cell, falling back to the raw text.
func PrettyJSON(v string) string {
	doc, ok := ClassifyCell(v)
	if !ok {
		return v
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return v
	}
	return string(b)
}

// CompactJSON renders a JSON cell on one line, truncated to max runes.
func CompactJSON(v string, max int) string {
	doc, ok := ClassifyCell(v)
	if !ok {
		return v
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return v
	}
	r := []rune(string(b))
	if max > 0 && len(r) > max {
		return string(r[:max]) + "..."
	}
	return string(r)
}
