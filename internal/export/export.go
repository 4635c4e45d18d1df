package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"tablesense/internal/generate"
	"tablesense/internal/model"
	"tablesense/internal/view"
)

type Format string

const (
	FormatCSV      Format = "csv"
	FormatNDJSON   Format = "json"
	FormatMarkdown Format = "md"
	FormatSQL      Format = "sql"
)

var errNoRows = errors.New("no rows")

// ParseFormat accepts the -export flag values.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatNDJSON, FormatMarkdown, FormatSQL:
		return f, nil
	case "ndjson":
		return FormatNDJSON, nil
	case "markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// FormatFor resolves an explicit format name, or the extension of path
// when name is empty.
func FormatFor(name, path string) (Format, error) {
	if strings.TrimSpace(name) == "" {
		name = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	return ParseFormat(name)
}

// ToFile writes the projection to path in format f. table names the
// target of a SQL export.
func ToFile(path string, f Format, p view.Projection, table string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(out, f, p, table); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func Write(w io.Writer, f Format, p view.Projection, table string) error {
	switch f {
	case FormatCSV:
		return ToCSV(w, p)
	case FormatNDJSON:
		return ToNDJSON(w, p)
	case FormatMarkdown:
		return ToMarkdown(w, p)
	case FormatSQL:
		return ToSQL(w, p, table)
	}
	return fmt.Errorf("unknown export format %q", f)
}

func ToCSV(w io.Writer, p view.Projection) error {
	if len(p.Headers) == 0 {
		return errNoRows
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(p.Headers); err != nil {
		return err
	}
	for _, r := range p.Cells {
		if err := cw.Write(r); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToNDJSON writes one object per row. JSON cells are embedded as JSON.
func ToNDJSON(w io.Writer, p view.Projection) error {
	bw := bufio.NewWriter(w)
	for _, r := range p.Cells {
		obj := make(map[string]any, len(p.Headers))
		for i, h := range p.Headers {
			if doc, ok := model.ClassifyCell(r[i]); ok {
				obj[h] = doc
			} else {
				obj[h] = r[i]
			}
		}
		b, err := json.Marshal(obj)
		if err != nil {
			return err
		}
		if _, err := bw.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ToMarkdown writes a pipe table. Pipes inside cells are escaped.
func ToMarkdown(w io.Writer, p view.Projection) error {
	if len(p.Headers) == 0 {
		return errNoRows
	}
	bw := bufio.NewWriter(w)
	row := func(cells []string) {
		esc := make([]string, len(cells))
		for i, c := range cells {
			esc[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		fmt.Fprintf(bw, "| %s |\n", strings.Join(esc, " | "))
	}
	row(p.Headers)
	seps := make([]string, len(p.Headers))
	for i := range seps {
		seps[i] = "---"
	}
	row(seps)
	for _, r := range p.Cells {
		row(r)
	}
	return bw.Flush()
}

// ToSQL writes the projection as one INSERT statement.
func ToSQL(w io.Writer, p view.Projection, table string) error {
	if table == "" {
		table = "exported"
	}
	v := generate.View{Table: table, Headers: p.Headers, Rows: p.Cells, Columns: identity(len(p.Headers))}
	r := generate.Insert(v, generate.Source{})
	if !r.OK() {
		return errors.New(r.Reason)
	}
	_, err := fmt.Fprintln(w, r.SQL)
	return err
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
