package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"tablesense/internal/model"
)

// displayCell flattens a cell for the table: JSON documents are compacted
// and line breaks become spaces. width 0 leaves the length alone.
func displayCell(v string, width int) string {
	if _, ok := model.ClassifyCell(v); ok {
		v = model.CompactJSON(v, 0)
	}
	v = strings.NewReplacer("\r\n", " ", "\n", " ", "\t", " ").Replace(v)
	if width > 0 && runewidth.StringWidth(v) > width {
		return runewidth.Truncate(v, width, "…")
	}
	return v
}
