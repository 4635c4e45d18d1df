package parse

import (
	"strings"

	"tablesense/internal/model"
	"tablesense/internal/util/logx"
)

// Parse turns raw text into records: the first record is the header row,
// the rest are data rows of the same width. A nil result means no header
// could be found.
func Parse(text string) [][]string {
	lines := splitLines(text)
	headerIdx, dataStart := findHeader(lines)
	if headerIdx < 0 {
		return nil
	}
	headers := SplitLine(lines[headerIdx])
	if len(headers) == 0 {
		return nil
	}
	out := [][]string{headers}
	dropped := 0
	keep := func(row string) {
		cells := SplitLine(row)
		if len(cells) != len(headers) {
			dropped++
			return
		}
		out = append(out, cells)
	}
	for i := dataStart; i < len(lines); i++ {
		l := lines[i]
		if IsDecorative(l) {
			continue
		}
		if IsFramed(l) {
			keep(l)
			continue
		}
		if !StartsWithDelimiter(l) {
			continue
		}
		joined, end, ok := rejoinWrapped(lines, i)
		if ok {
			keep(joined)
			i = end
			continue
		}
		// Leave the line that aborted the reconstruction to the outer loop.
		i = end - 1
	}
	if dropped > 0 {
		logx.Debugf("parse: dropped %d rows not matching %d header cells", dropped, len(headers))
	}
	return out
}

// ParseTable is Parse returning the typed table.
func ParseTable(text string) (model.ParsedTable, bool) {
	return model.FromRecords(Parse(text))
}

// findHeader returns the header line index and the first data line index,
// or -1 when the text has no usable header.
func findHeader(lines []string) (int, int) {
	for i := 0; i+1 < len(lines); i++ {
		if IsFramed(lines[i]) && !IsSeparatorLine(lines[i]) && IsSeparatorLine(lines[i+1]) {
			return i, i + 2
		}
	}
	for i, l := range lines {
		if IsFramed(l) && !IsSeparatorLine(l) {
			return i, i + 1
		}
	}
	return -1, -1
}

// rejoinWrapped reassembles a row that a hard wrap split over several lines.
// lines[start] opens the row. On success it returns the joined row and the
// index of its last line. On abort it returns the index of the line that
// stopped the reconstruction (or len(lines)).
func rejoinWrapped(lines []string, start int) (string, int, bool) {
	var b strings.Builder
	b.WriteString(lines[start])
	for j := start + 1; j < len(lines); j++ {
		l := lines[j]
		if l == "" {
			continue
		}
		if StartsWithDelimiter(l) || IsBorderLine(l) || IsSeparatorLine(l) {
			return "", j, false
		}
		b.WriteByte(' ')
		b.WriteString(l)
		if strings.HasSuffix(l, string(Delimiter)) {
			return b.String(), j, true
		}
	}
	return "", len(lines), false
}
