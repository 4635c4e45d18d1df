package ui

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// colorizeJSON pretty prints a decoded JSON cell with one style per token
// kind. Object keys are sorted so the inspector output is stable.
func colorizeJSON(v any, st Styles) string {
	var b strings.Builder
	writeJSON(&b, v, st, "")
	return b.String()
}

func writeJSON(b *strings.Builder, v any, st Styles, ind string) {
	switch t := v.(type) {
	case map[string]any:
		keys := slices.Sorted(maps.Keys(t))
		writeContainer(b, st, ind, "{", "}", len(keys), func(i int, inner string) {
			b.WriteString(st.JSONKey.Render(strconv.Quote(keys[i])))
			b.WriteString(st.JSONPunct.Render(": "))
			writeJSON(b, t[keys[i]], st, inner)
		})
	case []any:
		writeContainer(b, st, ind, "[", "]", len(t), func(i int, inner string) {
			writeJSON(b, t[i], st, inner)
		})
	case string:
		b.WriteString(st.JSONString.Render(strconv.Quote(t)))
	case float64:
		b.WriteString(st.JSONNumber.Render(strconv.FormatFloat(t, 'f', -1, 64)))
	case bool:
		b.WriteString(st.JSONBool.Render(strconv.FormatBool(t)))
	case nil:
		b.WriteString(st.JSONNull.Render("null"))
	default:
		b.WriteString(st.JSONString.Render(fmt.Sprint(t)))
	}
}

// writeContainer emits open, n items one per line, then close. Empty
// containers stay on one line.
func writeContainer(b *strings.Builder, st Styles, ind, open, close string, n int, item func(i int, inner string)) {
	b.WriteString(st.JSONPunct.Render(open))
	if n == 0 {
		b.WriteString(st.JSONPunct.Render(close))
		return
	}
	inner := ind + "  "
	b.WriteByte('\n')
	for i := 0; i < n; i++ {
		b.WriteString(inner)
		item(i, inner)
		if i < n-1 {
			b.WriteString(st.JSONPunct.Render(","))
		}
		b.WriteByte('\n')
	}
	b.WriteString(ind)
	b.WriteString(st.JSONPunct.Render(close))
}
