package repl

import (
	"sort"
	"strings"
)

// completer implements readline's AutoCompleter: command names at the start
// of a line, column headers after commands that take one.
type completer struct {
	sh *Shell
}

var headerCommands = []string{`\sort `, `\scope `, `\hide `, `\show `, `\move `}

func (c *completer) Do(line []rune, pos int) (newLine [][]rune, length int) {
	text := string(line[:pos])
	if !strings.HasPrefix(text, `\`) {
		return nil, 0
	}
	var candidates []string
	prefix := text
	if i := strings.IndexByte(text, ' '); i < 0 {
		candidates = c.sh.commandNames()
	} else {
		lower := strings.ToLower(text)
		for _, hc := range headerCommands {
			if strings.HasPrefix(lower, hc) {
				candidates = c.sh.sess.Table().Headers
				prefix = text[len(hc):]
				if j := strings.LastIndexByte(prefix, ','); j >= 0 {
					prefix = prefix[j+1:]
				}
				break
			}
		}
	}
	matches := filterPrefix(candidates, prefix)
	for _, m := range matches {
		newLine = append(newLine, []rune(m[len(prefix):]+" "))
	}
	return newLine, len([]rune(prefix))
}

func filterPrefix(candidates []string, prefix string) []string {
	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), strings.ToLower(prefix)) && len(c) >= len(prefix) {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}
