package sqltext

import (
	"strings"

	"tablesense/internal/parse"
	"tablesense/internal/util/logx"
)

// block is one command of a transcript: the prompt line (or the first
// stray line of an implicit block) plus its continuation lines.
type block struct {
	lines    []string
	implicit bool
}

func (b *block) command() string {
	for _, l := range b.lines {
		if strings.TrimSpace(l) != "" {
			return l
		}
	}
	return ""
}

// Extract returns the last query statement executed in a console
// transcript, or "" when none is found. Input without any CLI prompt is
// treated as bare SQL.
func Extract(transcript string) string {
	lines := dropDecoration(splitLines(transcript))
	if !hasPrompt(lines) {
		return extractBare(lines)
	}
	var last string
	n := 0
	for _, b := range segment(lines) {
		cmd := b.command()
		if cmd == "" || IsAdminCommand(cmd) || !IsQueryStart(cmd) {
			continue
		}
		last = stripClientTerminator(strings.TrimSpace(strings.Join(trimTrailingStatus(b.lines), "\n")))
		n++
	}
	logx.Debugf("sqltext: %d candidate statements", n)
	return last
}

// dropDecoration removes border and divider lines; result table rows are
// kept since they close a block.
func dropDecoration(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		t := strings.TrimSpace(l)
		if t != "" && (parse.IsBorderLine(t) || parse.IsSeparatorLine(t)) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func hasPrompt(lines []string) bool {
	for _, l := range lines {
		if IsPromptLine(l) {
			return true
		}
	}
	return false
}

// segment groups lines into command blocks. A prompt opens a block,
// continuation lines extend it, and a result row (framed or \G style) or
// a banner closes it. Other
// lines outside a block open an implicit one that a blank line closes.
func segment(lines []string) []*block {
	var (
		blocks []*block
		cur    *block
	)
	open := func(implicit bool) {
		cur = &block{implicit: implicit}
		blocks = append(blocks, cur)
	}
	for _, l := range lines {
		switch {
		case IsPromptLine(l):
			open(false)
			cur.lines = append(cur.lines, stripTokens(l))
		case IsContinuationLine(l):
			if cur == nil {
				open(true)
			}
			cur.lines = append(cur.lines, stripTokens(l))
		case IsTableLine(l), IsVerticalRow(l), IsResultBanner(l), IsStatusLine(l):
			cur = nil
		case l == "":
			if cur != nil && cur.implicit {
				cur = nil
			}
		default:
			if cur == nil {
				open(true)
			}
			cur.lines = append(cur.lines, l)
		}
	}
	return blocks
}

func trimTrailingStatus(lines []string) []string {
	for len(lines) > 0 {
		t := strings.TrimSpace(lines[len(lines)-1])
		if t != "" && !IsStatusLine(t) && !IsResultBanner(t) {
			break
		}
		lines = lines[:len(lines)-1]
	}
	return lines
}

// extractBare scans text without CLI framing. A query keyword opens a
// statement unless the line reads as prose. The statement runs until a
// blank line, a result line, a status message or a terminating ';' or \G.
func extractBare(lines []string) string {
	var (
		cur  []string
		last string
	)
	flush := func() {
		if len(cur) > 0 {
			last = stripClientTerminator(strings.TrimSpace(strings.Join(cur, "\n")))
		}
		cur = nil
	}
	for _, l := range lines {
		t := stripTokens(l)
		switch {
		case t == "", IsTableLine(t), IsVerticalRow(t), IsResultBanner(t), IsStatusLine(t):
			flush()
		case len(cur) > 0 && !terminated(cur):
			cur = append(cur, t)
		case IsQueryStart(t) && !IsAdminCommand(t) && looksLikeStatement(t):
			flush()
			cur = []string{t}
		case len(cur) > 0:
			flush()
		}
	}
	flush()
	return last
}

func terminated(stmt []string) bool {
	l := strings.TrimSpace(stmt[len(stmt)-1])
	return strings.HasSuffix(l, ";") || reClientEnd.MatchString(l)
}
