package detect

import (
	"strings"

	"tablesense/internal/parse"
	"tablesense/internal/sqltext"
)

type Kind string

const (
	KindMarkdown Kind = "markdown"
	KindMySQL    Kind = "mysql"
	KindPipe     Kind = "pipe"
	KindSQL      Kind = "sql"
	KindUnknown  Kind = "unknown"
)

type Guess struct {
	Kind       Kind
	Confidence float64
	// HasSQL is set when any line looks like a statement, whatever the kind.
	HasSQL bool
}

// Quick offline heuristics on a small sample.
func Heuristics(sample []string) Guess {
	lines := 0
	framedCount := 0
	separatorCount := 0
	borderCount := 0
	promptCount := 0
	pipeCount := 0
	sqlCount := 0
	for _, l := range sample {
		s := strings.TrimSpace(l)
		if s == "" {
			continue
		}
		lines++
		switch {
		case parse.IsSeparatorLine(s):
			separatorCount++
		case parse.IsBorderLine(s):
			borderCount++
		case parse.IsFramed(s):
			framedCount++
		case strings.ContainsRune(s, parse.Delimiter):
			pipeCount++
		}
		if sqltext.IsPromptLine(s) {
			promptCount++
		}
		if sqltext.IsQueryStart(sqltext.StripPrompts(s)) {
			sqlCount++
		}
	}
	hasSQL := sqlCount > 0
	// Choose the most specific shape first
	if promptCount > 0 || (borderCount > 0 && framedCount > 0) {
		return Guess{Kind: KindMySQL, Confidence: conf(lines, promptCount+borderCount+framedCount), HasSQL: hasSQL}
	}
	if separatorCount > 0 && framedCount > 0 {
		return Guess{Kind: KindMarkdown, Confidence: conf(lines, separatorCount+framedCount), HasSQL: hasSQL}
	}
	if framedCount+pipeCount > 0 && framedCount+pipeCount >= lines/2 {
		return Guess{Kind: KindPipe, Confidence: conf(lines, framedCount+pipeCount), HasSQL: hasSQL}
	}
	if hasSQL {
		return Guess{Kind: KindSQL, Confidence: conf(lines, sqlCount), HasSQL: true}
	}
	// Unknown
	return Guess{Kind: KindUnknown, Confidence: 0.0}
}

// Sample returns up to n lines of text for Heuristics.
func Sample(text string, n int) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return lines
}

func conf(lines, hits int) float64 {
	if lines == 0 {
		return 0
	}
	c := float64(hits) / float64(lines)
	if c > 1 {
		c = 1
	}
	return c
}
