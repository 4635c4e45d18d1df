// Package sqltext isolates SQL statements from console transcripts,
// reformats them and attributes selected columns to source tables.
// Everything here is heuristic and never returns errors: unusable input
// yields empty results.
package sqltext

import (
	"regexp"
	"strings"

	"tablesense/internal/parse"
)

// Unknown marks a column whose source table cannot be resolved.
const Unknown = "unknown"

// QueryKeywords start a statement worth extracting.
var QueryKeywords = []string{
	"SELECT", "UPDATE", "INSERT", "DELETE", "CREATE",
	"ALTER", "DROP", "SHOW", "DESCRIBE", "EXPLAIN",
}

// ClauseKeywords are the line-break points of Format, longest first so
// multiword keywords win over their last word.
var ClauseKeywords = []string{
	"UNION ALL", "UNION",
	"GROUP BY", "ORDER BY",
	"INSERT INTO", "DELETE FROM",
	"CREATE TABLE", "ALTER TABLE", "DROP TABLE",
	"NATURAL LEFT OUTER JOIN", "NATURAL RIGHT OUTER JOIN",
	"NATURAL LEFT JOIN", "NATURAL RIGHT JOIN", "NATURAL JOIN",
	"LEFT OUTER JOIN", "RIGHT OUTER JOIN", "FULL OUTER JOIN",
	"LEFT JOIN", "RIGHT JOIN", "INNER JOIN", "CROSS JOIN", "FULL JOIN",
	"STRAIGHT_JOIN", "JOIN",
	"FROM", "WHERE", "HAVING", "LIMIT",
	"VALUES", "UPDATE", "SET",
}

var (
	rePrompt       = regexp.MustCompile(`^(?:mysql|MariaDB \[[^\]]*\])>\s?`)
	reContinuation = regexp.MustCompile("^(?:->|'>|\">|`>|/\\*>)\\s?")
	reResultBanner = regexp.MustCompile(`(?i)^(?:\d+\s+rows?\s+in\s+set\b|empty\s+set\b|query\s+ok,)`)
	reStatus       = regexp.MustCompile(`(?i)^(?:database\s+changed|bye$|rows\s+matched:|records:|error\s+\d+\s+\(|warning\s+\(code\b)`)
	reAdmin        = regexp.MustCompile(`(?i)^(?:(?:USE|SOURCE|STATUS|HELP|EXIT|QUIT|CONNECT)\b|SET\s+NAMES\b|SHOW\s+(?:DATABASES|SCHEMAS|TABLES|FULL\s+TABLES|WARNINGS|ERRORS)\b|\\[a-zA-Z])`)
	reQueryStart   = regexp.MustCompile(`(?i)^(?:` + strings.Join(QueryKeywords, "|") + `)\b`)
	reUpperStart   = regexp.MustCompile(`^(?:` + strings.Join(QueryKeywords, "|") + `)\b`)
	reSQLToken     = regexp.MustCompile(`(?i)\b(?:FROM|INTO|SET|TABLE|WHERE|VALUES|BY)\b|[*,;(=]`)
	reVerticalRow  = regexp.MustCompile(`^\*+\s*\d+\.\s*row\s*\*+$`)
	reClientEnd    = regexp.MustCompile(`\s*\\[gG]\s*$`)
)

// IsPromptLine reports whether the trimmed line begins with a CLI prompt.
func IsPromptLine(line string) bool { return rePrompt.MatchString(strings.TrimSpace(line)) }

// IsContinuationLine reports whether the trimmed line begins with a
// continuation marker such as "->".
func IsContinuationLine(line string) bool {
	return reContinuation.MatchString(strings.TrimSpace(line))
}

// IsResultBanner matches "N rows in set (t)", "Empty set (t)" and "Query OK, ...".
func IsResultBanner(line string) bool { return reResultBanner.MatchString(strings.TrimSpace(line)) }

// IsVerticalRow matches the record header of \G output, such as
// "*************************** 1. row ***************************".
func IsVerticalRow(line string) bool { return reVerticalRow.MatchString(strings.TrimSpace(line)) }

// IsStatusLine matches client status messages that never belong to a statement.
func IsStatusLine(line string) bool { return reStatus.MatchString(strings.TrimSpace(line)) }

// IsTableLine matches result-table rows and their borders.
func IsTableLine(line string) bool {
	t := strings.TrimSpace(line)
	if t == "" {
		return false
	}
	return parse.StartsWithDelimiter(t) || parse.IsBorderLine(t) || parse.IsSeparatorLine(t)
}

// IsAdminCommand matches client and introspection commands that are never
// extracted.
func IsAdminCommand(cmd string) bool { return reAdmin.MatchString(strings.TrimSpace(cmd)) }

// IsQueryStart reports whether cmd begins with a query keyword.
func IsQueryStart(cmd string) bool { return reQueryStart.MatchString(strings.TrimSpace(cmd)) }

// looksLikeStatement filters prose that merely starts with a query word,
// such as "Show me the data": the keyword must be upper case or the line
// must carry a second SQL token.
func looksLikeStatement(line string) bool {
	return reUpperStart.MatchString(line) || reSQLToken.MatchString(line[len(strings.Fields(line)[0]):])
}

// stripClientTerminator drops a trailing \G or \g, the client's
// alternatives to ';'.
func stripClientTerminator(stmt string) string { return reClientEnd.ReplaceAllString(stmt, "") }

// stripTokens removes any leading prompt and continuation tokens from a
// trimmed line.
func stripTokens(line string) string {
	t := strings.TrimSpace(line)
	for {
		if loc := rePrompt.FindStringIndex(t); loc != nil {
			t = strings.TrimSpace(t[loc[1]:])
			continue
		}
		if loc := reContinuation.FindStringIndex(t); loc != nil {
			t = strings.TrimSpace(t[loc[1]:])
			continue
		}
		return t
	}
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(strings.ReplaceAll(text, "\r", "\n"), "\n")
}
