package util

import "regexp"

var (
	reEmail = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	reToken = regexp.MustCompile(`(?i)(api|secret|token|key|password)[=:]\s*[A-Za-z0-9-_]{8,}`)
	// single-quoted SQL literal with '' escapes, or a double-quoted one
	reSQLString = regexp.MustCompile(`'(?:[^']|'')*'|"(?:[^"\\]|\\.)*"`)
	reSQLNumber = regexp.MustCompile(`\b\d{6,}\b`)
)

func RedactPII(s string) string {
	s = reEmail.ReplaceAllString(s, "[redacted-email]")
	s = reToken.ReplaceAllString(s, "$1=[redacted]")
	return s
}

// RedactSQL masks literal values in a statement while keeping its shape:
// strings become '?' and long numbers (ids, phone numbers) become 0.
func RedactSQL(sql string) string {
	sql = reSQLString.ReplaceAllString(sql, "'?'")
	sql = reSQLNumber.ReplaceAllString(sql, "0")
	return RedactPII(sql)
}
