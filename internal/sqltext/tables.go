package sqltext

import (
	"regexp"
	"strings"
)

var (
	reFrom       = regexp.MustCompile(`(?i)\bFROM\b`)
	reSelect     = regexp.MustCompile(`(?i)\bSELECT\b`)
	reJoin       = regexp.MustCompile(`(?i)\b(?:STRAIGHT_)?JOIN\b`)
	reJoinTarget = regexp.MustCompile(`(?i)\b(?:STRAIGHT_)?JOIN\s+(\S+)(?:\s+(?:AS\s+)?(\S+))?`)
	reInsertInto = regexp.MustCompile(`(?i)\b(?:INSERT|REPLACE)\s+(?:(?:LOW_PRIORITY|DELAYED|HIGH_PRIORITY|IGNORE)\s+)*INTO\s+(\S+)`)
	reUpdate     = regexp.MustCompile(`(?i)^\s*UPDATE\s+(?:(?:LOW_PRIORITY|IGNORE)\s+)*(\S+)`)
	reFuncCall   = regexp.MustCompile(`^\w+\s*\(.*\)$`)
	reDotted     = regexp.MustCompile("^((?:[\\w$]+|`[^`]+`)(?:\\.(?:[\\w$]+|`[^`]+`))?)\\.([\\w$*]+|`[^`]+`)$")
	reIdent      = regexp.MustCompile("^(?:[\\w$]+|`[^`]+`|\"[^\"]+\")$")

	// FROM ends at these; the verbatim clause keeps its JOINs.
	reFromStop = regexp.MustCompile(`(?i)^(?:WHERE|GROUP\s+BY|HAVING|ORDER\s+BY|LIMIT|UNION|WINDOW|FOR\s+UPDATE|INTO\s+OUTFILE)\b`)
	// A FROM item list also ends at the first join.
	reItemStop = regexp.MustCompile(`(?i)^(?:WHERE|GROUP\s+BY|HAVING|ORDER\s+BY|LIMIT|UNION|WINDOW|FOR\s+UPDATE|INTO\s+OUTFILE|NATURAL|LEFT|RIGHT|INNER|CROSS|FULL|OUTER|STRAIGHT_JOIN|JOIN)\b`)
)

// aliasStop lists words that can follow a table reference without being
// its alias.
var aliasStop = map[string]bool{
	"ON": true, "USING": true, "WHERE": true, "GROUP": true, "HAVING": true,
	"ORDER": true, "LIMIT": true, "UNION": true, "LEFT": true, "RIGHT": true,
	"INNER": true, "CROSS": true, "FULL": true, "OUTER": true, "NATURAL": true,
	"JOIN": true, "STRAIGHT_JOIN": true, "SET": true, "VALUES": true,
	"SELECT": true, "USE": true, "FORCE": true, "IGNORE": true, "WINDOW": true,
}

// TableNames lists the tables referenced by FROM, JOIN, INSERT INTO,
// UPDATE and DELETE FROM, deduplicated in first-seen order. Derived tables
// are skipped.
func TableNames(sql string) []string {
	m := mask(sql)
	var (
		out  []string
		seen = map[string]bool{}
	)
	add := func(tok string) {
		name := cleanName(tok)
		if name == "" || seen[strings.ToLower(name)] {
			return
		}
		seen[strings.ToLower(name)] = true
		out = append(out, name)
	}
	if loc := reUpdate.FindStringSubmatchIndex(m); loc != nil {
		add(sql[loc[2]:loc[3]])
	}
	for _, loc := range reInsertInto.FindAllStringSubmatchIndex(m, -1) {
		add(sql[loc[2]:loc[3]])
	}
	for _, item := range fromItems(sql, m) {
		add(item.table)
	}
	for _, loc := range joinTargets(m) {
		add(sql[loc[2]:loc[3]])
	}
	return out
}

// IsJoin reports whether the statement uses any JOIN keyword.
func IsJoin(sql string) bool { return reJoin.MatchString(mask(sql)) }

// FromClause returns the verbatim text following the top-level FROM up to
// the next clause keyword or the terminator, without the FROM keyword.
func FromClause(sql string) string {
	m := mask(sql)
	d := depths(m)
	for _, loc := range reFrom.FindAllStringIndex(m, -1) {
		if d[loc[0]] != 0 {
			continue
		}
		end := clauseEnd(m, loc[1], reFromStop)
		return strings.TrimSpace(sql[loc[1]:end])
	}
	return ""
}

// Column is one SELECT field as written.
type Column struct {
	Key   string // alias, or the column name when unaliased
	Expr  string // the field without its alias
	Table string // prefix of a t.col expression, or Unknown
	Name  string // column part of a t.col expression
}

// Qualified reports whether the field is a plain prefixed column.
func (c Column) Qualified() bool { return c.Table != Unknown }

// SelectColumns returns the fields of the first SELECT in order.
func SelectColumns(sql string) []Column {
	var out []Column
	for _, f := range selectFields(sql) {
		if c := attributeField(f); c.Key != "" {
			out = append(out, c)
		}
	}
	return out
}

// ColumnTables maps every SELECT field to the table prefix it was written
// with. Keys are the alias when one is given, else the column name; values
// are the prefix or Unknown.
func ColumnTables(sql string) map[string]string {
	out := map[string]string{}
	for _, c := range SelectColumns(sql) {
		if _, ok := out[c.Key]; !ok {
			out[c.Key] = c.Table
		}
	}
	return out
}

// TableAliases maps every FROM/JOIN alias, and every table name, to its
// table.
func TableAliases(sql string) map[string]string {
	m := mask(sql)
	out := map[string]string{}
	set := func(table, alias string) {
		table = cleanName(table)
		if table == "" {
			return
		}
		out[table] = table
		alias = cleanName(alias)
		if alias != "" && !aliasStop[strings.ToUpper(alias)] {
			out[alias] = table
		}
	}
	for _, item := range fromItems(sql, m) {
		set(item.table, item.alias)
	}
	for _, loc := range joinTargets(m) {
		alias := ""
		if loc[4] >= 0 {
			alias = sql[loc[4]:loc[5]]
		}
		set(sql[loc[2]:loc[3]], alias)
	}
	return out
}

type fromItem struct{ table, alias string }

// fromItems returns the comma-separated table references of every
// top-level FROM clause, stopping each list at its first join. FROM inside
// parentheses belongs to a subquery or a function such as EXTRACT or TRIM.
func fromItems(sql, m string) []fromItem {
	var out []fromItem
	d := depths(m)
	for _, loc := range reFrom.FindAllStringIndex(m, -1) {
		if d[loc[0]] != 0 {
			continue
		}
		end := clauseEnd(m, loc[1], reItemStop)
		for _, part := range splitTopLevel(sql[loc[1]:end], ',') {
			if strings.HasPrefix(part, "(") {
				continue
			}
			toks := strings.Fields(part)
			it := fromItem{table: toks[0]}
			switch {
			case len(toks) >= 3 && strings.EqualFold(toks[1], "AS"):
				it.alias = toks[2]
			case len(toks) >= 2:
				it.alias = toks[1]
			}
			out = append(out, it)
		}
	}
	return out
}

// joinTargets returns the submatch indexes of the top-level JOIN targets.
func joinTargets(m string) [][]int {
	d := depths(m)
	var out [][]int
	for _, loc := range reJoinTarget.FindAllStringSubmatchIndex(m, -1) {
		if d[loc[0]] == 0 {
			out = append(out, loc)
		}
	}
	return out
}

// clauseEnd scans the masked text from start and returns the offset of the
// first depth-0 stop keyword, a ';', or the parenthesis closing an
// enclosing group.
func clauseEnd(m string, start int, stop *regexp.Regexp) int {
	depth := 0
	for i := start; i < len(m); i++ {
		switch c := m[i]; {
		case c == '(':
			depth++
		case c == ')':
			if depth == 0 {
				return i
			}
			depth--
		case c == ';' && depth == 0:
			return i
		case depth == 0 && (i == 0 || !isWordByte(m[i-1])) && isWordByte(c):
			if stop.MatchString(m[i:]) {
				return i
			}
		}
	}
	return len(m)
}

// selectFields returns the top-level field list of the first SELECT.
func selectFields(sql string) []string {
	m := mask(sql)
	d := depths(m)
	sel := reSelect.FindStringIndex(m)
	if sel == nil {
		return nil
	}
	end := len(m)
	for _, loc := range reFrom.FindAllStringIndex(m, -1) {
		if loc[0] > sel[1] && d[loc[0]] == d[sel[0]] {
			end = loc[0]
			break
		}
	}
	if i := strings.IndexByte(m[sel[1]:end], ';'); i >= 0 {
		end = sel[1] + i
	}
	list := strings.TrimSpace(sql[sel[1]:end])
	for _, kw := range []string{"DISTINCT", "ALL", "SQL_CALC_FOUND_ROWS"} {
		if hasWord(list, kw) {
			list = strings.TrimSpace(list[len(kw):])
		}
	}
	return splitTopLevel(list, ',')
}

// attributeField splits one field into its alias, expression and prefix.
func attributeField(field string) Column {
	expr, alias := field, ""
	if !reFuncCall.MatchString(field) {
		toks := splitTopLevelSpace(field)
		switch n := len(toks); {
		case n >= 3 && strings.EqualFold(toks[n-2], "AS"):
			expr, alias = strings.Join(toks[:n-2], " "), toks[n-1]
		case n == 2 && reIdent.MatchString(toks[1]):
			expr, alias = toks[0], toks[1]
		}
	}
	c := Column{Expr: expr, Table: Unknown, Key: unquoteIdent(expr)}
	if sm := reDotted.FindStringSubmatch(expr); sm != nil {
		c.Table, c.Name = unquoteIdent(lastPart(sm[1])), unquoteIdent(sm[2])
		c.Key = c.Name
	}
	if alias != "" {
		c.Key = unquoteIdent(alias)
	}
	return c
}

// lastPart keeps the table of a schema-qualified prefix.
func lastPart(p string) string {
	if i := strings.LastIndexByte(p, '.'); i >= 0 && !strings.HasSuffix(p, "`") {
		return p[i+1:]
	}
	if i := strings.LastIndex(p, "`.`"); i >= 0 {
		return p[i+2:]
	}
	return p
}

func unquoteIdent(s string) string { return strings.Trim(s, "`\"'") }

// cleanName strips punctuation around a table token and rejects tokens
// that cannot be names.
func cleanName(tok string) string {
	if i := strings.IndexByte(tok, '('); i >= 0 {
		tok = tok[:i]
	}
	tok = strings.ReplaceAll(tok, "`", "")
	tok = strings.Trim(tok, ";(),\"'")
	if tok == "" || strings.ContainsRune(tok, '=') {
		return ""
	}
	return tok
}
