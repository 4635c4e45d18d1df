package filter

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
	"golang.org/x/text/cases"
)

type Criteria struct {
	Query    string // plain contains, or a regex when UseRegex
	UseRegex bool
	Scope    string // when set, apply Query only to this header
	Expr     string // govaluate expression over header-named cells
}

// ParseQuery recognises the /pattern/ form typed into the search box.
func ParseQuery(s string) (string, bool) {
	if len(s) >= 2 && strings.HasPrefix(s, "/") && strings.HasSuffix(s, "/") {
		return s[1 : len(s)-1], true
	}
	return s, false
}

type Evaluator struct {
	re     *regexp.Regexp
	expr   *govaluate.EvaluableExpression
	fold   cases.Caser
	needle string
}

func NewEvaluator(c Criteria) (*Evaluator, error) {
	var re *regexp.Regexp
	var expr *govaluate.EvaluableExpression
	var err error
	if c.UseRegex && c.Query != "" {
		re, err = regexp.Compile("(?i)" + c.Query)
		if err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(c.Expr) != "" {
		expr, err = govaluate.NewEvaluableExpression(c.Expr)
		if err != nil {
			return nil, err
		}
	}
	e := &Evaluator{re: re, expr: expr, fold: cases.Fold()}
	e.needle = e.fold.String(c.Query)
	return e, nil
}

// Match reports whether row passes the criteria. The search looks at the
// active columns, or only at the scope header when one is set.
func (e *Evaluator) Match(headers, row []string, active []int, c Criteria) bool {
	if c.Query != "" {
		var texts []string
		if c.Scope != "" {
			if i := headerIndex(headers, c.Scope); i >= 0 && i < len(row) {
				texts = []string{row[i]}
			}
		} else {
			for _, i := range active {
				if i >= 0 && i < len(row) {
					texts = append(texts, row[i])
				}
			}
		}
		if !e.matchAny(texts) {
			return false
		}
	}
	if e.expr != nil {
		params := make(map[string]any, len(headers))
		for i, h := range headers {
			if i < len(row) {
				params[h] = typed(row[i])
			}
		}
		result, err := e.expr.Evaluate(params)
		if err != nil {
			return false
		}
		b, ok := result.(bool)
		if !ok || !b {
			return false
		}
	}
	return true
}

func (e *Evaluator) matchAny(texts []string) bool {
	for _, t := range texts {
		if e.re != nil {
			if e.re.MatchString(t) {
				return true
			}
			continue
		}
		if strings.Contains(e.fold.String(t), e.needle) {
			return true
		}
	}
	return false
}

// typed exposes numeric cells as numbers so expressions like `id > 3` work.
func typed(v string) any {
	if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
		return f
	}
	if strings.EqualFold(v, "null") {
		return nil
	}
	return v
}

func headerIndex(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	for i, h := range headers {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}
