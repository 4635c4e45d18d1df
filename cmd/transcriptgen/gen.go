package main

import (
	"fmt"
	"math/rand"
	"strings"

	"tablesense/internal/export"
	"tablesense/internal/render"
	"tablesense/internal/view"
)

const (
	formatMySQL    = "mysql"
	formatMariaDB  = "mariadb"
	formatMarkdown = "markdown"
)

func normalizeFormat(f string) string {
	f = strings.ToLower(strings.TrimSpace(f))
	switch f {
	case "md":
		return formatMarkdown
	case "maria":
		return formatMariaDB
	default:
		return f
	}
}

func isSupported(f string) bool {
	switch f {
	case formatMySQL, formatMariaDB, formatMarkdown:
		return true
	default:
		return false
	}
}

// generator produces one complete session block per call.
type generator struct {
	format  string
	rnd     *rand.Rand
	maxRows int
	nextID  int
}

func newGenerator(format string, rnd *rand.Rand, maxRows int) *generator {
	if maxRows <= 0 {
		maxRows = 1
	}
	return &generator{format: format, rnd: rnd, maxRows: maxRows, nextID: 1}
}

type query struct {
	sql     []string // continuation lines, without prompts
	headers []string
	rows    [][]string
}

func (g *generator) Next() string {
	q := g.query()
	switch g.format {
	case formatMarkdown:
		return g.markdown(q)
	default:
		return g.console(q)
	}
}

func (g *generator) console(q query) string {
	prompt, cont := "mysql> ", "    -> "
	if g.format == formatMariaDB {
		prompt, cont = "MariaDB [shop]> ", "    -> "
	}
	var b strings.Builder
	for i, l := range q.sql {
		if i == 0 {
			b.WriteString(prompt)
		} else {
			b.WriteString(cont)
		}
		b.WriteString(l)
		b.WriteByte('\n')
	}
	if len(q.rows) == 0 {
		b.WriteString("Empty set (0.00 sec)\n\n")
		return b.String()
	}
	b.WriteString(render.Table(q.headers, q.rows, render.Options{}))
	noun := "rows"
	if len(q.rows) == 1 {
		noun = "row"
	}
	fmt.Fprintf(&b, "%d %s in set (0.0%d sec)\n\n", len(q.rows), noun, g.rnd.Intn(10))
	return b.String()
}

func (g *generator) markdown(q query) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Result of `%s`:\n\n", strings.Join(q.sql, " "))
	p := view.Projection{Headers: q.headers, Cells: q.rows}
	if len(q.rows) == 0 || export.ToMarkdown(&b, p) != nil {
		b.WriteString("(no rows)\n")
	}
	b.WriteByte('\n')
	return b.String()
}

func (g *generator) query() query {
	n := g.rnd.Intn(g.maxRows + 1)
	switch g.rnd.Intn(3) {
	case 0:
		q := query{
			sql:     []string{"SELECT id, name, email", "FROM users", fmt.Sprintf("WHERE id >= %d;", g.nextID)},
			headers: []string{"id", "name", "email"},
		}
		for i := 0; i < n; i++ {
			name := randomName(g.rnd)
			email := "NULL"
			if g.rnd.Intn(4) > 0 {
				email = strings.ToLower(name) + "@example.com"
			}
			q.rows = append(q.rows, []string{fmt.Sprint(g.nextID), name, email})
			g.nextID++
		}
		return q
	case 1:
		q := query{
			sql:     []string{"SELECT o.id, u.name AS customer, o.total", "FROM orders o JOIN users u ON u.id = o.user_id", "LIMIT " + fmt.Sprint(g.maxRows) + ";"},
			headers: []string{"id", "customer", "total"},
		}
		for i := 0; i < n; i++ {
			q.rows = append(q.rows, []string{fmt.Sprint(100 + g.rnd.Intn(900)), randomName(g.rnd), fmt.Sprintf("%.2f", 5+g.rnd.Float64()*200)})
		}
		return q
	default:
		q := query{
			sql:     []string{"SELECT id, kind, payload FROM events ORDER BY id DESC;"},
			headers: []string{"id", "kind", "payload"},
		}
		for i := 0; i < n; i++ {
			kind := randomKind(g.rnd)
			payload := fmt.Sprintf(`{"user": %d, "kind": %q, "tags": ["%s"]}`, 1+g.rnd.Intn(50), kind, randomKind(g.rnd))
			q.rows = append(q.rows, []string{fmt.Sprint(1000 + g.rnd.Intn(9000)), kind, payload})
		}
		return q
	}
}

func randomName(r *rand.Rand) string {
	names := []string{"Alice", "Bob", "Carol", "Dave", "Erin", "Frank", "Grace", "Heidi", "Ivan", "Judy"}
	return names[r.Intn(len(names))]
}

func randomKind(r *rand.Rand) string {
	kinds := []string{"login", "logout", "purchase", "refund", "signup"}
	return kinds[r.Intn(len(kinds))]
}
