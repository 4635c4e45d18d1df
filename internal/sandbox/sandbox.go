// Package sandbox dry-runs generated statements inside a transaction that
// is always rolled back.
package sandbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"tablesense/internal/render"
	"tablesense/internal/util/logx"
	"tablesense/internal/view"
)

var driverName = map[string]string{
	"postgres": "pgx",
	"mysql":    "mysql",
	"sqlite":   "sqlite",
}

const maxRows = 1000

var reReturnsRows = regexp.MustCompile(`(?i)^\s*(?:SELECT|WITH|SHOW|EXPLAIN|DESCRIBE|VALUES)\b`)

type Options struct {
	Engine string // sqlite, mysql or postgres
	DSN    string // empty with sqlite seeds an in-memory table from the view
}

// Engines lists the supported engine names.
func Engines() []string { return []string{"sqlite", "mysql", "postgres"} }

type Report struct {
	Engine    string
	Statement string
	Seeded    bool // ran against an in-memory copy of the view
	Columns   []string
	Rows      [][]string
	Affected  int64
	Truncated bool
}

func (r Report) String() string {
	var b strings.Builder
	if r.Columns != nil {
		b.WriteString(render.Table(r.Columns, r.Rows, render.Options{Footer: true, MaxCellWidth: 60}))
		if r.Truncated {
			fmt.Fprintf(&b, "(truncated at %d rows)\n", maxRows)
		}
	} else {
		fmt.Fprintf(&b, "%d rows affected\n", r.Affected)
	}
	where := r.Engine
	if r.Seeded {
		where += " in-memory copy"
	}
	fmt.Fprintf(&b, "rolled back (%s)\n", where)
	return b.String()
}

// DryRun executes stmt and rolls it back. With sqlite and no DSN, the
// visible columns and rows of p are loaded into table first.
func DryRun(ctx context.Context, opt Options, p view.Projection, table, stmt string) (Report, error) {
	engine := strings.ToLower(strings.TrimSpace(opt.Engine))
	if engine == "" {
		engine = "sqlite"
	}
	driver, ok := driverName[engine]
	if !ok {
		return Report{}, fmt.Errorf("no driver for engine %q", engine)
	}
	stmt = strings.TrimRight(strings.TrimSpace(stmt), "; \n")
	if stmt == "" {
		return Report{}, errors.New("nothing to run")
	}
	rep := Report{Engine: engine, Statement: stmt}
	dsn := opt.DSN
	if dsn == "" {
		if engine != "sqlite" {
			return rep, fmt.Errorf("engine %s needs a DSN", engine)
		}
		dsn, rep.Seeded = ":memory:", true
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return rep, fmt.Errorf("open: %w", err)
	}
	defer db.Close()
	// an in-memory database lives in a single connection
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		return rep, fmt.Errorf("ping: %w", err)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return rep, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if rep.Seeded {
		if strings.TrimSpace(table) == "" {
			return rep, errors.New("no table name to seed")
		}
		if err := seed(ctx, tx, table, p); err != nil {
			return rep, fmt.Errorf("seed: %w", err)
		}
	}

	if reReturnsRows.MatchString(stmt) {
		rows, err := tx.QueryContext(ctx, stmt)
		if err != nil {
			return rep, fmt.Errorf("query: %w", err)
		}
		defer func() { _ = rows.Close() }()
		if err := collect(rows, &rep); err != nil {
			return rep, err
		}
	} else {
		res, err := tx.ExecContext(ctx, stmt)
		if err != nil {
			return rep, fmt.Errorf("exec: %w", err)
		}
		if rep.Affected, err = res.RowsAffected(); err != nil {
			return rep, fmt.Errorf("rows affected: %w", err)
		}
	}
	logx.Infof("sandbox: %s dry run ok (%d rows, %d affected)", engine, len(rep.Rows), rep.Affected)
	return rep, nil
}

// seed creates table with one column per visible header and loads the
// visible rows. Columns holding only numbers get NUMERIC affinity, the rest
// TEXT. Cells reading NULL become SQL NULL.
func seed(ctx context.Context, tx *sql.Tx, table string, p view.Projection) error {
	if len(p.Headers) == 0 {
		return errors.New("no visible columns")
	}
	cols := make([]string, len(p.Headers))
	marks := make([]string, len(p.Headers))
	for i, h := range p.Headers {
		typ := "TEXT"
		if numericColumn(p.Cells, i) {
			typ = "NUMERIC"
		}
		cols[i] = doubleQuote(h) + " " + typ
		marks[i] = "?"
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", doubleQuote(table), strings.Join(cols, ", "))
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return err
	}
	ins, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", doubleQuote(table), strings.Join(marks, ", ")))
	if err != nil {
		return err
	}
	defer ins.Close()
	for _, r := range p.Cells {
		args := make([]any, len(r))
		for i, c := range r {
			if strings.EqualFold(strings.TrimSpace(c), "NULL") {
				args[i] = nil
			} else {
				args[i] = c
			}
		}
		if _, err := ins.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	return nil
}

func collect(rows *sql.Rows, rep *Report) error {
	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("columns: %w", err)
	}
	rep.Columns = columns
	rep.Rows = [][]string{}
	for rows.Next() {
		if len(rep.Rows) >= maxRows {
			rep.Truncated = true
			break
		}
		vals := make([]*sql.NullString, len(columns))
		ptrs := make([]any, len(columns))
		for i := range vals {
			vals[i] = &sql.NullString{}
			ptrs[i] = vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		row := make([]string, len(columns))
		for i, v := range vals {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		rep.Rows = append(rep.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows: %w", err)
	}
	return nil
}

func numericColumn(rows [][]string, i int) bool {
	seen := false
	for _, r := range rows {
		c := strings.TrimSpace(r[i])
		if strings.EqualFold(c, "NULL") {
			continue
		}
		if _, err := strconv.ParseFloat(c, 64); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

// doubleQuote quotes an identifier, doubling embedded quotes.
func doubleQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
