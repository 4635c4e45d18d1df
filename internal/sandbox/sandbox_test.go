package sandbox

import (
	"context"
	"strings"
	"testing"

	"tablesense/internal/model"
	"tablesense/internal/view"
)

func users() view.Projection {
	tbl := model.ParsedTable{
		Headers: []string{"id", "name"},
		Rows:    [][]string{{"1", "Alice"}, {"2", "Bob"}, {"3", "NULL"}},
	}
	return view.New(2).Project(tbl)
}

func TestDryRunSelectInMemory(t *testing.T) {
	rep, err := DryRun(context.Background(), Options{}, users(), "users", "SELECT id, name FROM users WHERE id IN (1, 3);")
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !rep.Seeded || len(rep.Rows) != 2 || rep.Rows[1][1] != "NULL" {
		t.Fatalf("unexpected report %+v", rep)
	}
	if !strings.Contains(rep.String(), "(2 rows)") || !strings.Contains(rep.String(), "rolled back (sqlite in-memory copy)") {
		t.Fatalf("report text %q", rep.String())
	}
}

func TestDryRunDeleteAndInsert(t *testing.T) {
	rep, err := DryRun(context.Background(), Options{Engine: "sqlite"}, users(), "users", "DELETE FROM users WHERE id IN (1, 2);")
	if err != nil || rep.Affected != 2 {
		t.Fatalf("delete: %+v %v", rep, err)
	}
	rep, err = DryRun(context.Background(), Options{}, users(), "users", "INSERT INTO users (id, name) VALUES\n  (4, 'Dan'),\n  (5, NULL);")
	if err != nil || rep.Affected != 2 {
		t.Fatalf("insert: %+v %v", rep, err)
	}
}

func TestDryRunErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := DryRun(ctx, Options{Engine: "oracle"}, users(), "users", "SELECT 1"); err == nil {
		t.Fatalf("unknown engine must error")
	}
	if _, err := DryRun(ctx, Options{Engine: "postgres"}, users(), "users", "SELECT 1"); err == nil {
		t.Fatalf("postgres without DSN must error")
	}
	if _, err := DryRun(ctx, Options{}, users(), "users", "SELECT nope FROM users"); err == nil {
		t.Fatalf("bad column must error")
	}
	if _, err := DryRun(ctx, Options{}, users(), "", "SELECT 1"); err == nil {
		t.Fatalf("seeding without table must error")
	}
}
