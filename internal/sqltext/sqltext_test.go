package sqltext

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func loadFixture(t *testing.T, name string, v any) {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	if err := yaml.Unmarshal(b, v); err != nil {
		t.Fatalf("parse %s: %v", name, err)
	}
}

type extractCase struct {
	Name  string `yaml:"name"`
	Input string `yaml:"input"`
	Want  string `yaml:"want"`
}

type formatCase struct {
	Name       string `yaml:"name"`
	Input      string `yaml:"input"`
	Compressed string `yaml:"compressed"`
	Formatted  string `yaml:"formatted"`
}

func TestExtractFixtures(t *testing.T) {
	var f struct {
		Cases []extractCase `yaml:"cases"`
	}
	loadFixture(t, "extract.yml", &f)
	for _, tc := range f.Cases {
		t.Run(tc.Name, func(t *testing.T) {
			if got := Extract(tc.Input); got != tc.Want {
				t.Fatalf("got %q want %q", got, tc.Want)
			}
		})
	}
}

func TestFormatFixtures(t *testing.T) {
	var f struct {
		Cases []formatCase `yaml:"cases"`
	}
	loadFixture(t, "format.yml", &f)
	for _, tc := range f.Cases {
		t.Run(tc.Name, func(t *testing.T) {
			if got := Compress(tc.Input); got != tc.Compressed {
				t.Fatalf("compress: got %q want %q", got, tc.Compressed)
			}
			if got := Format(tc.Input); got != tc.Formatted {
				t.Fatalf("format: got\n%s\nwant\n%s", got, tc.Formatted)
			}
		})
	}
}

func TestCompressIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"SELECT  1 ;",
		"-- -- x",
		"a /* b",
		"mysql> mysql> ;;",
		"'unterminated -- x",
		"SELECT 1 /* a */ -- b\n  -> FROM t ; ;",
		"  ->  -> SELECT\t*\r\nFROM t",
	}
	for _, in := range inputs {
		once := Compress(in)
		if twice := Compress(once); twice != once {
			t.Fatalf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestFormatNeverBreaksOnAs(t *testing.T) {
	got := Format("SELECT COUNT(*) AS total FROM t")
	want := "SELECT\n  COUNT(*) AS total\nFROM t;"
	if got != want {
		t.Fatalf("got %q", got)
	}
}

func TestStripPrompts(t *testing.T) {
	got := StripPrompts("mysql> SELECT 1\n    -> , 2\n    `> x")
	if got != "SELECT 1\n, 2\nx" {
		t.Fatalf("got %q", got)
	}
}

func TestLinePredicates(t *testing.T) {
	checks := []struct {
		name string
		fn   func(string) bool
		in   string
		want bool
	}{
		{"prompt", IsPromptLine, "mysql> SELECT 1;", true},
		{"mariadb prompt", IsPromptLine, "MariaDB [(none)]> ", true},
		{"not prompt", IsPromptLine, "mysqldump --all", false},
		{"continuation", IsContinuationLine, "    -> FROM t", true},
		{"block comment continuation", IsContinuationLine, "/*> x */", true},
		{"rows banner", IsResultBanner, "2 rows in set (0.00 sec)", true},
		{"empty banner", IsResultBanner, "Empty set (0.00 sec)", true},
		{"query ok", IsResultBanner, "Query OK, 1 row affected (0.00 sec)", true},
		{"status", IsStatusLine, "Database changed", true},
		{"bye", IsStatusLine, "Bye", true},
		{"table row", IsTableLine, "|  1 | Alice |", true},
		{"border", IsTableLine, "+----+", true},
		{"admin show tables", IsAdminCommand, "show tables;", true},
		{"admin client", IsAdminCommand, `\G`, true},
		{"show create is a query", IsAdminCommand, "SHOW CREATE TABLE users", false},
		{"explain", IsQueryStart, "explain select 1", true},
		{"word prefix", IsQueryStart, "selection of rows", false},
		{"vertical row", IsVerticalRow, "*************************** 12. row ***************************", true},
		{"vertical field", IsVerticalRow, "id: 1", false},
	}
	for _, c := range checks {
		if got := c.fn(c.in); got != c.want {
			t.Fatalf("%s: %q -> %v", c.name, c.in, got)
		}
	}
}

func TestTableNames(t *testing.T) {
	cases := []struct {
		sql  string
		want []string
	}{
		{"SELECT a.x, b.y FROM a JOIN b ON a.id=b.id", []string{"a", "b"}},
		{"SELECT * FROM users u, orders o WHERE u.id = o.user_id", []string{"users", "orders"}},
		{"INSERT INTO `shop`.`users` (id) VALUES (1)", []string{"shop.users"}},
		{"UPDATE users SET name='a' WHERE id=1", []string{"users"}},
		{"DELETE FROM logs WHERE msg = 'select x from secret';", []string{"logs"}},
		{"SELECT 1", nil},
		{"SELECT id, EXTRACT(YEAR FROM created) AS y FROM orders", []string{"orders"}},
		{"SELECT TRIM(BOTH ' ' FROM name) AS n FROM users", []string{"users"}},
		{"SELECT (SELECT MAX(id) FROM t2) m FROM t1 WHERE x = 1", []string{"t1"}},
		{"SELECT * FROM a WHERE id IN (SELECT a_id FROM b JOIN c ON c.id = b.cid)", []string{"a"}},
	}
	for _, c := range cases {
		if got := TableNames(c.sql); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("%s: got %q want %q", c.sql, got, c.want)
		}
	}
}

func TestLooksLikeStatement(t *testing.T) {
	for line, want := range map[string]bool{
		"Show me the data":    false,
		"Select the best one": false,
		"SHOW CREATE TABLE t": true,
		"select * from t":     true,
		"delete from t":       true,
		"update t set a = 1":  true,
		"select id, name":     true,
		"Explain this to me":  false,
		"describe users;":     true,
	} {
		if got := looksLikeStatement(line); got != want {
			t.Fatalf("%q: got %v", line, got)
		}
	}
}

func TestIsJoin(t *testing.T) {
	if !IsJoin("select * from a left join b using (id)") {
		t.Fatalf("join not detected")
	}
	if IsJoin("SELECT * FROM a WHERE note = 'join us'") {
		t.Fatalf("literal must not count as join")
	}
}

func TestFromClause(t *testing.T) {
	cases := map[string]string{
		"SELECT a.x, b.y FROM a JOIN b ON a.id=b.id":            "a JOIN b ON a.id=b.id",
		"SELECT * FROM users u WHERE id = 1 ORDER BY id;":       "users u",
		"SELECT (SELECT MAX(id) FROM t2) m FROM t1 WHERE x = 1": "t1",
		"SELECT * FROM a, b LIMIT 3":                            "a, b",
		"SELECT * FROM t WHERE s = 'x where y'":                 "t",
		"SELECT 1":                                              "",
	}
	for sql, want := range cases {
		if got := FromClause(sql); got != want {
			t.Fatalf("%s: got %q want %q", sql, got, want)
		}
	}
}

func TestColumnTables(t *testing.T) {
	got := ColumnTables("SELECT a.x, b.y AS yy, z, COUNT(*) AS n, COUNT(*), `c`.`w` FROM a JOIN b ON a.id=b.id JOIN c ON c.id=a.id")
	want := map[string]string{
		"x":        "a",
		"yy":       "b",
		"z":        Unknown,
		"n":        Unknown,
		"COUNT(*)": Unknown,
		"w":        "c",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestColumnTablesImplicitAlias(t *testing.T) {
	got := ColumnTables("SELECT DISTINCT u.name who, COUNT(o.id) total FROM users u JOIN orders o ON o.uid = u.id")
	if got["who"] != "u" || got["total"] != Unknown {
		t.Fatalf("got %v", got)
	}
}

func TestTableAliases(t *testing.T) {
	got := TableAliases("SELECT u.id FROM users AS u LEFT JOIN orders o ON o.uid=u.id JOIN items ON items.oid = o.id")
	want := map[string]string{"users": "users", "u": "users", "orders": "orders", "o": "orders", "items": "items"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestSelectColumns(t *testing.T) {
	cols := SelectColumns("SELECT u.name AS who, id, COUNT(*) n FROM users u")
	want := []Column{
		{Key: "who", Expr: "u.name", Table: "u", Name: "name"},
		{Key: "id", Expr: "id", Table: Unknown},
		{Key: "n", Expr: "COUNT(*)", Table: Unknown},
	}
	if !reflect.DeepEqual(cols, want) {
		t.Fatalf("got %+v", cols)
	}
	if !cols[0].Qualified() || cols[1].Qualified() {
		t.Fatalf("qualified flags wrong")
	}
}
