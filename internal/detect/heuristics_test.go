package detect

import (
	"os"
	"path/filepath"
	"testing"
)

func readSample(t *testing.T, name string) []string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return Sample(string(b), 50)
}

func TestHeuristicsMarkdown(t *testing.T) {
	g := Heuristics(readSample(t, "markdown.md"))
	if g.Kind != KindMarkdown {
		t.Fatalf("expected markdown, got %s", g.Kind)
	}
}

func TestHeuristicsMySQL(t *testing.T) {
	g := Heuristics(readSample(t, "mysql_session.txt"))
	if g.Kind != KindMySQL || !g.HasSQL {
		t.Fatalf("expected mysql with sql, got %+v", g)
	}
}

func TestHeuristicsBareSQL(t *testing.T) {
	g := Heuristics([]string{"SELECT id", "FROM users", "WHERE id = 1;"})
	if g.Kind != KindSQL || g.Confidence <= 0 {
		t.Fatalf("expected sql, got %+v", g)
	}
}

func TestHeuristicsPipe(t *testing.T) {
	g := Heuristics([]string{"a | b", "1 | 2", "3 | 4"})
	if g.Kind != KindPipe {
		t.Fatalf("expected pipe, got %s", g.Kind)
	}
	if g := Heuristics([]string{"just prose"}); g.Kind != KindUnknown {
		t.Fatalf("expected unknown, got %s", g.Kind)
	}
}
