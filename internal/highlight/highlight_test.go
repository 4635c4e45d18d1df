package highlight

import (
	"strings"
	"testing"

	"tablesense/internal/clipboard"
)

func TestDisabledIsIdentity(t *testing.T) {
	src := "SELECT id FROM users;"
	if got := SQL(src, Options{}); got != src {
		t.Fatalf("got %q", got)
	}
}

func TestHighlightKeepsText(t *testing.T) {
	src := "SELECT id, 'x' FROM users\nWHERE id IN (1, 2);"
	got := SQL(src, Options{Enabled: true})
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected escapes in %q", got)
	}
	if plain := strings.TrimRight(clipboard.StripANSI(got), "\n"); plain != src {
		t.Fatalf("text changed: %q", plain)
	}
}

func TestStyleFor(t *testing.T) {
	if StyleFor("LIGHT") != lightStyleName || StyleFor("") != darkStyleName {
		t.Fatalf("theme mapping wrong")
	}
	if chromaStyle("no-such-style", "dark") == nil {
		t.Fatalf("style lookup must fall back")
	}
}
