package version

import "testing"

func TestString(t *testing.T) {
	v, c, d := Version, Commit, Date
	defer func() { Version, Commit, Date = v, c, d }()
	Version, Commit, Date = "1.2.0", "abc123", "2024-05-01"
	if got := String(); got != "1.2.0 (abc123) 2024-05-01" {
		t.Fatalf("got %q", got)
	}
	Commit, Date = "", ""
	if got := Banner(); got != "tablesense 1.2.0" {
		t.Fatalf("got %q", got)
	}
}
