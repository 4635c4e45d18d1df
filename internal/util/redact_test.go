package util

import "testing"

func TestRedactPII(t *testing.T) {
	got := RedactPII("mail bob@example.com token=abcdefgh1234")
	if got != "mail [redacted-email] token=[redacted]" {
		t.Fatalf("got %q", got)
	}
}

func TestRedactSQL(t *testing.T) {
	got := RedactSQL(`SELECT * FROM users WHERE name = 'O''Brien' AND phone = 5551234567 AND id = 7`)
	want := `SELECT * FROM users WHERE name = '?' AND phone = 0 AND id = 7`
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
