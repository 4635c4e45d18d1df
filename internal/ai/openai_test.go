package ai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestExplainDisabled(t *testing.T) {
	var c *OpenAIClient
	if _, err := c.Explain(context.Background(), "SELECT 1"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("got %v", err)
	}
	if _, err := NewOpenAIClient("", "", "m", time.Second).Explain(context.Background(), "SELECT 1"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("got %v", err)
	}
}

func TestExplainRedactsLiterals(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  Reads users by email.  "},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	c := NewOpenAIClient("test-key", srv.URL+"/v1", "test-model", 5*time.Second)
	got, err := c.Explain(context.Background(), "mysql> SELECT id FROM users WHERE email = 'bob@example.com';")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if got != "Reads users by email." {
		t.Fatalf("got %q", got)
	}
	if strings.Contains(body, "bob@example.com") {
		t.Fatalf("literal leaked: %s", body)
	}
	if !strings.Contains(body, "Tables: users") {
		t.Fatalf("prompt missing tables: %s", body)
	}
}

func TestExplainEmptyStatement(t *testing.T) {
	c := NewOpenAIClient("k", "http://127.0.0.1:0", "m", time.Second)
	if _, err := c.Explain(context.Background(), "  -- nothing\n"); err == nil {
		t.Fatalf("expected error")
	}
}
