package config

import (
	"reflect"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != ModeTUI || cfg.Theme != ThemeDark || cfg.HasInput() || cfg.Command != "" {
		t.Fatalf("unexpected defaults: %s", cfg)
	}
}

func TestPipedStdinIsInput(t *testing.T) {
	cfg, err := Parse([]string{"-mode", "print"}, true)
	if err != nil || !cfg.UseStdin {
		t.Fatalf("piped stdin should be used: %v", err)
	}
	cfg, _ = Parse([]string{"-clipboard"}, true)
	if cfg.UseStdin {
		t.Fatalf("clipboard wins over piped stdin")
	}
}

func TestCaptureCommand(t *testing.T) {
	cfg, err := Parse([]string{"capture", "-profile", "work", "-file", "x.txt"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Command != CommandCapture || cfg.Profile != "work" || cfg.FilePath != "x.txt" {
		t.Fatalf("got %+v", cfg)
	}
}

func TestValidation(t *testing.T) {
	bad := [][]string{
		{"-mode", "gui"},
		{"-theme", "neon"},
		{"-export", "csv"},
		{"-follow"},
	}
	for _, args := range bad {
		if _, err := Parse(args, false); err == nil {
			t.Fatalf("%v should fail", args)
		}
	}
}

func TestSortAndColumns(t *testing.T) {
	cfg, err := Parse([]string{"-sort", "name:DESC", "-columns", " name, id ,,"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if h, desc := cfg.SortSpec(); h != "name" || !desc {
		t.Fatalf("sort %q %v", h, desc)
	}
	if got := cfg.ColumnList(); !reflect.DeepEqual(got, []string{"name", "id"}) {
		t.Fatalf("columns %v", got)
	}
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("TABLESENSE_ENGINE", "postgres")
	t.Setenv("TABLESENSE_OPENAI_TIMEOUT_SEC", "7")
	cfg, err := Parse(nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine != "postgres" || cfg.OpenAITimeoutSec != 7 {
		t.Fatalf("env not applied: %s %d", cfg.Engine, cfg.OpenAITimeoutSec)
	}
}
