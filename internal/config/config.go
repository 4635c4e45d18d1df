package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

type Mode string

const (
	ModeTUI   Mode = "tui"
	ModePrint Mode = "print"
	ModeREPL  Mode = "repl"
)

// CommandCapture stores input in the handoff store instead of opening a view.
const CommandCapture = "capture"

type Config struct {
	Command          string
	FilePath         string
	UseStdin         bool
	UseClipboard     bool
	Follow           bool
	Mode             Mode
	Table            string
	Theme            Theme
	Offline          bool
	OpenAIModel      string
	OpenAIBase       string
	OpenAITimeoutSec int
	ExportFormat     string
	ExportOut        string
	Engine           string
	DSN              string
	Profile          string
	Search           string
	Scope            string
	Expr             string
	Sort             string // header, optionally ":desc"
	Columns          string // comma separated headers in display order
	NoColor          bool
	ShowVersion      bool

	// Internal
	IsPipedStdin bool
}

func Load() (*Config, error) {
	piped := false
	if fi, err := os.Stdin.Stat(); err == nil {
		piped = (fi.Mode() & os.ModeCharDevice) == 0
	}
	return Parse(os.Args[1:], piped)
}

// Parse reads flags from args. A leading "capture" selects the capture
// command; its flags follow it.
func Parse(args []string, pipedStdin bool) (*Config, error) {
	cfg := &Config{IsPipedStdin: pipedStdin}
	if len(args) > 0 && args[0] == CommandCapture {
		cfg.Command = CommandCapture
		args = args[1:]
	}

	fs := flag.NewFlagSet("tablesense", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.FilePath, "file", "", "path to a text file holding a table or console transcript")
	fs.BoolVar(&cfg.Follow, "follow", false, "follow file (tail -f) and re-parse as it grows")
	fs.BoolVar(&cfg.UseStdin, "stdin", false, "read from stdin (default: auto if piped)")
	fs.BoolVar(&cfg.UseClipboard, "clipboard", false, "read input from the system clipboard")
	mode := string(ModeTUI)
	fs.StringVar(&mode, "mode", string(ModeTUI), "mode: tui|print|repl")
	fs.StringVar(&cfg.Table, "table", "", "table name for generated SQL (default: from the extracted query)")
	theme := string(ThemeDark)
	fs.StringVar(&theme, "theme", string(ThemeDark), "theme: dark|light")
	fs.BoolVar(&cfg.Offline, "offline", false, "disable OpenAI and work offline only")
	fs.StringVar(&cfg.OpenAIModel, "openai-model", getenvDefault("TABLESENSE_OPENAI_MODEL", "gpt-5-mini"), "OpenAI model override")
	fs.StringVar(&cfg.OpenAIBase, "openai-base-url", getenvDefault("TABLESENSE_OPENAI_BASE_URL", ""), "OpenAI base URL override")
	fs.IntVar(&cfg.OpenAITimeoutSec, "openai-timeout-sec", getenvDefaultInt("TABLESENSE_OPENAI_TIMEOUT_SEC", 120), "OpenAI request timeout in seconds")
	fs.StringVar(&cfg.ExportFormat, "export", "", "export the current view: csv|json|md|sql")
	fs.StringVar(&cfg.ExportOut, "out", "", "output path for export")
	fs.StringVar(&cfg.Engine, "engine", getenvDefault("TABLESENSE_ENGINE", "sqlite"), "dry-run engine: sqlite|mysql|postgres")
	fs.StringVar(&cfg.DSN, "dsn", getenvDefault("TABLESENSE_DSN", ""), "dry-run DSN (empty: in-memory sqlite copy of the view)")
	fs.StringVar(&cfg.Profile, "profile", getenvDefault("TABLESENSE_PROFILE", "default"), "handoff profile used by capture")
	fs.StringVar(&cfg.Search, "search", "", "initial row filter (/regex/ supported)")
	fs.StringVar(&cfg.Scope, "scope", "", "limit the search to one header")
	fs.StringVar(&cfg.Expr, "where", "", "initial expression filter, e.g. 'id > 3'")
	fs.StringVar(&cfg.Sort, "sort", "", "initial sort: header[:desc]")
	fs.StringVar(&cfg.Columns, "columns", "", "visible headers in display order, comma separated")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "disable SQL highlighting in print and repl modes")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Theme = Theme(theme)
	cfg.Mode = Mode(mode)

	switch cfg.Mode {
	case ModeTUI, ModePrint, ModeREPL:
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	if cfg.Theme != ThemeDark && cfg.Theme != ThemeLight {
		return nil, fmt.Errorf("unknown theme %q", theme)
	}
	if cfg.ExportFormat != "" && cfg.ExportOut == "" {
		return nil, errors.New("--export requires --out path")
	}
	if cfg.Follow && cfg.FilePath == "" {
		return nil, errors.New("--follow requires --file")
	}

	// Determine input source defaults
	if cfg.UseStdin || (cfg.IsPipedStdin && cfg.FilePath == "" && !cfg.UseClipboard) {
		cfg.UseStdin = true
	}

	return cfg, nil
}

// HasInput reports whether an explicit input source was chosen.
func (c *Config) HasInput() bool { return c.UseStdin || c.UseClipboard || c.FilePath != "" }

// SortSpec splits the -sort value into header and direction.
func (c *Config) SortSpec() (string, bool) {
	h, dir, _ := strings.Cut(c.Sort, ":")
	return strings.TrimSpace(h), strings.EqualFold(strings.TrimSpace(dir), "desc")
}

// ColumnList splits the -columns value.
func (c *Config) ColumnList() []string {
	var out []string
	for _, h := range strings.Split(c.Columns, ",") {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}

func getenvDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvDefaultInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func (c *Config) OpenAIKey() string { return os.Getenv("OPENAI_API_KEY") }

func (c *Config) String() string {
	return fmt.Sprintf("mode=%s file=%s stdin=%v clipboard=%v follow=%v theme=%s offline=%v engine=%s", c.Mode, c.FilePath, c.UseStdin, c.UseClipboard, c.Follow, c.Theme, c.Offline, c.Engine)
}
