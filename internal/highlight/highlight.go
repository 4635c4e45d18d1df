// Package highlight colours SQL for terminal output.
package highlight

import (
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/term"

	"tablesense/internal/util/logx"
)

const (
	darkStyleName  = "monokai"
	lightStyleName = "github"
)

type Options struct {
	Enabled   bool
	Style     string // chroma style name; "" picks one for the theme
	Theme     string // dark or light
	Formatter string // chroma formatter; "" means terminal256
}

// StyleFor maps a UI theme to a chroma style name.
func StyleFor(theme string) string {
	if strings.EqualFold(theme, "light") {
		return lightStyleName
	}
	return darkStyleName
}

// chromaStyle resolves a style name to a chroma style, falling back to the
// theme default.
func chromaStyle(name, theme string) *chroma.Style {
	if name == "" {
		name = StyleFor(theme)
	}
	return styles.Get(name)
}

// SQL returns src with terminal colour escapes, or src unchanged when
// highlighting is disabled or fails.
func SQL(src string, opt Options) string {
	if !opt.Enabled || strings.TrimSpace(src) == "" {
		return src
	}
	lexer := lexers.Get("mysql")
	if lexer == nil {
		lexer = lexers.Get("sql")
	}
	if lexer == nil {
		return src
	}
	lexer = chroma.Coalesce(lexer)
	formatter := formatters.TTY256
	if opt.Formatter != "" {
		formatter = formatters.Get(opt.Formatter)
	}
	it, err := lexer.Tokenise(nil, src)
	if err != nil {
		logx.Debugf("highlight: tokenise: %v", err)
		return src
	}
	var b strings.Builder
	if err := formatter.Format(&b, chromaStyle(opt.Style, opt.Theme), it); err != nil {
		logx.Debugf("highlight: format: %v", err)
		return src
	}
	out := b.String()
	if !strings.HasSuffix(src, "\n") {
		out = strings.TrimSuffix(out, "\n")
	}
	return out
}

// Terminal reports whether f is a terminal that should get colour. NO_COLOR
// always disables it.
func Terminal(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
