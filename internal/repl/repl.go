// Package repl is the line-oriented front end: pasted text accumulates in a
// buffer and backslash commands parse it and work on the result.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"

	"tablesense/internal/ai"
	"tablesense/internal/highlight"
	"tablesense/internal/render"
	"tablesense/internal/sandbox"
	"tablesense/internal/session"
	"tablesense/internal/util/logx"
)

const (
	prompt     = "tablesense> "
	contPrompt = "         -> "
)

// ErrQuit is returned by Execute for \q.
var ErrQuit = errors.New("quit")

type Options struct {
	Sandbox   sandbox.Options
	AI        *ai.OpenAIClient
	Color     bool
	Theme     string
	CellWidth int
}

// Shell holds the paste buffer and the session the commands act on.
type Shell struct {
	sess     *session.Session
	opt      Options
	buf      []string
	commands []commandEntry
	out      io.Writer
	ctx      context.Context
}

func New(sess *session.Session, opt Options) *Shell {
	if opt.CellWidth == 0 {
		opt.CellWidth = 40
	}
	s := &Shell{sess: sess, opt: opt, out: os.Stdout, ctx: context.Background()}
	s.initCommands()
	return s
}

// SetOutput redirects command output.
func (s *Shell) SetOutput(w io.Writer) { s.out = w }

// Buffered reports how many lines are waiting to be parsed.
func (s *Shell) Buffered() int { return len(s.buf) }

// Execute handles one input line. Lines that are not commands are added to
// the buffer as they are.
func (s *Shell) Execute(line string) error {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, `\`) {
		s.buf = append(s.buf, line)
		return nil
	}
	lower := strings.ToLower(trimmed)
	for _, cmd := range s.commands {
		if strings.HasSuffix(cmd.prefix, " ") {
			if strings.HasPrefix(lower, cmd.prefix) {
				return cmd.handler(strings.TrimSpace(trimmed[len(cmd.prefix):]))
			}
		} else if lower == cmd.prefix {
			return cmd.handler("")
		}
	}
	word := strings.Fields(trimmed)[0]
	return fmt.Errorf(`unknown command: %s (type \help for commands)`, word)
}

// Run reads lines until \q, EOF or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	s.ctx = ctx
	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyPath(),
		HistoryLimit:    500,
		AutoComplete:    &completer{sh: s},
		InterruptPrompt: "^C",
		EOFPrompt:       `\q`,
	})
	if err != nil {
		return fmt.Errorf("readline init: %w", err)
	}
	defer func() { _ = rl.Close() }()

	fmt.Fprintln(s.out, `Paste a table or console transcript, then \p to parse. \help lists commands.`)
	for ctx.Err() == nil {
		if len(s.buf) > 0 {
			rl.SetPrompt(contPrompt)
		} else {
			rl.SetPrompt(prompt)
		}
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			s.buf = nil
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if err := s.Execute(line); err != nil {
			if errors.Is(err, ErrQuit) {
				break
			}
			logx.Warnf("repl: %v", err)
			fmt.Fprintf(s.out, "  Error: %v\n", err)
		}
	}
	return nil
}

func (s *Shell) printf(format string, a ...any) { fmt.Fprintf(s.out, format, a...) }

func (s *Shell) printSQL(sql string) {
	fmt.Fprintln(s.out, highlight.SQL(sql, highlight.Options{Enabled: s.opt.Color, Theme: s.opt.Theme}))
}

func (s *Shell) printTable() {
	p := s.sess.Projection()
	if p.Err != nil {
		s.printf("  filter error: %v\n", p.Err)
	}
	fmt.Fprint(s.out, render.Projection(p, render.Options{MaxCellWidth: s.opt.CellWidth, Footer: true}))
	s.printf("%s\n", s.sess.Status())
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tablesense_history")
}
