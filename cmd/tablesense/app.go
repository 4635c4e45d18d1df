package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"tablesense/internal/ai"
	"tablesense/internal/config"
	"tablesense/internal/export"
	"tablesense/internal/generate"
	"tablesense/internal/handoff"
	"tablesense/internal/highlight"
	"tablesense/internal/ingest"
	"tablesense/internal/render"
	"tablesense/internal/repl"
	"tablesense/internal/sandbox"
	"tablesense/internal/session"
	"tablesense/internal/util/logx"
	"tablesense/internal/view"
)

// ingestOptions maps the input flags to an ingest source.
func ingestOptions(cfg *config.Config, stdin io.Reader) ingest.Options {
	opt := ingest.Options{Source: ingest.SourceDemo, Stdin: stdin}
	switch {
	case cfg.UseClipboard:
		opt.Source = ingest.SourceClipboard
	case cfg.FilePath != "":
		opt.Source = ingest.SourceFile
		opt.Path = cfg.FilePath
	case cfg.UseStdin:
		opt.Source = ingest.SourceStdin
	}
	return opt
}

// capture saves the configured input for the next interactive start.
func capture(ctx context.Context, cfg *config.Config, stdin io.Reader) error {
	return captureTo(ctx, handoff.NewStore(""), cfg, stdin, os.Stderr)
}

func captureTo(ctx context.Context, store *handoff.Store, cfg *config.Config, stdin io.Reader, w io.Writer) error {
	if !cfg.HasInput() {
		return errors.New("nothing to capture: pipe text in or use -file or -clipboard")
	}
	opt := ingestOptions(cfg, stdin)
	text, err := ingest.Load(ctx, opt)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("nothing to capture: input is empty")
	}
	e, err := store.Save(cfg.Profile, handoff.Entry{Text: text, AutoParse: true, Source: string(opt.Source)})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "captured %d bytes for profile %q (%s)\n", len(e.Text), cfg.Profile, e.ID)
	return nil
}

// preload reads the input once and applies the view flags to it.
func preload(ctx context.Context, cfg *config.Config, sess *session.Session, stdin io.Reader) error {
	text, err := ingest.Load(ctx, ingestOptions(cfg, stdin))
	if err != nil {
		return err
	}
	sess.SetInput(text)
	applyFlags(cfg, sess)
	return nil
}

// applyFlags sets the table name, filters, sort and column selection from
// the command line. Unknown headers are logged and skipped.
func applyFlags(cfg *config.Config, sess *session.Session) {
	if cfg.Table != "" {
		sess.SetTable(cfg.Table)
	}
	v := sess.View()
	v.SetSearch(cfg.Search)
	v.SetScope(cfg.Scope)
	v.SetExpr(cfg.Expr)
	if !sess.Parsed() {
		return
	}
	if h, desc := cfg.SortSpec(); h != "" {
		if col, ok := sess.Column(h); ok {
			dir := view.SortAsc
			if desc {
				dir = view.SortDesc
			}
			v.SetSort(col, dir)
		} else {
			logx.Warnf("sort: unknown column %q", h)
		}
	}
	if names := cfg.ColumnList(); len(names) > 0 {
		var cols []int
		for _, h := range names {
			col, ok := sess.Column(h)
			if !ok {
				logx.Warnf("columns: unknown column %q", h)
				continue
			}
			cols = append(cols, col)
		}
		v.SetColumns(cols)
		for i, col := range cols {
			v.MoveColumn(v.Position(col), i)
		}
	}
}

func colorEnabled(cfg *config.Config) bool {
	return !cfg.NoColor && highlight.Terminal(os.Stdout)
}

// printReport writes the non-interactive view: extracted SQL, the table,
// its status and the generated statements.
func printReport(w io.Writer, cfg *config.Config, sess *session.Session, color bool) error {
	hl := highlight.Options{Enabled: color, Theme: string(cfg.Theme)}
	g := sess.Guess()
	if sql := sess.FormattedSQL(); sql != "" && g.HasSQL {
		fmt.Fprintln(w, "-- query")
		fmt.Fprintln(w, highlight.SQL(sql, hl))
		fmt.Fprintln(w)
	}
	if !sess.Parsed() {
		fmt.Fprintln(w, sess.Status())
		return nil
	}
	p := sess.Projection()
	if p.Err != nil {
		fmt.Fprintf(w, "filter error: %v\n", p.Err)
	}
	fmt.Fprint(w, render.Projection(p, render.Options{MaxCellWidth: 40, Footer: true}))
	fmt.Fprintf(w, "%s [%s]\n", sess.Status(), g.Kind)

	b := sess.Generate("")
	fmt.Fprintln(w)
	for _, item := range []struct {
		name string
		res  generate.Result
	}{{"select", b.Select}, {"insert", b.Insert}, {"delete", b.Delete}} {
		fmt.Fprintf(w, "-- %s\n", item.name)
		switch item.res.Status {
		case generate.StatusOK:
			fmt.Fprintln(w, highlight.SQL(item.res.SQL, hl))
		case generate.StatusRefused:
			fmt.Fprintf(w, "refused: %s\n", item.res.Reason)
		default:
			fmt.Fprintf(w, "nothing to generate: %s\n", item.res.Reason)
		}
	}

	if cfg.ExportOut != "" {
		f, err := export.FormatFor(cfg.ExportFormat, cfg.ExportOut)
		if err != nil {
			return err
		}
		table := sess.DefaultTable()
		if table == "" {
			table = "t"
		}
		if err := export.ToFile(cfg.ExportOut, f, p, table); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		logx.Infof("exported %d rows to %s", len(p.Rows), cfg.ExportOut)
		fmt.Fprintf(w, "\nexported %d rows to %s (%s)\n", len(p.Rows), cfg.ExportOut, f)
	}
	return nil
}

func runREPL(ctx context.Context, cfg *config.Config, sess *session.Session) error {
	opt := repl.Options{
		Sandbox: sandbox.Options{Engine: cfg.Engine, DSN: cfg.DSN},
		Color:   colorEnabled(cfg),
		Theme:   string(cfg.Theme),
	}
	if !cfg.Offline {
		opt.AI = ai.NewOpenAIClient(cfg.OpenAIKey(), cfg.OpenAIBase, cfg.OpenAIModel, time.Duration(cfg.OpenAITimeoutSec)*time.Second)
	}
	sh := repl.New(sess, opt)
	if sess.Parsed() {
		fmt.Printf("loaded: %s (%s)\n", sess.Status(), sess.Guess().Kind)
	}
	return sh.Run(ctx)
}
