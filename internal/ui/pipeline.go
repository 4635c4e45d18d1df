package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tablesense/internal/clipboard"
	"tablesense/internal/ingest"
	"tablesense/internal/sandbox"
	"tablesense/internal/util/logx"
)

type inputMsg struct {
	text   string
	source string
	err    error
}
type tickMsg struct{}
type explainDoneMsg struct {
	text string
	err  error
}
type dryRunDoneMsg struct {
	title  string
	report sandbox.Report
	err    error
}

// Simple UI toast/status message
type toastMsg struct{ text string }

// setupPipeline picks the input source: the configured one, else a pending
// capture from the handoff store, else the demo transcript.
func (m *Model) setupPipeline() tea.Cmd {
	src := ingest.SourceDemo
	switch {
	case m.cfg.UseClipboard:
		src = ingest.SourceClipboard
	case m.cfg.UseStdin:
		src = ingest.SourceStdin
	case m.cfg.FilePath != "":
		src = ingest.SourceFile
	}
	m.source = string(src)
	if m.follow && src == ingest.SourceFile {
		return m.startFollow()
	}
	cfg := m.cfg
	store := m.store
	ctx := m.ctx
	return func() tea.Msg {
		if src == ingest.SourceDemo {
			e, ok, err := store.Take(cfg.Profile)
			if err != nil {
				logx.Warnf("handoff: %v", err)
			}
			if ok && e.AutoParse {
				logx.Infof("handoff: took capture %s (%d bytes)", e.ID, len(e.Text))
				return inputMsg{text: e.Text, source: "capture"}
			}
		}
		text, err := ingest.Load(ctx, ingest.Options{Source: src, Path: cfg.FilePath})
		logx.Infof("ingest: source=%s path=%s bytes=%d", src, cfg.FilePath, len(text))
		return inputMsg{text: text, source: string(src), err: err}
	}
}

// startFollow tails the configured file; lines are picked up on ticks.
func (m *Model) startFollow() tea.Cmd {
	if m.ingestCancel != nil {
		m.ingestCancel()
		m.ingestCancel = nil
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.ingestCancel = cancel
	m.followed.Reset()
	m.lines, m.errs = ingest.Read(ctx, ingest.Options{Source: ingest.SourceFile, Path: m.cfg.FilePath, Follow: true})
	logx.Infof("ingest: following %s", m.cfg.FilePath)
	return tea.Tick(300*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

// drainFollow moves pending lines into the followed text. It reports
// whether anything arrived.
func (m *Model) drainFollow() bool {
	got := false
	for i := 0; i < 2000; i++ {
		select {
		case l, ok := <-m.lines:
			if !ok {
				m.lines = nil
				return got
			}
			m.followed.WriteString(l.Text)
			m.followed.WriteByte('\n')
			got = true
		default:
			return got
		}
	}
	return got
}

func (m *Model) drainErrors() {
	for j := 0; j < 20; j++ {
		select {
		case err, ok := <-m.errs:
			if !ok {
				m.errs = nil
				return
			}
			logx.Errorf("ingest error: %v", err)
			m.lastMsg = "ingest error: " + err.Error()
		default:
			return
		}
	}
}

func (m *Model) pasteClipboard() tea.Cmd {
	return func() tea.Msg {
		text, err := clipboard.Read()
		if err == nil && strings.TrimSpace(text) == "" {
			err = errors.New("clipboard is empty")
		}
		return inputMsg{text: text, source: "clipboard", err: err}
	}
}

func (m *Model) explainCmd() tea.Cmd {
	if !m.client.Enabled() {
		msg := "Explain (OpenAI) unavailable: offline or OPENAI_API_KEY not set"
		return func() tea.Msg { return toastMsg{text: msg} }
	}
	sql := m.sess.CompressedSQL()
	if sql == "" {
		return func() tea.Msg { return toastMsg{text: "no SQL statement to explain"} }
	}
	m.netBusy = true
	m.lastMsg = "OpenAI: explaining statement..."
	logx.Infof("openai: explain requested")
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		text, err := client.Explain(ctx, sql)
		return explainDoneMsg{text: text, err: err}
	}
}

func (m *Model) dryRunCmd(title, stmt string) tea.Cmd {
	table := m.sess.DefaultTable()
	if table == "" {
		table = "t"
	}
	p := m.sess.Projection()
	opt, ctx := m.sandbox, m.ctx
	m.netBusy = true
	m.lastMsg = "dry-run: " + title + "..."
	return func() tea.Msg {
		rep, err := sandbox.DryRun(ctx, opt, p, table, stmt)
		return dryRunDoneMsg{title: title, report: rep, err: err}
	}
}
