package ui

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"tablesense/internal/ai"
	"tablesense/internal/config"
	"tablesense/internal/handoff"
	"tablesense/internal/highlight"
	"tablesense/internal/sandbox"
	"tablesense/internal/session"
)

func initialModel(ctx context.Context, cfg *config.Config, sess *session.Session) *Model {
	m := &Model{
		ctx:         ctx,
		cfg:         cfg,
		sess:        sess,
		store:       handoff.NewStore(""),
		sandbox:     sandbox.Options{Engine: cfg.Engine, DSN: cfg.DSN},
		styles:      NewStyles(cfg.Theme == config.ThemeDark),
		keymap:      DefaultKeyMap(),
		input:       textinput.New(),
		spin:        spinner.New(),
		follow:      cfg.Follow,
		colWidthAdj: map[int]int{},
		color:       !cfg.NoColor && highlight.Terminal(os.Stdout),
	}
	if !cfg.Offline {
		m.client = ai.NewOpenAIClient(cfg.OpenAIKey(), cfg.OpenAIBase, cfg.OpenAIModel, time.Duration(cfg.OpenAITimeoutSec)*time.Second)
	}
	m.spin.Spinner = spinner.Dot
	m.input.CharLimit = 256
	m.modalVP = viewport.New(80, 20)

	m.tbl = table.New(table.WithFocused(true), table.WithHeight(20))
	ts := table.DefaultStyles()
	ts.Header = m.styles.TableStyles.Header
	ts.Cell = m.styles.TableStyles.Cell
	ts.Selected = m.styles.TableStyles.Selected
	m.tbl.SetStyles(ts)
	m.refresh()
	return m
}

// Run starts the interactive table view. sess may already hold input; when
// it does not, the configured source is loaded.
func Run(ctx context.Context, cfg *config.Config, sess *session.Session) error {
	m := initialModel(ctx, cfg, sess)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	if m.ingestCancel != nil {
		m.ingestCancel()
	}
	return err
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick}
	if m.sess.Input() == "" {
		cmds = append(cmds, m.setupPipeline())
	} else {
		m.source = "preloaded"
	}
	return tea.Batch(cmds...)
}
