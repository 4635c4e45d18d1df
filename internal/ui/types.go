package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"tablesense/internal/ai"
	"tablesense/internal/config"
	"tablesense/internal/handoff"
	"tablesense/internal/ingest"
	"tablesense/internal/sandbox"
	"tablesense/internal/session"
	"tablesense/internal/view"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalInspector
	modalSQL
	modalGenerate
	modalColumns
	modalLogs
	modalExplain
	modalDryRun
)

type inlineMode int

const (
	inlineNone inlineMode = iota
	inlineSearch
	inlineExpr
	inlineTable
	inlineExport
)

type Model struct {
	ctx context.Context
	cfg *config.Config
	// cancel function for the current follow reader
	ingestCancel context.CancelFunc

	// Pipeline
	sess    *session.Session
	store   *handoff.Store
	client  *ai.OpenAIClient
	sandbox sandbox.Options
	lines   <-chan ingest.Line
	errs    <-chan error
	// followed holds everything read from a followed file so far
	followed    strings.Builder
	followDirty bool

	// Data
	proj view.Projection

	// UI
	tbl         table.Model
	styles      Styles
	input       textinput.Model
	spin        spinner.Model
	keymap      KeyMap
	selCol      int // position in proj.Columns
	colOffset   int
	colWidthAdj map[int]int // by parsed column index
	termWidth   int
	termHeight  int
	color       bool

	// status
	source  string
	follow  bool
	lastMsg string
	netBusy bool

	// Modal popup
	modalActive bool
	modalKind   modalKind
	modalVP     viewport.Model
	modalTitle  string
	modalBody   string

	// Help menu state
	helpItems []helpItem
	helpSel   int

	// Generation modal: 0 select, 1 insert, 2 delete
	genSel int
	// Columns modal cursor, a display position over all columns
	colSel int

	// Inline input on the line above the status bar
	inlineMode inlineMode
}

type helpItem struct {
	group string
	text  string
	key   tea.Key
}

func keyCmd(k tea.Key) tea.Cmd {
	return func() tea.Msg {
		if k.Type == tea.KeyRunes {
			return tea.KeyMsg{Type: k.Type, Runes: k.Runes}
		}
		return tea.KeyMsg{Type: k.Type}
	}
}

func keyLabel(k tea.Key) string {
	switch k.Type {
	case tea.KeyRunes:
		if len(k.Runes) == 1 {
			r := k.Runes[0]
			if r == ' ' {
				return "space"
			}
			return string(r)
		}
		return strings.ToLower(string(k.Runes))
	case tea.KeyEnter:
		return "enter"
	case tea.KeyEsc:
		return "esc"
	case tea.KeyTab:
		return "tab"
	case tea.KeyShiftTab:
		return "shift-tab"
	case tea.KeyLeft:
		return "left"
	case tea.KeyRight:
		return "right"
	case tea.KeyUp:
		return "up"
	case tea.KeyDown:
		return "down"
	case tea.KeyPgUp:
		return "pgup"
	case tea.KeyPgDown:
		return "pgdown"
	default:
		return strings.ToLower(k.String())
	}
}
