package ui

import tea "github.com/charmbracelet/bubbletea"

type KeyMap struct {
	Search      tea.Key
	Scope       tea.Key
	Expr        tea.Key
	ClearFilter tea.Key
	Sort        tea.Key
	Hide        tea.Key
	Columns     tea.Key
	MoveLeft    tea.Key
	MoveRight   tea.Key
	Inspect     tea.Key
	CopyCell    tea.Key
	CopyHeader  tea.Key
	ShowSQL     tea.Key
	Generate    tea.Key
	Table       tea.Key
	Paste       tea.Key
	Reload      tea.Key
	Export      tea.Key
	Explain     tea.Key
	Top         tea.Key
	Bottom      tea.Key
	AppLogs     tea.Key
	IncColWidth tea.Key
	DecColWidth tea.Key
	Help        tea.Key
	Quit        tea.Key
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Search:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'/'}},
		Scope:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'S'}},
		Expr:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'w'}},
		ClearFilter: tea.Key{Type: tea.KeyRunes, Runes: []rune{'F'}},
		Sort:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'s'}},
		Hide:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'h'}},
		Columns:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'c'}},
		MoveLeft:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'<'}},
		MoveRight:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'>'}},
		Inspect:     tea.Key{Type: tea.KeyEnter},
		CopyCell:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'y'}},
		CopyHeader:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'Y'}},
		ShowSQL:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'v'}},
		Generate:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'m'}},
		Table:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'t'}},
		Paste:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'p'}},
		Reload:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'R'}},
		Export:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'e'}},
		Explain:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'i'}},
		Top:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'g'}},
		Bottom:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'G'}},
		AppLogs:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'L'}},
		IncColWidth: tea.Key{Type: tea.KeyRunes, Runes: []rune{']'}},
		DecColWidth: tea.Key{Type: tea.KeyRunes, Runes: []rune{'['}},
		Help:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'?'}},
		Quit:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'q'}},
	}
}

func keyMatches(msg tea.KeyMsg, k tea.Key) bool {
	if k.Type != tea.KeyRunes {
		return msg.Type == k.Type
	}
	if len(k.Runes) > 0 {
		return msg.String() == string(k.Runes)
	}
	return false
}
