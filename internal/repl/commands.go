package repl

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"tablesense/internal/generate"
	"tablesense/internal/sandbox"
	"tablesense/internal/view"
)

// commandEntry maps a command prefix to its handler. Prefixes ending in a
// space take an argument.
type commandEntry struct {
	prefix  string
	usage   string
	help    string
	handler func(args string) error
	hidden  bool
}

func (s *Shell) initCommands() {
	s.commands = []commandEntry{
		{prefix: `\p`, help: "parse the buffer", handler: func(_ string) error { return s.cmdParse() }},
		{prefix: `\c`, help: "clear the buffer", handler: func(_ string) error { s.buf = nil; return nil }},
		{prefix: `\q`, help: "quit", handler: func(_ string) error { return ErrQuit }},
		{prefix: `\v`, help: "show the table again", handler: func(_ string) error { return s.cmdView() }},
		{prefix: `\sql`, help: "show the extracted statement", handler: func(_ string) error { return s.cmdSQL(false) }},
		{prefix: `\fmt`, help: "show the extracted statement formatted", handler: func(_ string) error { return s.cmdSQL(true) }},
		{prefix: `\select`, help: "generate SELECT", handler: func(_ string) error { return s.cmdGenerate("select") }},
		{prefix: `\insert`, help: "generate INSERT", handler: func(_ string) error { return s.cmdGenerate("insert") }},
		{prefix: `\delete`, help: "generate DELETE", handler: func(_ string) error { return s.cmdGenerate("delete") }},
		{prefix: `\table `, usage: `\table [name]`, help: "set the target table", handler: s.cmdTable},
		{prefix: `\table`, handler: s.cmdTable, hidden: true},
		{prefix: `\sort `, usage: `\sort <header> [asc|desc|none]`, help: "sort rows", handler: s.cmdSort},
		{prefix: `\search `, usage: `\search [text|/regex/]`, help: "filter rows", handler: s.cmdSearch},
		{prefix: `\search`, handler: s.cmdSearch, hidden: true},
		{prefix: `\scope `, usage: `\scope [header]`, help: "limit the search to one column", handler: s.cmdScope},
		{prefix: `\scope`, handler: s.cmdScope, hidden: true},
		{prefix: `\where `, usage: `\where [expr]`, help: "filter rows by expression, e.g. id > 2", handler: s.cmdWhere},
		{prefix: `\where`, handler: s.cmdWhere, hidden: true},
		{prefix: `\hide `, usage: `\hide <header>[,header...]`, help: "hide columns", handler: func(a string) error { return s.cmdColumns(a, false) }},
		{prefix: `\show `, usage: `\show <header>[,header...]`, help: "show columns", handler: func(a string) error { return s.cmdColumns(a, true) }},
		{prefix: `\all`, help: "show all columns", handler: func(_ string) error { s.sess.View().SetAllColumns(true); return s.cmdView() }},
		{prefix: `\none`, help: "hide all columns", handler: func(_ string) error { s.sess.View().SetAllColumns(false); return s.cmdView() }},
		{prefix: `\move `, usage: `\move <header> <position>`, help: "move a column", handler: s.cmdMove},
		{prefix: `\verify `, usage: `\verify [select|insert|delete]`, help: "dry-run a generated statement and roll back", handler: s.cmdVerify},
		{prefix: `\verify`, handler: s.cmdVerify, hidden: true},
		{prefix: `\explain`, help: "explain the extracted statement (OpenAI)", handler: func(_ string) error { return s.cmdExplain() }},
		{prefix: `\help`, help: "this help", handler: func(_ string) error { s.cmdHelp(); return nil }},
		{prefix: `\?`, handler: func(_ string) error { s.cmdHelp(); return nil }, hidden: true},
	}
	sort.SliceStable(s.commands, func(i, j int) bool {
		return len(s.commands[i].prefix) > len(s.commands[j].prefix)
	})
}

// commandNames lists the visible command words for completion.
func (s *Shell) commandNames() []string {
	seen := map[string]bool{}
	var names []string
	for _, c := range s.commands {
		name := strings.TrimRight(c.prefix, " ")
		if c.hidden || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Shell) requireTable() error {
	if !s.sess.Parsed() {
		return errors.New(`no table parsed yet (paste text, then \p)`)
	}
	return nil
}

func (s *Shell) column(header string) (int, error) {
	col, ok := s.sess.Column(strings.TrimSpace(header))
	if !ok {
		return -1, fmt.Errorf("unknown column %q", header)
	}
	return col, nil
}

func (s *Shell) cmdParse() error {
	if len(s.buf) == 0 {
		return errors.New("buffer is empty")
	}
	text := strings.Join(s.buf, "\n")
	s.buf = nil
	if !s.sess.SetInput(text) {
		s.printf("%s\n", s.sess.Status())
		if sql := s.sess.ExtractedSQL(); sql != "" {
			s.printSQL(s.sess.FormattedSQL())
		}
		return nil
	}
	return s.cmdView()
}

func (s *Shell) cmdView() error {
	if err := s.requireTable(); err != nil {
		return err
	}
	s.printTable()
	return nil
}

func (s *Shell) cmdSQL(formatted bool) error {
	sql := s.sess.CompressedSQL()
	if formatted {
		sql = s.sess.FormattedSQL()
	}
	if sql == "" {
		return errors.New("no SQL statement found")
	}
	s.printSQL(sql)
	return nil
}

func (s *Shell) bundleResult(kind string) (generate.Result, error) {
	b := s.sess.Generate("")
	switch kind {
	case "select":
		return b.Select, nil
	case "insert":
		return b.Insert, nil
	case "delete":
		return b.Delete, nil
	}
	return generate.Result{}, fmt.Errorf("unknown statement kind %q", kind)
}

func (s *Shell) cmdGenerate(kind string) error {
	if err := s.requireTable(); err != nil {
		return err
	}
	r, err := s.bundleResult(kind)
	if err != nil {
		return err
	}
	switch r.Status {
	case generate.StatusRefused:
		return fmt.Errorf("refused: %s", r.Reason)
	case generate.StatusEmpty:
		s.printf("  nothing to generate: %s\n", r.Reason)
		return nil
	}
	s.printSQL(r.SQL)
	return nil
}

func (s *Shell) cmdTable(args string) error {
	if args != "" {
		s.sess.SetTable(args)
	}
	if t := s.sess.DefaultTable(); t != "" {
		s.printf("  table: %s\n", t)
	} else {
		s.printf("  table: (none)\n")
	}
	return nil
}

func (s *Shell) cmdSort(args string) error {
	if err := s.requireTable(); err != nil {
		return err
	}
	header, dir := args, ""
	if i := strings.LastIndexByte(args, ' '); i > 0 {
		switch d := strings.ToLower(args[i+1:]); d {
		case "asc", "desc", "none":
			header, dir = strings.TrimSpace(args[:i]), d
		}
	}
	col, err := s.column(header)
	if err != nil {
		return err
	}
	v := s.sess.View()
	switch dir {
	case "asc":
		v.SetSort(col, view.SortAsc)
	case "desc":
		v.SetSort(col, view.SortDesc)
	case "none":
		v.SetSort(col, view.SortNone)
	default:
		v.CycleSort(col)
	}
	return s.cmdView()
}

func (s *Shell) cmdSearch(args string) error {
	if err := s.requireTable(); err != nil {
		return err
	}
	s.sess.View().SetSearch(args)
	return s.cmdView()
}

func (s *Shell) cmdScope(args string) error {
	if err := s.requireTable(); err != nil {
		return err
	}
	if args != "" {
		if _, err := s.column(args); err != nil {
			return err
		}
	}
	s.sess.View().SetScope(args)
	return s.cmdView()
}

func (s *Shell) cmdWhere(args string) error {
	if err := s.requireTable(); err != nil {
		return err
	}
	s.sess.View().SetExpr(args)
	return s.cmdView()
}

func (s *Shell) cmdColumns(args string, on bool) error {
	if err := s.requireTable(); err != nil {
		return err
	}
	for _, h := range strings.Split(args, ",") {
		if strings.TrimSpace(h) == "" {
			continue
		}
		col, err := s.column(h)
		if err != nil {
			return err
		}
		s.sess.View().SetColumn(col, on)
	}
	return s.cmdView()
}

func (s *Shell) cmdMove(args string) error {
	if err := s.requireTable(); err != nil {
		return err
	}
	i := strings.LastIndexByte(args, ' ')
	if i <= 0 {
		return errors.New(`usage: \move <header> <position>`)
	}
	pos, err := strconv.Atoi(args[i+1:])
	if err != nil || pos < 1 || pos > s.sess.View().Len() {
		return fmt.Errorf("position must be between 1 and %d", s.sess.View().Len())
	}
	col, err := s.column(args[:i])
	if err != nil {
		return err
	}
	v := s.sess.View()
	v.MoveColumn(v.Position(col), pos-1)
	return s.cmdView()
}

func (s *Shell) cmdVerify(args string) error {
	if err := s.requireTable(); err != nil {
		return err
	}
	kind := strings.ToLower(args)
	if kind == "" {
		kind = "select"
	}
	r, err := s.bundleResult(kind)
	if err != nil {
		return err
	}
	if !r.OK() {
		return fmt.Errorf("no %s to verify: %s", kind, r.Reason)
	}
	table := s.sess.DefaultTable()
	if table == "" {
		table = "t"
	}
	rep, err := sandbox.DryRun(s.ctx, s.opt.Sandbox, s.sess.Projection(), table, r.SQL)
	if err != nil {
		return fmt.Errorf("dry-run: %w", err)
	}
	fmt.Fprint(s.out, rep.String())
	return nil
}

func (s *Shell) cmdExplain() error {
	sql := s.sess.CompressedSQL()
	if sql == "" {
		return errors.New("no SQL statement found")
	}
	text, err := s.opt.AI.Explain(s.ctx, sql)
	if err != nil {
		return err
	}
	s.printf("%s\n", text)
	return nil
}

func (s *Shell) cmdHelp() {
	seen := map[string]bool{}
	for _, name := range s.commandNames() {
		for _, c := range s.commands {
			if c.hidden || strings.TrimRight(c.prefix, " ") != name || seen[name] {
				continue
			}
			seen[name] = true
			usage := c.usage
			if usage == "" {
				usage = name
			}
			s.printf("  %-34s %s\n", usage, c.help)
		}
	}
}
