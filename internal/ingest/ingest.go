package ingest

import (
	"bufio"
	"context"
	_ "embed"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nxadm/tail"

	"tablesense/internal/clipboard"
)

type SourceKind string

const (
	SourceStdin     SourceKind = "stdin"
	SourceFile      SourceKind = "file"
	SourceClipboard SourceKind = "clipboard"
	SourceDemo      SourceKind = "demo"
)

type Options struct {
	Source      SourceKind
	Path        string
	Follow      bool // keep reading a growing file
	FromEnd     bool // with Follow, skip what the file already holds
	ScanBufSize int  // per-line max (bytes)
	// Stdin replaces os.Stdin, mainly for tests.
	Stdin io.Reader
	// DemoInterval paces the demo transcript; 0 emits it at once.
	DemoInterval time.Duration
}

type Line struct {
	Text   string
	Source string
	When   time.Time
}

//go:embed demo.txt
var demoText string

func Read(ctx context.Context, opt Options) (<-chan Line, <-chan error) {
	out := make(chan Line, 1024)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		switch opt.Source {
		case SourceStdin:
			var r io.Reader = os.Stdin
			if opt.Stdin != nil {
				r = opt.Stdin
			}
			readFromReader(ctx, r, "stdin", opt.ScanBufSize, out, errs)
		case SourceFile:
			if opt.Follow {
				readFromTail(ctx, opt.Path, opt.FromEnd, out, errs)
				return
			}
			f, err := os.Open(opt.Path)
			if err != nil {
				errs <- err
				return
			}
			defer f.Close()
			readFromReader(ctx, f, opt.Path, opt.ScanBufSize, out, errs)
		case SourceClipboard:
			text, err := clipboard.Read()
			if err != nil {
				errs <- err
				return
			}
			readFromReader(ctx, strings.NewReader(text), "clipboard", opt.ScanBufSize, out, errs)
		case SourceDemo:
			demo(ctx, opt.DemoInterval, out)
		default:
			errs <- errors.New("unknown source kind")
		}
	}()

	return out, errs
}

// Load drains a one-shot source into a single text. Follow is ignored.
func Load(ctx context.Context, opt Options) (string, error) {
	opt.Follow = false
	opt.DemoInterval = 0
	lines, errs := Read(ctx, opt)
	var b strings.Builder
	for l := range lines {
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	if err := <-errs; err != nil {
		return "", err
	}
	return b.String(), ctx.Err()
}

func readFromReader(ctx context.Context, r io.Reader, src string, maxBuf int, out chan<- Line, errs chan<- error) {
	if maxBuf <= 0 {
		maxBuf = 1024 * 1024
	}
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 1024*64)
	scanner.Buffer(buf, maxBuf)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		case out <- Line{Text: scanner.Text(), Source: src, When: time.Now()}:
		}
	}
	if err := scanner.Err(); err != nil {
		errs <- err
	}
}

func readFromTail(ctx context.Context, path string, fromEnd bool, out chan<- Line, errs chan<- error) {
	loc := &tail.SeekInfo{Offset: 0, Whence: io.SeekStart}
	if fromEnd {
		loc.Whence = io.SeekEnd
	}
	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
		Poll:      true,
		Location:  loc,
	})
	if err != nil {
		errs <- err
		return
	}
	defer t.Cleanup()
	for {
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case l, ok := <-t.Lines:
			if !ok {
				return
			}
			if l.Err != nil {
				errs <- l.Err
				continue
			}
			out <- Line{Text: l.Text, Source: path, When: time.Now()}
		}
	}
}

// demo replays a short console session line by line.
func demo(ctx context.Context, every time.Duration, out chan<- Line) {
	lines := strings.Split(strings.TrimRight(demoText, "\n"), "\n")
	var tick <-chan time.Time
	if every > 0 {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		tick = ticker.C
	}
	for _, l := range lines {
		if tick != nil {
			select {
			case <-ctx.Done():
				return
			case <-tick:
			}
		}
		select {
		case <-ctx.Done():
			return
		case out <- Line{Text: l, Source: "demo", When: time.Now()}:
		}
	}
}
