// Command transcriptgen appends synthetic console sessions to a file so the
// -follow mode of tablesense has something to watch.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"
)

func main() {
	var (
		format      string
		rate        float64
		outPath     string
		toStdout    bool
		durationStr string
		rows        int
		seed        int64
	)

	flag.StringVar(&format, "format", formatMySQL, "Transcript style: mysql, mariadb or markdown")
	flag.Float64Var(&rate, "rate", 0.5, "Sessions per second")
	flag.StringVar(&outPath, "out", "", "Output file path. Defaults to simulateddata/<format>.txt")
	flag.BoolVar(&toStdout, "stdout", false, "Write to stdout instead of a file")
	flag.StringVar(&durationStr, "duration", "", "Optional run duration (e.g., 30s, 2m). Empty means run until interrupted")
	flag.IntVar(&rows, "rows", 5, "Maximum rows per result set")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	format = normalizeFormat(format)
	if !isSupported(format) {
		fmt.Fprintf(os.Stderr, "unsupported format: %s\n", format)
		os.Exit(2)
	}

	var interrupted atomic.Bool
	abort := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		interrupted.Store(true)
		close(abort)
	}()

	var deadline time.Time
	if durationStr != "" {
		d, err := time.ParseDuration(durationStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid duration: %v\n", err)
			os.Exit(2)
		}
		deadline = time.Now().Add(d)
	}
	shouldStop := func() bool {
		select {
		case <-abort:
			return true
		default:
		}
		return !deadline.IsZero() && time.Now().After(deadline)
	}

	g := newGenerator(format, rand.New(rand.NewSource(seed)), rows)
	if toStdout {
		w := bufio.NewWriter(os.Stdout)
		defer w.Flush()
		runStream(w, g, rate, abort, shouldStop)
		return
	}

	if outPath == "" {
		if err := os.MkdirAll("simulateddata", 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create simulateddata: %v\n", err)
			os.Exit(1)
		}
		outPath = filepath.Join("simulateddata", format+".txt")
	}
	// Always start from an empty file
	f, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "generating %s sessions -> %s at %.2f/s\n", format, outPath, rate)
	w := bufio.NewWriter(f)
	runStream(w, g, rate, abort, shouldStop)
	_ = w.Flush()
	_ = f.Close()
	if interrupted.Load() {
		_ = os.Remove(outPath)
	}
}

func runStream(w *bufio.Writer, g *generator, rate float64, abort <-chan struct{}, shouldStop func() bool) {
	if rate <= 0 {
		rate = 1
	}
	interval := time.Duration(float64(time.Second) / rate)
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for !shouldStop() {
		select {
		case <-abort:
			return
		case <-ticker.C:
			_, _ = w.WriteString(g.Next())
			_ = w.Flush()
		}
	}
}
