package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tablesense/internal/config"
	"tablesense/internal/session"
	"tablesense/internal/ui"
	"tablesense/internal/util/logx"
	"tablesense/internal/version"
)

func main() {
	logx.SetLevelFromEnv()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	if cfg.ShowVersion {
		fmt.Println(version.Banner())
		return
	}

	// Setup cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logx.Infof("starting %s: %s", version.Banner(), cfg.String())
	if cfg.Command == config.CommandCapture {
		if err := capture(ctx, cfg, os.Stdin); err != nil {
			fmt.Fprintln(os.Stderr, "capture:", err)
			os.Exit(1)
		}
		return
	}

	sess := session.New()
	// A followed file is streamed by the TUI itself.
	if cfg.HasInput() && !(cfg.Mode == config.ModeTUI && cfg.Follow) {
		if err := preload(ctx, cfg, sess, os.Stdin); err != nil {
			fmt.Fprintln(os.Stderr, "input error:", err)
			os.Exit(1)
		}
	}

	switch cfg.Mode {
	case config.ModePrint:
		err = printReport(os.Stdout, cfg, sess, colorEnabled(cfg))
	case config.ModeREPL:
		err = runREPL(ctx, cfg, sess)
	default:
		err = ui.Run(ctx, cfg, sess)
	}
	if err != nil {
		logx.Errorf("tablesense exited with error: %v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
