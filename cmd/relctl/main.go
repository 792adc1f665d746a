// Command relctl drives the paddock relation API from a terminal: log in,
// look people up, manage friendships and group membership, and answer
// pending requests.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/HammerMeetNail/paddock/internal/config"
	"github.com/HammerMeetNail/paddock/internal/logging"
	"github.com/HammerMeetNail/paddock/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	sessionPath, err := session.DefaultPath()
	if err != nil {
		sessionPath = ""
	}
	cfg, err := config.LoadClient(sessionPath)
	if err != nil {
		return err
	}

	level, _ := logging.ParseLevel(cfg.Log.Level)
	logging.Default.SetOutput(os.Stderr)
	logging.SetDefaultLevel(level)

	a, err := newApp(cfg, session.NewFileStore(cfg.SessionFile), os.Stdout)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd(a).ExecuteContext(ctx)
}
