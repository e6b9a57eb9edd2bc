package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"peer-chat/internal"
	"peer-chat/repositories"
	"peer-chat/ui"
	"syscall"

	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes one chat window, reads stdin until /quit or a signal, and
// centralizes error reporting so that every defer runs before exiting.
func run() error {
	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)
	color.Enable = config.Colours

	// 2. Message list, gone with the process
	db, err := repositories.OpenInMemory()
	if err != nil {
		return fmt.Errorf("message store opening failed: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	// 3. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Window
	terminal := ui.NewTerminal(os.Stdout, config.DisplayWidth)
	session := internal.BuildSession(log, config, db).Add(terminal)
	terminal.Header(session.Config().Title())

	// A listener failure is already on screen, sending keeps working
	if err = session.Start(ctx); err != nil {
		log.Warn("Receiving disabled", "error", err)
	}
	defer session.Stop()

	// 5. Input loop
	return ui.NewConsole(log, os.Stdin, os.Stdout, ui.SingleSession(session)).Run(ctx)
}
