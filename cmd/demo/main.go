package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"peer-chat/internal"
	"peer-chat/repositories"
	"peer-chat/runtime"
	"peer-chat/ui"
	"syscall"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run opens both windows in one process, each with its own ports swapped.
// Input lines are routed with a "1:" or "2:" prefix.
func run() error {
	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)
	color.Enable = config.Colours

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := make(map[string]ui.ChatSession)
	for i, windowConfig := range []internal.Config{config, config.Swapped()} {
		db, err := repositories.OpenInMemory()
		if err != nil {
			return fmt.Errorf("message store opening failed: %w", err)
		}
		defer func() {
			_ = db.Close()
		}()

		key := fmt.Sprintf("%d", i+1)
		session := openWindow(ctx, log, windowConfig, db, key)
		defer session.Stop()
		sessions[key] = session
	}

	fmt.Println("Type \"1: text\" to write as window 1, \"2: text\" as window 2, \"1: /quit\" to leave.")
	return ui.NewConsole(log, os.Stdin, os.Stdout, ui.PrefixRouter(sessions)).Run(ctx)
}

func openWindow(ctx context.Context, log *slog.Logger, config internal.Config, db *badger.DB, key string) *runtime.Session {
	terminal := ui.NewTerminal(os.Stdout, config.DisplayWidth).
		WithTag(color.New(color.FgCyan).Render("[" + key + "]"))
	session := internal.BuildSession(log, config, db).Add(terminal)
	terminal.Header(session.Config().Title())
	if err := session.Start(ctx); err != nil {
		log.Warn("Receiving disabled", "window", key, "error", err)
	}
	return session
}
