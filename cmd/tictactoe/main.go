package main

import (
	"context"
	"ctchen222/tictactoe-history/internal/logger"
	"ctchen222/tictactoe-history/internal/terminal"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
)

func main() {
	level := flag.String("log-level", "warn", "log level written to stderr")
	flag.Parse()

	logger.Init(os.Stderr, *level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := terminal.Run(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("terminal game stopped", "error", err)
		os.Exit(1)
	}
}
