package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/console"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/repository"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/usecase"
)

// main - plays rounds in the terminal with rounds kept in memory.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	roundManager := usecase.NewRoundManager(logger, repository.NewMemoryRoundRepository(0))

	err := console.New(os.Stdin, os.Stdout, roundManager).Run(ctx)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stdout)
		return
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "console: %v\n", err)
		os.Exit(1)
	}
}
