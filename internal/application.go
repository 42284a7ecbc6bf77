package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/ultimate-tictactoe/internal/config"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/repository"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/repository/storage"
	"github.com/rocketscienceinc/ultimate-tictactoe/internal/usecase"
	"github.com/rocketscienceinc/ultimate-tictactoe/transport/rest"
	"github.com/rocketscienceinc/ultimate-tictactoe/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	roundRepo, closeStore, err := newRoundRepository(ctx, log, conf)
	if err != nil {
		return err
	}
	defer closeStore()

	roundManager := usecase.NewRoundManager(logger, roundRepo)

	group, ctx := errgroup.WithContext(ctx)

	// run HTTP server
	group.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, conf.HTTPPort, rest.NewRouter(logger, roundManager)); httpErr != nil {
			return fmt.Errorf("HTTP server error: %w", httpErr)
		}
		return nil
	})

	// run Websocket server
	group.Go(func() error {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, roundManager)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			return fmt.Errorf("WebSocket server error: %w", wsErr)
		}
		return nil
	})

	if err = group.Wait(); err != nil {
		return err
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

func newRoundRepository(ctx context.Context, log *slog.Logger, conf *config.Config) (repository.RoundRepository, func(), error) {
	if conf.Storage == config.StorageMemory {
		log.Info("Using in-memory round storage")
		return repository.NewMemoryRoundRepository(conf.RoundTTL), func() {}, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeStore := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewRoundRepository(redisStorage, conf.RoundTTL), closeStore, nil
}
