package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/oficialwritiai-cmd/WritiIA/internal/config"
	"github.com/oficialwritiai-cmd/WritiIA/internal/server"
	"github.com/oficialwritiai-cmd/WritiIA/internal/storage"
)

func main() {
	// Load env if it exists
	godotenv.Load()

	cfg := config.Load()

	logger := newLogger(cfg)

	postgres, err := storage.NewPostgres(cfg.Postgres.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer postgres.Close()

	if err := postgres.AutoMigrate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}
	logger.Info().Msg("connected to postgres")

	var redis *storage.RedisClient
	if cfg.Redis.Enabled {
		redis, err = storage.NewRedis(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redis.Close()
		logger.Info().Msg("connected to redis")
	}

	srv := server.New(cfg, redis, postgres, logger)

	go func() {
		addr := ":" + cfg.Server.Port
		if err := srv.Run(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("forced shutdown")
	}

	logger.Info().Msg("server exited")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.Server.Environment != "production" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return logger
}
