package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hospitalchat/backend/internal/api/handler"
	"hospitalchat/backend/internal/auth"
	"hospitalchat/backend/internal/chathub"
	"hospitalchat/backend/internal/config"
	"hospitalchat/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(level).With().Timestamp().Logger()
}

// setupStorage connects the optional stores. It returns nil when neither is configured.
func setupStorage(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*storage.Service, error) {
	if cfg.DatabaseURL == "" && cfg.RedisURL == "" {
		logger.Warn().Msg("no DATABASE_URL or REDIS_URL, presence mirror and session audit disabled")
		return nil, nil
	}

	s, err := storage.Connect(ctx, cfg.DatabaseURL, cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	if s.DB != nil {
		if err := s.Migrate(); err != nil {
			s.Close()
			return nil, err
		}
		logger.Info().Msg("connected to PostgreSQL, migrations complete")
	}
	if s.Redis != nil {
		if err := s.ResetPresence(ctx); err != nil {
			s.Close()
			return nil, err
		}
		logger.Info().Msg("connected to Redis")
	}
	return s, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLogger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := newLogger(cfg)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := setupStorage(startCtx, cfg, logger)
	cancelStart()
	if err != nil {
		logger.Fatal().Err(err).Msg("storage setup failed")
	}

	opts := []chathub.Option{
		chathub.WithLogger(logger),
		chathub.WithJobQueueSize(cfg.JobQueueSize),
		chathub.WithStoreTimeout(cfg.StoreTimeout),
	}
	if store != nil && store.Redis != nil {
		opts = append(opts, chathub.WithPresenceStore(store))
	}
	if store != nil && store.DB != nil {
		opts = append(opts, chathub.WithSessionRecorder(store))
	}
	hub := chathub.NewManagerService(opts...)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		hub.Run(workerCtx)
	}()

	resolver := auth.NewResolver(cfg.JWTSecret, cfg.StaffRoles)
	h := handler.NewHandler(hub, resolver, cfg, store, logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Msg("starting hospital chat server")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	// Hijacked sockets outlive server.Shutdown; tear them down while the worker still runs.
	if n := hub.Shutdown("server shutdown"); n > 0 {
		logger.Info().Int("connections", n).Msg("closed live connections")
	}

	stopWorker()
	<-workerDone

	if store != nil {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("close storage")
		}
	}
	logger.Info().Msg("server stopped")
}
