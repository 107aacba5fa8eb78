package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/zenirmoveis/assistant/internal/analytics"
	"github.com/zenirmoveis/assistant/internal/config"
	"github.com/zenirmoveis/assistant/internal/events"
	"github.com/zenirmoveis/assistant/internal/httpserver"
	"github.com/zenirmoveis/assistant/internal/llm"
	"github.com/zenirmoveis/assistant/internal/repo"
	"github.com/zenirmoveis/assistant/internal/service"
	"github.com/zenirmoveis/assistant/pkg/db"
	"github.com/zenirmoveis/assistant/pkg/logging"
)

type eventSink interface {
	service.Publisher
	Close() error
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg := config.MustLoad()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	llmClient, err := llm.New(cfg.LLM)
	if err != nil {
		return fmt.Errorf("llm client: %w", err)
	}

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer func() { _ = db.Close(gdb) }()

	store := &repo.GormRepo{DB: gdb}
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	publisher := newPublisher(cfg, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("kafka_close_failed", "error", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Server.WriteTimeout = cfg.LLM.Timeout + 15*time.Second
	e.Server.IdleTimeout = 60 * time.Second

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(httpserver.Common(logger)...)

	httpserver.Register(e, &httpserver.Deps{
		AssistantHandler: &httpserver.AssistantHTTP{
			Sentiment: &service.SentimentService{
				LLM:    llmClient,
				Events: publisher,
				Index:  newIndexer(ctx, cfg, logger),
			},
			Recovery: &service.RecoveryService{
				Store:  store,
				LLM:    llmClient,
				Events: publisher,
				Offer:  cfg.Offer,
			},
		},
		JWTSecret: cfg.JWTSecret,
		DB:        store,
	})

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_starting", "addr", cfg.Addr(), "model", llmClient.Model(), "db_driver", cfg.DBDriver)
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("echo start: %w", err)
		}
		return nil
	case <-sigCtx.Done():
	}

	logger.Info("server_shutting_down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo_shutdown_failed", "error", err)
	}
	logger.Info("server_stopped")
	return nil
}

func newPublisher(cfg *config.Config, logger *slog.Logger) eventSink {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
		return events.Noop{}
	}
	p, err := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		logger.Warn("kafka_disabled", "error", err)
		return events.Noop{}
	}
	return p
}

func newIndexer(ctx context.Context, cfg *config.Config, logger *slog.Logger) service.SentimentIndexer {
	if cfg.ESURL == "" {
		logger.Info("elasticsearch_disabled", "reason", "ES_URL is empty")
		return analytics.Noop{}
	}
	x, err := analytics.NewESIndexer(cfg.ESConfig())
	if err != nil {
		logger.Warn("elasticsearch_disabled", "error", err)
		return analytics.Noop{}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := x.Ping(pingCtx); err != nil {
		logger.Warn("elasticsearch_unreachable", "url", cfg.ESURL, "error", err)
	}
	return x
}
