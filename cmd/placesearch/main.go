package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	httpadapter "github.com/couchcryptid/place-search/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/place-search/internal/adapter/kafka"
	"github.com/couchcryptid/place-search/internal/app"
	"github.com/couchcryptid/place-search/internal/config"
	"github.com/couchcryptid/place-search/internal/observability"
	"github.com/couchcryptid/place-search/internal/search"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	slog.SetDefault(logger)
	metrics := observability.NewMetrics()

	// Search event publishing is feature-flagged via KAFKA_ENABLED.
	var publisher search.EventPublisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		logger.Info("search event publishing enabled", "topic", cfg.KafkaSearchTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("search event publishing disabled")
	}

	svc := app.NewService(cfg, logger, metrics, publisher)

	srv := httpadapter.NewServer(httpadapter.Options{
		Addr:           cfg.HTTPAddr,
		Searcher:       svc,
		Ready:          svc,
		Limiter:        rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	svc.Close()
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
