package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-stream/config"
	"github.com/marcelsud/webhook-stream/internal/http/chi"
	"github.com/marcelsud/webhook-stream/metrics"
	"github.com/marcelsud/webhook-stream/webhook"
	"github.com/marcelsud/webhook-stream/webhook/memory"
	"github.com/marcelsud/webhook-stream/webhook/redis"
	"github.com/rs/zerolog"
)

const TIMEOUT = 30 * time.Second

/*
 * main wires the packages together: config -> store -> service -> router
 * Imports only go downwards, the application imports the business layer which imports storage
 */

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	logger := httplog.NewLogger("webhook-stream", httplog.Options{
		JSON:     cfg.LogJSON,
		LogLevel: cfg.LogLevel,
	})

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	repo := memory.NewRepository(cfg.StoreCapacity)
	defer repo.Close(ctx)

	s := webhook.NewService(repo)
	s.Logger = logger

	if cfg.RedisEnabled() {
		pub, err := redis.NewPublisher(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisChannel)
		if err != nil {
			return err
		}
		defer pub.Close()
		s.Notifier = pub
		logger.Info().Str("addr", cfg.RedisAddr).Str("channel", pub.Channel()).Msg("publishing captured webhooks to Redis")
	}

	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		exporter, err := metrics.NewOTelExporter(repo)
		if err != nil {
			return err
		}
		defer exporter.Shutdown(context.Background())
		metricsHandler = exporter.ServeHTTP()
	}

	r := chi.Handlers(ctx, s, logger, metricsHandler)
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      r,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown, logger)
	logger.Info().
		Str("port", cfg.Port).
		Int("capacity", repo.Capacity()).
		Msg("listening")

	err = srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-errShutdown
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error, logger zerolog.Logger) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		logger.Info().Msg("shutting down server")
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("forcing closing the server: %w", err)
	}
}
