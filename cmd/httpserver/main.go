package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"movieapi/httpserver"
	"movieapi/pkg/config"
	"movieapi/pkg/sentry"
	"movieapi/pkg/store"

	sentrygo "github.com/getsentry/sentry-go"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Cannot load config", "error", err)
		os.Exit(1)
	}

	err = sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		slog.Error("Cannot init sentry", "error", err)
		os.Exit(1)
	}
	defer sentrygo.Flush(sentry.FlushTime)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connector, err := store.Open(ctx, cfg)
	if err != nil {
		slog.Error("Cannot open movie store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}

	server := httpserver.Default(cfg)
	server.Connector = connector
	server.Logger = logger

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started!", "addr", server.Addr, "driver", cfg.Store.Driver)
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped with error", "error", err)
			sentry.Error(err)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("cannot shut down server", "error", err)
	}
	if err := connector.Close(shutdownCtx); err != nil {
		slog.Error("cannot close movie store", "error", err)
	}
}
