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

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pauljones0/dealflow-hub/internal/config"
	"github.com/pauljones0/dealflow-hub/internal/metrics"
	"github.com/pauljones0/dealflow-hub/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Critical error loading configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg))
	slog.Info("Starting DealFlow Hub server...")

	fx, err := storage.LoadFixtures(cfg.FixturesDir)
	if err != nil {
		slog.Error("Critical error loading fixtures", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded fixtures",
		"deals", len(fx.Deals),
		"comments", len(fx.Comments),
		"banners", len(fx.Banners),
		"overridden", fx.Overridden,
	)

	metrics.MustRegister(prometheus.DefaultRegisterer)
	a := newApp(cfg, fx)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      a.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		sig := <-sigCh
		slog.Info("Received signal, shutting down gracefully...", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		}
	}()

	slog.Info("Listening on port", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Failed to listen and serve", "error", err)
		os.Exit(1)
	}

	a.svc.Wait()
	slog.Info("Server stopped.")
}

func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      cfg.LogLevel,
		TimeFormat: time.Kitchen,
	}))
}
