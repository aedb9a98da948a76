package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/geolens/api"
	"github.com/use-agent/geolens/app"
	"github.com/use-agent/geolens/config"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	slog.SetDefault(app.NewLogger(cfg.Log, os.Stdout))
	slog.Info("geolens starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"browser", cfg.Browser.Enabled,
		"lighthouse", cfg.Lighthouse.Enabled,
	)

	// ── 3. Build engines, scorer and auditor ───────────────────────
	a, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialise", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	// ── 4. Setup router ─────────────────────────────────────────────
	router := api.NewRouter(a.Auditor, a.Fetcher, a.Cleaner, cfg, time.Now())

	// ── 5. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 6. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}
	slog.Info("geolens stopped")
}
