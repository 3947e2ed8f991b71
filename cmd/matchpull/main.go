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

	"github.com/matchpull/matchpull/api"
	"github.com/matchpull/matchpull/config"
	"github.com/matchpull/matchpull/fetcher"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("matchpull starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"season", cfg.Output.Season,
	)

	// ── 3. Open the browser session ─────────────────────────────────
	sess := fetcher.NewSession(cfg.Browser, cfg.Fetcher)
	if err := sess.Open(); err != nil {
		slog.Error("failed to open browser session", "error", err)
		os.Exit(1)
	}
	defer sess.Close()

	// ── 4. Wire the retrying fetcher over the session ───────────────
	pageFetcher := fetcher.New(sess, cfg.Fetcher)

	// ── 5. Setup router ─────────────────────────────────────────────
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		slog.Error("failed to create output directory", "dir", cfg.Output.Dir, "error", err)
		os.Exit(1)
	}
	startTime := time.Now()
	router := api.NewRouter(sess, pageFetcher, cfg, startTime)

	// ── 6. Start HTTP server ────────────────────────────────────────
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

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight requests 5 seconds to complete; a running batch
	// keeps its job state but stops getting new poller requests.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	// sess.Close() runs via defer — kills the Chrome process.
	slog.Info("matchpull stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
