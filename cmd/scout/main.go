package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"eventscout/internal/config"
	"eventscout/internal/discovery"
	"eventscout/internal/notify"
	"eventscout/internal/oracle"
	"eventscout/internal/ranking"
	"eventscout/internal/registrar"
	"eventscout/internal/scheduler"
	"eventscout/internal/scout"
	"eventscout/internal/storage"
)

func main() {
	runNow := flag.Bool("now", false, "run the pipeline once and exit")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error("create data directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Error("open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	httpClient := &http.Client{}

	s := scout.New(
		cfg,
		discovery.New(httpClient, log),
		ranking.New(oracle.New(cfg.AnthropicAPIKey, log), cfg.Keywords, cfg.Cities, log),
		registrar.New(cfg.Contact, log),
		notify.New(cfg, log),
		store,
		httpClient,
		log,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *runNow {
		log.Info("running immediate scan")
		if _, err := s.Run(ctx); err != nil {
			log.Error("scout run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	log.Info("starting scheduler", "interval", cfg.ScoutInterval)
	scheduler.New(s, cfg.ScoutInterval, log).Run(ctx)
	log.Info("scheduler stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
