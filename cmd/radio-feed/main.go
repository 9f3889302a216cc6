package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"radio-content-parser/internal/app"
	"radio-content-parser/internal/config"
	"radio-content-parser/internal/fetcher"
	"radio-content-parser/internal/generator"
	"radio-content-parser/internal/observability"
	"radio-content-parser/internal/storage"
	"radio-content-parser/internal/storage/memory"
)

func main() {
	configPath := "configs/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := observability.NewLogger(observability.LoggerOptions{
		Path:       cfg.Observability.LogPath,
		Level:      cfg.Observability.LogLevel,
		MaxSizeMB:  cfg.Observability.LogMaxSizeMB,
		MaxBackups: cfg.Observability.LogMaxBackups,
		MaxAgeDays: cfg.Observability.LogMaxAgeDays,
	})
	defer func() { _ = logger.Close() }()

	prompts, err := cfg.LoadPrompts()
	if err != nil {
		logger.Error("Failed to load prompts", "error", err.Error())
		os.Exit(1)
	}
	builder, err := generator.NewPromptBuilder(cfg, prompts)
	if err != nil {
		logger.Error("Invalid prompt templates", "error", err.Error())
		os.Exit(1)
	}

	if cfg.Generator.APIKey == "" {
		logger.Warn("API key is not set, feeds will need authorization", "env", cfg.Generator.APIKeyEnv)
	}

	metrics := observability.NewMetrics()
	repo := memory.NewRepository(logger)
	orchestrator := app.NewOrchestrator(
		cfg,
		logger,
		metrics,
		generator.NewGeminiProvider(cfg, logger),
		builder,
		fetcher.NewFetcher(cfg, logger),
		repo,
	)

	ctx, cancel := app.GracefulShutdown(context.Background(), logger)
	defer cancel()

	if cfg.Observability.MetricsAddr != "" {
		srv := serveMetrics(cfg, metrics, logger)
		defer func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	logger.Info("Radio feed started",
		"mode", cfg.Scheduler.Mode,
		"model", cfg.Generator.Model,
		"config", configPath,
	)

	if cfg.Scheduler.Mode == "interval" {
		app.NewPoller(orchestrator, logger, cfg.GetSchedulerInterval(), cfg.GetSchedulerMaxBackoff()).Run(ctx)
		return
	}

	failed := 0
	for kind, err := range orchestrator.RefreshAll(ctx) {
		if err != nil {
			failed++
			logger.Error("Feed refresh failed", "kind", kind, "state", orchestrator.Status(kind).State, "error", err.Error())
		}
	}

	if err := printFeeds(ctx, repo); err != nil {
		logger.Error("Failed to print feeds", "error", err.Error())
		os.Exit(1)
	}

	if failed == len(app.Kinds) {
		os.Exit(1)
	}
}

func serveMetrics(cfg *config.Config, metrics *observability.Metrics, logger *observability.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Observability.MetricsPath, metrics.Handler())

	srv := &http.Server{
		Addr:              cfg.Observability.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Metrics server listening", "addr", srv.Addr, "path", cfg.Observability.MetricsPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "error", err.Error())
		}
	}()
	return srv
}

// printFeeds выводит последние снимки лент в stdout как JSON
func printFeeds(ctx context.Context, repo storage.Repository) error {
	out := make(map[string]any, len(app.Kinds))
	for _, kind := range app.Kinds {
		snap, err := repo.LatestSnapshot(ctx, kind)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		switch kind {
		case app.KindEvents:
			out[kind] = snap.Events
		case app.KindNews:
			out[kind] = snap.News
		case app.KindTicker:
			out[kind] = snap.Ticker
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal feeds: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
