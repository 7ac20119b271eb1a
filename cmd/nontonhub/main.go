package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nontonhub/nontonhub/internal/aggregate"
	"github.com/nontonhub/nontonhub/internal/api"
	"github.com/nontonhub/nontonhub/internal/config"
	"github.com/nontonhub/nontonhub/internal/history"
	"github.com/nontonhub/nontonhub/internal/metrics"
	"github.com/nontonhub/nontonhub/internal/pager"
	"github.com/nontonhub/nontonhub/internal/upstream"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting nontonhub", "config", *configPath)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize watch history storage (postgres, sqlite, or memory)
	historyStore, err := history.Open(history.Config{
		DatabaseURL: cfg.History.DatabaseURL,
		SQLitePath:  cfg.History.SQLitePath,
	})
	if err != nil {
		slog.Error("Failed to open history store", "error", err)
		os.Exit(1)
	}
	defer historyStore.Close()

	// Initialize upstream provider adapters
	primary := upstream.NewCurated(upstream.Options{
		BaseURL:       cfg.Providers.Curated.BaseURL,
		ListTimeout:   time.Duration(cfg.Providers.Curated.ListTimeout) * time.Second,
		DetailTimeout: time.Duration(cfg.Providers.Curated.DetailTimeout) * time.Second,
	})
	secondary := upstream.NewDramaBox(upstream.Options{
		BaseURL:       cfg.Providers.DramaBox.BaseURL,
		ListTimeout:   time.Duration(cfg.Providers.DramaBox.ListTimeout) * time.Second,
		DetailTimeout: time.Duration(cfg.Providers.DramaBox.DetailTimeout) * time.Second,
	})
	tertiary := upstream.NewBotraiki(upstream.Options{
		BaseURL:        cfg.Providers.Botraiki.BaseURL,
		ListTimeout:    time.Duration(cfg.Providers.Botraiki.ListTimeout) * time.Second,
		DetailTimeout:  time.Duration(cfg.Providers.Botraiki.DetailTimeout) * time.Second,
		EpisodeTimeout: time.Duration(cfg.Providers.Botraiki.EpisodeTimeout) * time.Second,
		ProbeTimeout:   time.Duration(cfg.Providers.Botraiki.ProbeTimeout) * time.Second,
	})
	slog.Info("Upstream providers initialized",
		"primary", primary.Name(),
		"secondary", secondary.Name(),
		"tertiary", tertiary.Name(),
	)

	// Initialize metrics
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	// Initialize the virtual pager and provider cascade
	pg := pager.New(cfg.Paging.UISize, cfg.Paging.APISize)
	aggregator := aggregate.New(primary, secondary, tertiary, pg, cfg.Filter.Denylist, m)

	// Initialize servers
	apiServer := api.NewServer(aggregator, historyStore, m)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: apiServer.Handler(),
	}

	var metricsServer *metrics.Server
	if cfg.Server.MetricsPort > 0 {
		metricsServer = metrics.NewServer(cfg.Server.MetricsPort, registry)
	}

	// Start servers in goroutines
	go func() {
		slog.Info("Starting REST API server", "port", cfg.Server.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("REST API server error", "error", err)
		}
	}()

	if metricsServer != nil {
		go func() {
			if err := metricsServer.Start(); err != nil {
				slog.Error("Metrics server error", "error", err)
			}
		}()
	}

	slog.Info("nontonhub is ready",
		"api_url", fmt.Sprintf("http://localhost:%d/api", cfg.Server.HTTPPort),
	)

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	slog.Info("Received signal, shutting down", "signal", sig)

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("REST API server shutdown error", "error", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			slog.Error("Metrics server shutdown error", "error", err)
		}
	}

	slog.Info("nontonhub stopped")
}
