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

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/graphiti-systems/graphiti/internal/archive"
	"github.com/graphiti-systems/graphiti/internal/config"
	"github.com/graphiti-systems/graphiti/internal/consumer"
	"github.com/graphiti-systems/graphiti/internal/engine"
	"github.com/graphiti-systems/graphiti/internal/handlers"
	"github.com/graphiti-systems/graphiti/internal/logging"
	"github.com/graphiti-systems/graphiti/internal/models"
	"github.com/graphiti-systems/graphiti/internal/server"
	"github.com/graphiti-systems/graphiti/internal/settings"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the graphiti daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	)
	logging.SetDefault(logger)

	slog.Info("Starting graphiti",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Logging.Level),
		slog.Bool("redis", cfg.Redis.Enabled),
		slog.Bool("nats", cfg.NATS.Enabled),
	)

	// Durable stores are optional: without Redis the engine runs hot-only
	// and evicted events are dropped with a warning.
	var (
		batchStore    archive.BatchStore
		snapshotStore archive.SnapshotStore
		settingsStore settings.Store
		retention     *archive.Retention
	)
	if cfg.Redis.Enabled {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("invalid redis url: %w", err)
		}
		client := redis.NewClient(opts)
		defer client.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			cancel()
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		cancel()

		batchStore = archive.NewRedisBatchStore(client)
		snapshotStore = archive.NewRedisSnapshotStore(client)
		settingsStore = settings.NewRedisStore(client)

		retention = archive.NewRetention(batchStore,
			models.RetentionPeriod(cfg.Retention.Period),
			cfg.Retention.KeepCount, logger)
		retention.Start(cfg.Retention.SweepInterval)
		defer retention.Stop()
	} else {
		slog.Warn("Redis disabled - archival, snapshots, and retention are unavailable")
	}

	enabled := cfg.Engine.Enabled
	if settingsStore != nil {
		// A persisted gate from a previous run wins over config.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if v, err := settingsStore.Get(ctx, settings.KeyEnabled); err == nil && v != "" {
			enabled = v == "true"
		}
		cancel()
	}

	eng := engine.New(engine.Options{
		Enabled:    enabled,
		BatchSize:  cfg.Engine.ArchiveBatchSize,
		Debounce:   cfg.Engine.DebounceInterval,
		HistoryCap: cfg.Engine.MetricsHistory,
		Batches:    batchStore,
		Settings:   settingsStore,
		Logger:     logger,
	})

	if cfg.NATS.Enabled {
		c, err := consumer.New(consumer.Config{
			URL:     cfg.NATS.URL,
			Subject: cfg.NATS.Subject,
			Name:    "graphiti",
		}, eng, logger)
		if err != nil {
			return fmt.Errorf("failed to start nats consumer: %w", err)
		}
		defer c.Close()
	}

	h := handlers.New(eng, snapshotStore, batchStore, retention, settingsStore, logger)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.NewRouter(h, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		slog.Info("Shutting down", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	return nil
}
