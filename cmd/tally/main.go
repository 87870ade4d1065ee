package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/tally-lab/tally/internal/aggregation"
	"github.com/tally-lab/tally/internal/cache"
	corecfg "github.com/tally-lab/tally/internal/core/config"
	"github.com/tally-lab/tally/internal/core/storage"
	"github.com/tally-lab/tally/internal/core/storage/clickhouse"
	"github.com/tally-lab/tally/internal/core/storage/memory"
	"github.com/tally-lab/tally/internal/core/storage/postgres"
	"github.com/tally-lab/tally/internal/ingestion"
	"github.com/tally-lab/tally/internal/migrations"
	"github.com/tally-lab/tally/internal/projection"
	"github.com/tally-lab/tally/internal/server"
)

func main() {
	configPath := flag.String("config", corecfg.DefaultPath, "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger (reconfigured once the level is known)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to read .env file", "error", err)
	}

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.Log))
	slog.Info("Loaded config",
		"database", cfg.Database.Type,
		"rollup_mode", cfg.Aggregation.RollupMode,
		"events_sink", cfg.EventsSink.Type,
		"cache", cfg.Cache.Type,
	)

	// 2. Initialize Storage
	store, err := openStore(cfg.Database)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// 3. Optional collaborators: events sink and stats cache
	var sink *clickhouse.Sink
	if cfg.EventsSink.Type == "clickhouse" {
		ch := cfg.EventsSink.ClickHouse
		sink, err = clickhouse.Open(context.Background(), clickhouse.Options{
			Addr:        ch.Addr,
			Database:    ch.Database,
			Username:    ch.Username,
			Password:    ch.Password,
			DialTimeout: ch.DialTimeout,
		})
		if err != nil {
			slog.Error("Failed to initialize events sink", "error", err)
			os.Exit(1)
		}
		defer sink.Close()
	}

	var statsCache cache.StatsCache = cache.Noop{}
	if cfg.Cache.Type == "redis" {
		rc, err := cache.NewRedis(cache.RedisOptions{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			TTL:      cfg.Cache.TTL,
		})
		if err != nil {
			// The cache is an accelerator only.
			slog.Warn("Redis unavailable, stats cache disabled", "error", err)
		} else {
			statsCache = rc
		}
	}
	defer statsCache.Close()

	// 4. Initialize Aggregation
	job := aggregation.NewBatchJob(store, store, store, aggregation.BatchJobParameter{
		BatchSize:   cfg.Aggregation.BatchSize,
		WorkerCount: cfg.Aggregation.WorkerCount,
		ClaimLease:  cfg.Aggregation.ClaimLease,
		Mode:        cfg.Aggregation.Mode(),
	}).WithCache(statsCache)
	if sink != nil {
		job.WithSink(sink)
	}
	scheduler := aggregation.NewScheduler(
		cfg.Aggregation.CronInterval,
		job,
		job.Options().BatchSize,
		cfg.Aggregation.MaxConsecutiveBatches,
	)
	aggregationSvc := aggregation.NewService(job, store)

	slog.Info("Aggregation initialized",
		"interval", cfg.Aggregation.CronInterval,
		"enabled", cfg.Aggregation.Enabled,
		"batch_size", job.Options().BatchSize,
		"worker_count", job.Options().WorkerCount,
		"claim_lease", job.Options().ClaimLease,
	)

	// 5. Initialize Ingestion (background dispatcher in front of the queue)
	dispatcher := ingestion.NewDispatcher(store, cfg.Ingestion.EnqueueTimeout, cfg.Ingestion.MaxInFlight)
	ingestionSvc := ingestion.NewService(dispatcher, cfg.Server.MaxBodySizeMB)

	// 6. Initialize Projection (stats API)
	projectionSvc := projection.NewService(store, statsCache)

	// 7. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), store, server.Options{
		Mode:               cfg.Server.Mode,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		MetricsEnabled:     cfg.Metrics.Enabled,
		MetricsPath:        cfg.Metrics.Path,
	})
	ingestionSvc.RegisterRoutes(srv.Engine)
	aggregationSvc.RegisterRoutes(srv.Engine)
	projectionSvc.RegisterRoutes(srv.Engine)

	// 8. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	schedulerDone := make(chan struct{})
	if cfg.Aggregation.Enabled {
		go func() {
			defer close(schedulerDone)
			if err := scheduler.Start(ctx); err != nil {
				slog.Error("Scheduler stopped with error", "error", err)
			}
		}()
	} else {
		close(schedulerDone)
		slog.Info("Aggregation scheduler disabled by config")
	}

	// Signal handler → triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled and in-flight requests finish.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
		cancel()
	}

	// Flush queue inserts still in flight from accepted requests.
	drainCtx, drainCancel := context.WithTimeout(context.Background(), cfg.Ingestion.DrainTimeout)
	if err := dispatcher.Close(drainCtx); err != nil {
		slog.Warn("Dispatcher did not drain in time", "error", err, "in_flight", dispatcher.InFlight())
	}
	drainCancel()

	<-schedulerDone
	slog.Info("Shutdown complete")
}

// openStore selects the backend and, for postgres, migrates before the
// adapters validate the schema.
func openStore(cfg corecfg.DatabaseConfig) (storage.Store, error) {
	switch cfg.Type {
	case "memory":
		slog.Warn("Using in-memory store, data is lost on restart")
		return memory.New(), nil
	case "postgres":
		db, err := postgres.Open(cfg.DSN, cfg.MaxOpenConns, cfg.MaxIdleConns)
		if err != nil {
			return nil, err
		}
		if err := migrations.RunMigrations(db, cfg.AutoMigrate); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		store, err := postgres.NewStore(db)
		if err != nil {
			db.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.Type)
	}
}

func newLogger(cfg corecfg.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
