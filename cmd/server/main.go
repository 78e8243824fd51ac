package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jobdeck/jobdeck/api"
	dbfs "github.com/jobdeck/jobdeck/db"
	"github.com/jobdeck/jobdeck/internal/ai"
	"github.com/jobdeck/jobdeck/internal/config"
	"github.com/jobdeck/jobdeck/internal/db"
	"github.com/jobdeck/jobdeck/internal/delivery"
	"github.com/jobdeck/jobdeck/internal/jobs"
	"github.com/jobdeck/jobdeck/internal/repository/rediscache"
	"github.com/jobdeck/jobdeck/internal/repository/sqlite"
	"github.com/jobdeck/jobdeck/internal/scheduler"
	"github.com/jobdeck/jobdeck/pkg/ollama"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	api.SetLogger(logger)
	ollama.SetLogger(logger)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "err", err)
		os.Exit(1)
	}

	logger.Info("starting jobdeck server", "version", version, "build_time", buildTime)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		logger.Error("open db", "err", err)
		os.Exit(1)
	}
	if err := db.Migrate(ctx, conn, dbfs.Migrations, dbfs.SeedFiles); err != nil {
		logger.Error("migrate db", "err", err)
		os.Exit(1)
	}

	repo := sqlite.New(conn, logger)

	// optional redis cart count cache; nil is a valid (disabled) cache
	var cache *rediscache.CartCountCache
	if cfg.RedisURL != "" {
		cache, err = rediscache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, cart counts fall back to sqlite", "err", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	// AI engine; parse endpoints degrade to 503 without it
	var engine *ai.Engine
	llm, err := ollama.NewDefaultClient(cfg.Ollama)
	if err != nil {
		logger.Warn("ollama client unavailable, AI parsing disabled", "err", err)
	} else {
		defer llm.Close()
		engine, err = ai.NewEngine(llm, cfg.EngineConfig, logger)
		if err != nil {
			logger.Error("build AI engine", "err", err)
			os.Exit(1)
		}
	}

	// background dispatch workers
	queue := jobs.NewRepository(conn)
	handlers := map[string]jobs.Handler{
		delivery.DispatchJobType: delivery.DispatchHandler(repo, logger),
	}
	pool := jobs.NewWorkerPool(queue, handlers, logger, cfg.DispatchWorkers)
	pool.Start(ctx)
	defer pool.Stop()

	// cron maintenance: posting expiry + delivery advancement
	expiryAge := time.Duration(cfg.JobExpiryDays) * 24 * time.Hour
	sched := scheduler.New(repo, repo, queue, cfg.ExpirySchedule, expiryAge, logger)
	if err := sched.Start(ctx); err != nil {
		logger.Error("start scheduler", "err", err)
		os.Exit(1)
	}
	defer sched.Stop()

	opts := api.Options{CartCache: cache, Queue: queue}
	if engine != nil {
		opts.PostingParser = engine
		opts.ResumeParser = engine
	}
	handler := api.SetupRoutes(cfg, version, buildTime, conn, opts)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "err", err)
	}

	if err := conn.Close(); err != nil {
		logger.Error("close db", "err", err)
	}

	logger.Info("server exited")
}
