package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/auth"
	"fintrack/internal/cache"
	"fintrack/internal/config"
	"fintrack/internal/events"
	apphttp "fintrack/internal/http"
	applog "fintrack/internal/log"
	"fintrack/internal/report"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentApp,
		Format:    cfg.LogFormat,
	})
	slog.SetDefault(logger.Logger)

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Session store: Redis when configured, in-process otherwise.
	var tokenStore auth.TokenStore
	if cfg.RedisURL != "" {
		redisStore, err := auth.NewRedisStore(cfg.RedisURL)
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisStore.Close()
		tokenStore = redisStore
		logger.Info("Using Redis session store")
	} else {
		tokenStore = auth.NewMemoryStore()
		logger.Info("Using in-memory session store")
	}
	authSvc := auth.NewService(tokenStore, cfg.SessionTTL, cfg.BcryptCost)

	// AMQP is optional; without it budget alerts are skipped.
	var alerts services.AlertPublisher
	if cfg.AMQPURL != "" {
		client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		alerts = client
		logger.Info("Budget alerts enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Budget alerts disabled - no AMQP_URL provided")
	}

	summaries := cache.NewLRU[services.SummaryReport](cfg.ReportCacheSize, cfg.ReportCacheTTL)
	trends := cache.NewLRU[[]report.MonthSummary](cfg.ReportCacheSize, cfg.ReportCacheTTL)
	cacheMgr := cache.NewManager()
	cacheMgr.Register(summaries)
	cacheMgr.Register(trends)
	cacheMgr.StartCleanup(time.Minute)
	defer cacheMgr.Stop()

	reports := services.NewReportService(repo, summaries, trends)
	users := services.NewUserService(repo, authSvc)
	transactions := services.NewTransactionService(repo, alerts, reports)
	budgets := services.NewBudgetService(repo, reports)

	srv := apphttp.NewServer(":"+cfg.Port, cfg.AllowedOrigin,
		users, transactions, budgets, reports, authSvc, repo, repo)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting fintrack server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
