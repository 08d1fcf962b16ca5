package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/meditrack/internal/config"
	"github.com/jwalitptl/meditrack/internal/handler/health"
	promHandler "github.com/jwalitptl/meditrack/internal/handler/prometheus"
	"github.com/jwalitptl/meditrack/internal/middleware"
	"github.com/jwalitptl/meditrack/internal/repository/postgres"
	internalWorker "github.com/jwalitptl/meditrack/internal/worker"
	"github.com/jwalitptl/meditrack/pkg/logger"
	"github.com/jwalitptl/meditrack/pkg/messaging/redis"
	"github.com/jwalitptl/meditrack/pkg/metrics"
	"github.com/jwalitptl/meditrack/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Console:    cfg.Log.Console,
	})
	log.Logger = appLogger.ZL
	zerolog.SetGlobalLevel(logger.ParseLevel(cfg.Log.Level))
	workerLogger := appLogger.WithFields(map[string]interface{}{"worker_id": workerID()})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(ctx, redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, appLogger.ZL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Redis broker")
	}
	defer broker.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	workerMetrics := metrics.NewMetrics("meditrack_worker", reg)

	outboxRepo := postgres.NewOutboxRepository(postgres.NewBaseRepository(db))

	processor, err := worker.NewOutboxProcessor(
		outboxRepo,
		broker,
		worker.OutboxProcessorConfig{
			Channel:       cfg.Redis.Channel,
			BatchSize:     cfg.Outbox.BatchSize,
			PollInterval:  cfg.Outbox.PollInterval,
			RetryAttempts: cfg.Outbox.RetryAttempts,
			RetryDelay:    cfg.Outbox.RetryDelay,
		},
		workerLogger,
		workerMetrics,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid outbox processor configuration")
	}

	cleanup := internalWorker.NewOutboxCleanupWorker(
		outboxRepo,
		cfg.Outbox.RetentionDays,
		cfg.Outbox.CleanupInterval,
		workerLogger,
		workerMetrics,
	)

	srv := healthServer(cfg.Outbox.HealthPort, reg, map[string]health.CheckFunc{
		"database": db.PingContext,
		"broker":   broker.Ping,
	})
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Health check server failed")
			stop()
		}
	}()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		processor.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		cleanup.Start(ctx)
	}()

	log.Info().Msg("Worker started")
	<-ctx.Done()
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Health server forced to shutdown")
	}
	wg.Wait()
}

func healthServer(port int, reg *prometheus.Registry, checks map[string]health.CheckFunc) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(middleware.Recovery())

	root := engine.Group("")
	health.NewHandler(checks).RegisterRoutes(root)
	promHandler.New(reg).RegisterRoutes(root)

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: engine,
	}
}

func workerID() string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return fmt.Sprintf("worker-%s-%d", hostname, os.Getpid())
}
