package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/meditrack/internal/config"
	"github.com/jwalitptl/meditrack/internal/email"
	announcementHandler "github.com/jwalitptl/meditrack/internal/handler/announcement"
	authHandler "github.com/jwalitptl/meditrack/internal/handler/auth"
	"github.com/jwalitptl/meditrack/internal/handler/health"
	promHandler "github.com/jwalitptl/meditrack/internal/handler/prometheus"
	requestHandler "github.com/jwalitptl/meditrack/internal/handler/request"
	residentHandler "github.com/jwalitptl/meditrack/internal/handler/resident"
	"github.com/jwalitptl/meditrack/internal/middleware"
	"github.com/jwalitptl/meditrack/internal/repository/postgres"
	"github.com/jwalitptl/meditrack/internal/router"
	announcementService "github.com/jwalitptl/meditrack/internal/service/announcement"
	authService "github.com/jwalitptl/meditrack/internal/service/auth"
	dashboardService "github.com/jwalitptl/meditrack/internal/service/dashboard"
	notificationService "github.com/jwalitptl/meditrack/internal/service/notification"
	requestService "github.com/jwalitptl/meditrack/internal/service/request"
	residentService "github.com/jwalitptl/meditrack/internal/service/resident"
	"github.com/jwalitptl/meditrack/pkg/auth"
	"github.com/jwalitptl/meditrack/pkg/circuitbreaker"
	"github.com/jwalitptl/meditrack/pkg/logger"
	"github.com/jwalitptl/meditrack/pkg/mailer"
	"github.com/jwalitptl/meditrack/pkg/metrics"
	"github.com/jwalitptl/meditrack/pkg/security"
	"github.com/jwalitptl/meditrack/pkg/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Console:    cfg.Log.Console,
	})
	log.Logger = appLogger.ZL
	zerolog.SetGlobalLevel(logger.ParseLevel(cfg.Log.Level))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.NewMetrics("meditrack", reg)

	loc := cfg.Server.Location()

	// Repositories
	base := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(base)
	residentRepo := postgres.NewResidentRepository(base)
	familyRepo := postgres.NewFamilyMemberRepository(base)
	medicineRepo := postgres.NewMedicineRepository(base)
	requestRepo := postgres.NewRequestRepository(base)
	announcementRepo := postgres.NewAnnouncementRepository(base)
	assignmentRepo := postgres.NewAssignmentRepository(base)
	notificationRepo := postgres.NewNotificationRepository(base)

	proofs, err := storage.NewProofStore(storage.Config{
		Dir:               cfg.Storage.ProofDir,
		MaxBytes:          cfg.Storage.MaxProofBytes,
		AllowedExts:       cfg.Storage.AllowedExts,
		MaxImageDimension: cfg.Storage.MaxImageDimension,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare proof storage")
	}

	var emailSvc email.Service = mailer.NoopSender{}
	if cfg.SMTP.Enabled {
		emailSvc = mailer.NewSMTPSender(mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			FromName: cfg.SMTP.FromName,
		})
	} else {
		log.Warn().Msg("SMTP disabled, health worker emails will not be sent")
	}

	// Services
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	authSvc := authService.NewService(userRepo, jwtSvc, security.NewBcryptHasher(0), appLogger)
	residentSvc := residentService.NewService(residentRepo, familyRepo)
	dashboardSvc := dashboardService.NewService(requestRepo, medicineRepo, cfg.Cache.MedicineCountTTL, appLogger)
	announcementSvc := announcementService.NewService(announcementRepo, loc, appLogger)
	notifier := notificationService.NewService(
		notificationRepo,
		emailSvc,
		circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "smtp",
			MaxFailures: cfg.Notification.BreakerFailures,
			Timeout:     cfg.Notification.BreakerTimeout,
		}),
		appLogger,
		appMetrics,
	)
	requestSvc := requestService.NewService(
		requestRepo,
		medicineRepo,
		familyRepo,
		residentRepo,
		assignmentRepo,
		proofs,
		notifier,
		appLogger,
		appMetrics,
	)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.Security.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Security.AllowedOrigins
	}

	r := router.NewRouter(
		middleware.NewAuthMiddleware(authSvc, cfg.JWT.CookieName),
		residentSvc,
		router.Handlers{
			Health: health.NewHandler(map[string]health.CheckFunc{
				"database": db.PingContext,
			}),
			Metrics:      promHandler.New(reg),
			Auth:         authHandler.NewHandler(authSvc, authHandler.CookieConfig{Name: cfg.JWT.CookieName, Secure: cfg.JWT.Secure}),
			Resident:     residentHandler.NewHandler(residentSvc, dashboardSvc, announcementSvc),
			Announcement: announcementHandler.NewHandler(announcementSvc),
			Request:      requestHandler.NewHandler(requestSvc, residentSvc, loc),
		},
		appMetrics,
		router.Config{
			Mode:           cfg.Server.Mode,
			RateEnabled:    cfg.RateLimit.Enabled,
			RateLimit:      rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:      cfg.RateLimit.Burst,
			RateClientTTL:  cfg.RateLimit.ClientTTL,
			CORS:           corsConfig,
			RequestTimeout: cfg.Server.RequestTimeout,
			MaxBodyBytes:   cfg.Server.MaxBodyBytes,
			LandingPath:    cfg.Server.LandingPath,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
