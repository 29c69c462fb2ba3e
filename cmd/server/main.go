package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/condovia/condo-server-go/internal/config"
	"github.com/condovia/condo-server-go/internal/database"
	"github.com/condovia/condo-server-go/internal/handler"
	"github.com/condovia/condo-server-go/internal/jobs"
	"github.com/condovia/condo-server-go/internal/metrics"
	"github.com/condovia/condo-server-go/internal/middleware"
	"github.com/condovia/condo-server-go/internal/redis"
	"github.com/condovia/condo-server-go/internal/repository"
	"github.com/condovia/condo-server-go/internal/service"
	"github.com/condovia/condo-server-go/internal/sse"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	if err := db.Migrate(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	eventRepo := repository.NewAccessEventRepository(db)
	codeRepo := repository.NewAccessCodeRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	parkingRepo := repository.NewParkingRepository(db)

	broker := sse.NewBroker(redisClient)
	defer broker.Close()

	m := metrics.New()

	authService := service.NewAuthService(userRepo, sessionRepo, cfg.SessionSecret)
	ledgerService := service.NewLedgerService(eventRepo, broker, m, nil)
	codeService := service.NewAccessCodeService(codeRepo, m, nil)
	directoryService := service.NewDirectoryService(userRepo)
	userService := service.NewUserService(userRepo, m)
	paymentService := service.NewPaymentService(paymentRepo, userRepo, nil)
	announcementService := service.NewAnnouncementService(announcementRepo)
	parkingService := service.NewParkingService(parkingRepo, userRepo, nil)
	rateLimiter := service.NewRateLimiter(redisClient.Client)

	sessionMiddleware := middleware.NewSessionMiddleware(authService)

	isProduction := cfg.IsProduction()
	csrfMiddleware := middleware.NewCSRFMiddleware(isProduction)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(isProduction)

	authHandler := handler.NewAuthHandler(authService, rateLimiter, sessionMiddleware.Handler, isProduction)
	guardHandler := handler.NewGuardHandler(
		ledgerService, codeService, directoryService, parkingService, announcementService,
		broker, sessionMiddleware.Handler,
	)
	residentHandler := handler.NewResidentHandler(
		ledgerService, codeService, paymentService, announcementService, parkingService,
		rateLimiter, sessionMiddleware.Handler,
	)
	adminHandler := handler.NewAdminHandler(
		userService, ledgerService, paymentService, announcementService, parkingService,
		sessionMiddleware.Handler,
	)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Use(securityHeadersMiddleware.Handler)
		r.Use(csrfMiddleware.Handler)

		r.Mount("/auth", authHandler.Routes())
		r.Mount("/guard", guardHandler.Routes())
		r.Mount("/resident", residentHandler.Routes())
		r.Mount("/admin", adminHandler.Routes())
	})

	r.Get("/*", handler.StaticFileServer(cfg.StaticDir).ServeHTTP)

	cleanupJob := jobs.NewCleanupJob(sessionRepo, paymentRepo, config.CleanupJobInterval)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
