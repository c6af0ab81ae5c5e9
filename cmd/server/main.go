package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/trademate/portal-server-go/internal/audit"
	"github.com/trademate/portal-server-go/internal/config"
	"github.com/trademate/portal-server-go/internal/database"
	"github.com/trademate/portal-server-go/internal/handler"
	"github.com/trademate/portal-server-go/internal/jobs"
	"github.com/trademate/portal-server-go/internal/middleware"
	"github.com/trademate/portal-server-go/internal/notify"
	"github.com/trademate/portal-server-go/internal/redis"
	"github.com/trademate/portal-server-go/internal/repository"
	"github.com/trademate/portal-server-go/internal/service"
)

const portalAPIRoot = "/api/portal"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("FLY_APP_NAME") != "" || os.Getenv("APP_ENV") == "production"
	if err := cfg.Validate(isProduction); err != nil {
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

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	accountRepo := repository.NewPortalAccountRepository(db.DB)
	sessionRepo := repository.NewPortalSessionRepository(db.DB)
	activityRepo := repository.NewActivityRepository(db.DB)
	quoteRepo := repository.NewQuoteRepository(db.DB)
	signatureRepo := repository.NewESignatureRepository(db.DB)
	jobRepo := repository.NewJobRepository(db.DB)
	invoiceRepo := repository.NewInvoiceRepository(db.DB)
	paymentRepo := repository.NewPaymentRepository(db.DB)
	serviceRequestRepo := repository.NewServiceRequestRepository(db.DB)
	messageRepo := repository.NewMessageRepository(db.DB)

	recorder := audit.NewRecorder(activityRepo)

	verifier, err := service.NewCredentialVerifier(cfg.CredentialMode)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid credential mode")
	}
	if cfg.CredentialMode == config.CredentialModePermissive {
		log.Warn().Msg("portal login accepts any password (PORTAL_CREDENTIAL_MODE=permissive)")
	}

	var notifier notify.Notifier
	if cfg.NotifierURL != "" {
		notifier = notify.NewHTTPNotifier(cfg.NotifierURL, cfg.NotifierAPIKey, config.NotifierTimeout, config.NotifierRetryCount)
	} else {
		notifier = notify.NewLogNotifier()
	}

	idempotency := redis.NewIdempotencyStore(redisClient.Client, config.IdempotencyKeyTTL)

	sessionService := service.NewSessionService(sessionRepo, accountRepo)
	authService := service.NewAuthService(accountRepo, sessionRepo, recorder, verifier, notifier, service.AuthOptions{
		MagicLinkBaseURL:     cfg.MagicLinkBaseURL,
		ReturnMagicLinkToken: cfg.MagicLinkReturnToken,
	})
	quoteService := service.NewQuoteService(db, quoteRepo, signatureRepo, recorder)
	jobService := service.NewJobService(jobRepo)
	invoiceService := service.NewInvoiceService(db, invoiceRepo, paymentRepo, idempotency)
	serviceRequestService := service.NewServiceRequestService(serviceRequestRepo, recorder)
	messageService := service.NewMessageService(messageRepo)

	// Login throttling must hold during a redis outage; per-account limits
	// on authenticated routes degrade open.
	loginLimiter := service.NewRateLimiter(redisClient.Client)
	accountLimiter := service.NewFailOpenRateLimiter(redisClient.Client)

	sessionMiddleware := middleware.NewPortalSessionMiddleware(sessionService)
	loginRateLimit := middleware.NewIPRateLimitMiddleware(loginLimiter, cfg.LoginRateLimitPerMin, time.Minute, "login")
	accountRateLimit := middleware.NewAccountRateLimitMiddleware(accountLimiter, cfg.AccountRateLimitPerMin, time.Minute)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(config.MaxRequestBodyBytes)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(isProduction)

	authHandler := handler.NewAuthHandler(authService)
	quoteHandler := handler.NewQuoteHandler(quoteService)
	jobHandler := handler.NewJobHandler(jobService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	serviceRequestHandler := handler.NewServiceRequestHandler(serviceRequestService)
	messageHandler := handler.NewMessageHandler(messageService)
	healthHandler := handler.NewHealthHandler(map[string]handler.Pinger{
		"postgres": db,
		"redis":    redisClient,
	}, config.DBPingTimeout)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))

	healthHandler.Routes(r)
	r.Handle("/metrics", promhttp.Handler())

	r.Route(portalAPIRoot, func(r chi.Router) {
		r.Use(securityHeadersMiddleware.Handler)
		r.Use(bodyLimitMiddleware.Handler)

		r.Group(func(r chi.Router) {
			r.Use(loginRateLimit.Handler)
			authHandler.PublicRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(sessionMiddleware.Handler)
			r.Use(accountRateLimit.Handler)
			authHandler.Routes(r)
			quoteHandler.Routes(r)
			jobHandler.Routes(r)
			invoiceHandler.Routes(r)
			serviceRequestHandler.Routes(r)
			messageHandler.Routes(r)
		})
	})

	stopPurge := jobs.StartSessionPurge(cfg.SessionPurgeEnabled, sessionRepo)
	defer stopPurge()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerRequestTimeout + 5*time.Second,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("credentialMode", verifier.Name()).Msg("starting server")
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
