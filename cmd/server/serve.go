package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/guncad/market-server-go/internal/config"
	"github.com/guncad/market-server-go/internal/database"
	"github.com/guncad/market-server-go/internal/gate"
	"github.com/guncad/market-server-go/internal/handler"
	"github.com/guncad/market-server-go/internal/jobs"
	"github.com/guncad/market-server-go/internal/middleware"
	"github.com/guncad/market-server-go/internal/redis"
	"github.com/guncad/market-server-go/internal/repository"
	"github.com/guncad/market-server-go/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	isProduction := config.IsProduction()
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	if cfg.MigrateOnStart {
		if err := database.Migrate(cfg.DatabaseURL, database.DirectionUp); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
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
	log.Info().Msg("database connected")

	healthChecks := map[string]handler.HealthCheck{"database": db.Ping}

	var limiter middleware.Limiter
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("redis connected")

		limiter = service.NewRateLimiter(redisClient.Client)
		healthChecks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	} else {
		log.Warn().Msg("REDIS_URL not set, rate limits are kept in process memory")
		limiter = middleware.NewMemoryLimiter()
	}
	cancel()

	userRepo := repository.NewUserRepository(db.DB)
	identityRepo := repository.NewAccountIdentityRepository(db.DB)
	sessionRepo := repository.NewSessionRepository(db.DB)
	bookmarkRepo := repository.NewBookmarkRepository(db.DB)
	likeRepo := repository.NewLikeRepository(db.DB)
	statsRepo := repository.NewProjectStatsRepository(db.DB)
	paymentRepo := repository.NewPaymentRepository(db.DB)

	accountService := service.NewAccountService(
		db, userRepo, identityRepo, sessionRepo,
		cfg.AccountNumberPepper, cfg.AutoApproveAccounts,
	)
	accessService := service.NewAccessService(cfg.BetaAccessPassword)
	catalogService := service.NewCatalogService(db, bookmarkRepo, likeRepo, statsRepo)
	purchaseService := service.NewPurchaseService(paymentRepo)

	var geoLookup service.GeoLookup
	if cfg.VPNAPIKey != "" {
		geoLookup = service.NewVPNAPIClient(cfg.VPNAPIKey)
	} else {
		log.Warn().Msg("VPNAPI_API_KEY not set, every purchase geo check will be denied")
	}
	geoService := service.NewGeoService(geoLookup)

	cookies := middleware.Cookies{Secure: cfg.CookieSecure}
	requestGate := gate.New(accountService, accessService, gate.DefaultRoutes())

	gateMiddleware := middleware.NewGateMiddleware(requestGate, cookies)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(isProduction)
	loginLimit := middleware.NewIPRateLimitMiddleware(limiter, service.LoginLimit)
	createLimit := middleware.NewIPRateLimitMiddleware(limiter, service.AccountCreateLimit)
	accessLimit := middleware.NewIPRateLimitMiddleware(limiter, service.AccessLimit)

	router := handler.NewRouter(handler.RouterConfig{
		Gate:            gateMiddleware.Handler,
		BodyLimit:       bodyLimitMiddleware.Handler,
		SecurityHeaders: securityHeadersMiddleware.Handler,
		AccessLimit:     accessLimit.Handler,
		Account:         handler.NewAccountHandler(accountService, cookies, createLimit.Handler, loginLimit.Handler),
		Access:          handler.NewAccessHandler(accessService, cookies),
		Catalog:         handler.NewCatalogHandler(catalogService),
		Purchases:       handler.NewPurchaseHandler(purchaseService, geoService),
		Health:          handler.NewHealthHandler(healthChecks),
		Static:          handler.NewSPAHandler(cfg.StaticDir),
	})

	cleanupJob := jobs.NewCleanupJob(sessionRepo, config.CleanupJobInterval)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Bool("production", isProduction).Msg("starting server")
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
