// AngelaMos | 2026
// main.go

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

	"github.com/go-chi/chi/v5"

	"github.com/servicesync/backend/internal/admin"
	"github.com/servicesync/backend/internal/assistant"
	"github.com/servicesync/backend/internal/auth"
	"github.com/servicesync/backend/internal/config"
	"github.com/servicesync/backend/internal/core"
	"github.com/servicesync/backend/internal/health"
	"github.com/servicesync/backend/internal/listing"
	"github.com/servicesync/backend/internal/middleware"
	"github.com/servicesync/backend/internal/payment"
	"github.com/servicesync/backend/internal/server"
	"github.com/servicesync/backend/internal/user"
)

const (
	drainDelay         = 5 * time.Second
	tokenSweepInterval = time.Hour
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	if _, statErr := os.Stat(cfg.JWT.PrivateKeyPath); os.IsNotExist(statErr) &&
		cfg.IsDevelopment() {
		logger.Warn("signing key missing, generating a development key pair",
			"path", cfg.JWT.PrivateKeyPath,
		)
		if genErr := auth.GenerateKeyPair(
			cfg.JWT.PrivateKeyPath,
			cfg.JWT.PublicKeyPath,
		); genErr != nil {
			return genErr
		}
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	rolePolicy := user.NewRolePolicy(cfg.Roles)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, rolePolicy)
	userHandler := user.NewHandler(userSvc)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(authRepo, jwtManager, userSvc)
	authHandler := auth.NewHandler(authSvc)

	listingRepo := listing.NewRepository(db.DB)
	listingSvc := listing.NewService(listingRepo, userSvc)
	listingHandler := listing.NewHandler(listingSvc)

	paymentGateway := payment.NewStripeGateway(cfg.Payment, logger)
	paymentHandler := payment.NewHandler(paymentGateway)

	assistantClient := assistant.NewGeminiClient(cfg.Assistant, logger)
	assistantHandler := assistant.NewHandler(assistantClient)

	healthHandler := health.NewHandler(db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:      db.Stats,
		RedisStats:   redis.PoolStats,
		DBPing:       db.Ping,
		RedisPing:    redis.Ping,
		UserCount:    userSvc.CountUsers,
		ListingCount: listingSvc.CountAll,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	roleLimits := middleware.RoleRateLimiter(
		redis.Client,
		middleware.DefaultRoleLimits,
	)

	// Role-aware limits only make sense once claims are on the context,
	// so the limiter rides behind the authenticator.
	verifyToken := middleware.Authenticator(jwtManager)
	authenticator := func(next http.Handler) http.Handler {
		return verifyToken(roleLimits(next))
	}
	developerOnly := middleware.RequireDeveloper

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterAdminRoutes(r, authenticator, developerOnly)
		listingHandler.RegisterRoutes(r, authenticator)
		paymentHandler.RegisterRoutes(r, authenticator)
		assistantHandler.RegisterRoutes(r, authenticator)
		adminHandler.RegisterRoutes(r, authenticator, developerOnly)
	})

	go func() {
		ticker := time.NewTicker(tokenSweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, sweepErr := authSvc.CleanupExpiredTokens(ctx)
				if sweepErr != nil {
					logger.Warn("refresh token sweep failed", "error", sweepErr)
					continue
				}
				if n > 0 {
					logger.Info("expired refresh tokens removed", "count", n)
				}
			}
		}
	}()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
