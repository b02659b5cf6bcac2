package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"go-travel-planner/internal/config"
	"go-travel-planner/internal/database"
	"go-travel-planner/internal/generator"
	"go-travel-planner/internal/handler"
	"go-travel-planner/internal/middleware"
	"go-travel-planner/internal/repository"
	"go-travel-planner/internal/router"
	"go-travel-planner/internal/service"
	"go-travel-planner/internal/session"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()
	a := &App{}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, database.PoolConfig{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.cleanupFuncs = append(a.cleanupFuncs, db.Close)

	if err := db.Migrate(ctx); err != nil {
		a.cleanup()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	var rdb *redis.Client
	var counters middleware.CounterStore = middleware.NewMemoryStore(time.Now)
	if cfg.RedisAddr != "" {
		rdb, err = database.ConnectRedis(ctx, database.RedisConfig{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err != nil {
			a.cleanup()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.cleanupFuncs = append(a.cleanupFuncs, func() { _ = rdb.Close() })
		counters = middleware.NewRedisStore(rdb)
		slog.Info("auth rate limiter using redis", "addr", cfg.RedisAddr)
	} else {
		slog.Info("auth rate limiter using process memory")
	}

	issuer, err := session.NewIssuer(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		a.cleanup()
		return nil, fmt.Errorf("failed to initialize session issuer: %w", err)
	}
	cookies := session.NewCookieTransport(cfg.SessionTTL, cfg.CookieSecure)

	clientIP, err := middleware.NewClientIPResolver(cfg.TrustedProxies)
	if err != nil {
		a.cleanup()
		return nil, fmt.Errorf("failed to parse trusted proxies: %w", err)
	}

	userRepo := repository.NewUserRepository(db.Pool)
	tripRepo := repository.NewTripRepository(db.Pool)
	messageRepo := repository.NewMessageRepository(db.Pool)

	authService, err := service.NewAuthService(userRepo, issuer)
	if err != nil {
		a.cleanup()
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}
	profileService := service.NewProfileService(userRepo, authService, service.NewAvatarProcessor(cfg.AvatarMaxBytes, cfg.AvatarMaxDimension))
	tripService := service.NewTripService(tripRepo, newGenerator(cfg), cfg.GeneratorTimeout)
	paymentService := service.NewPaymentService(tripRepo, cfg.PaymentDelay)
	chatService := service.NewChatService(messageRepo, tripRepo, cfg.ChatReplyDelay)

	var healthRedis redis.Cmdable
	if rdb != nil {
		healthRedis = rdb
	}

	appRouter := router.New(
		cfg,
		middleware.NewAuthMiddleware(issuer, cookies),
		middleware.NewFixedWindowLimiter(counters, cfg.AuthRateLimitMax, cfg.AuthRateLimitWindow,
			middleware.WithClientIPResolver(clientIP)),
		clientIP,
		router.Handlers{
			Auth:    handler.NewAuthHandler(authService, cookies),
			User:    handler.NewUserHandler(profileService),
			Trip:    handler.NewTripHandler(tripService),
			Payment: handler.NewPaymentHandler(paymentService),
			Price:   handler.NewPriceHandler(),
			Chat:    handler.NewChatHandler(chatService),
			Health:  handler.NewHealthHandler(db, healthRedis),
		},
	)

	a.server = &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return a, nil
}

// newGenerator picks the remote generator when an API key is configured.
func newGenerator(cfg *config.Config) generator.Generator {
	if cfg.GeneratorAPIKey == "" {
		slog.Warn("GENERATOR_API_KEY not set, using template itineraries")
		return generator.NewTemplateGenerator()
	}

	slog.Info("itinerary generator configured", "endpoint", cfg.GeneratorEndpoint, "model", cfg.GeneratorModel)
	return generator.NewOpenAIGenerator(generator.OpenAIConfig{
		Endpoint: cfg.GeneratorEndpoint,
		APIKey:   cfg.GeneratorAPIKey,
		Model:    cfg.GeneratorModel,
		Timeout:  cfg.GeneratorTimeout,
	})
}

func (a *App) cleanup() {
	for i := len(a.cleanupFuncs) - 1; i >= 0; i-- {
		a.cleanupFuncs[i]()
	}
	a.cleanupFuncs = nil
}

func (a *App) Run() error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serveErr:
		a.cleanup()
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-stop:
		slog.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Drain in-flight requests before closing the pools they use.
	shutdownErr := a.server.Shutdown(ctx)
	a.cleanup()
	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}
