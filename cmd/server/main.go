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

	"github.com/HammerMeetNail/paddock/internal/config"
	"github.com/HammerMeetNail/paddock/internal/database"
	"github.com/HammerMeetNail/paddock/internal/handlers"
	"github.com/HammerMeetNail/paddock/internal/logging"
	"github.com/HammerMeetNail/paddock/internal/middleware"
	"github.com/HammerMeetNail/paddock/internal/services"
)

func main() {
	if err := run(); err != nil {
		logging.Error("Application error", logging.Fields{"error": err.Error()})
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level, ok := logging.ParseLevel(cfg.Log.Level)
	logging.SetDefaultLevel(level)
	logger := logging.Default.WithField("component", "server")
	if !ok {
		logger.Warn("Unknown LOG_LEVEL; using info", logging.Fields{"value": cfg.Log.Level})
	}

	logger.Info("Starting paddock server", logging.Fields{"env": cfg.Server.Environment})

	logger.Info("Connecting to PostgreSQL", logging.Fields{
		"host": cfg.Database.Host,
		"port": cfg.Database.Port,
	})
	db, err := database.NewPostgresDB(cfg.Database.DSN(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer db.Close()

	logger.Info("Running database migrations")
	migrator, err := database.NewMigrator(cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		return fmt.Errorf("running migrations: %w", err)
	}
	_ = migrator.Close()

	logger.Info("Connecting to Redis", logging.Fields{"addr": cfg.Redis.Addr()})
	redisDB, err := database.NewRedisDB(database.RedisOptions{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer func() { _ = redisDB.Close() }()

	pool := services.NewPoolDB(db.Pool)
	userService := services.NewUserService(pool)
	authService := services.NewAuthService(userService, services.NewRedisRevocations(redisDB.Client), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	friendshipService := services.NewFriendshipService(pool)
	banService := services.NewBanService(pool)
	groupService := services.NewGroupService(pool)
	notificationService := services.NewNotificationService(pool)

	counter := middleware.NewRedisCounter(redisDB.Client)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	mux := newRouter(routeHandlers{
		health: handlers.NewHealthHandler(
			handlers.Dependency{Name: "postgres", Checker: db},
			handlers.Dependency{Name: "redis", Checker: redisDB},
		),
		auth:          handlers.NewAuthHandler(authService, userService),
		friendships:   handlers.NewFriendshipHandler(friendshipService, banService),
		groups:        handlers.NewGroupHandler(groupService),
		notifications: handlers.NewNotificationHandler(notificationService),
	}, routeMiddleware{
		auth:        authMiddleware,
		authLimiter: middleware.NewAuthRateLimiter(counter, cfg.Server.TrustProxy),
		apiLimiter:  middleware.NewAPIRateLimiter(counter, cfg.Server.RateLimitPerMinute, cfg.Server.TrustProxy),
	})

	// Outermost last: Authenticate runs first so the logger sees the caller.
	var handler http.Handler = mux
	handler = middleware.NewRequestLogger(logging.Default).Apply(handler)
	handler = middleware.NewSecurityHeaders(cfg.Server.IsProduction()).Apply(handler)
	handler = authMiddleware.Authenticate(handler)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", logging.Fields{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Server is shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	server.SetKeepAlivesEnabled(false)
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
