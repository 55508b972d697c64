// Package main provides the entry point for the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwwei/user-center/internal/auth"
	"github.com/jwwei/user-center/internal/cache"
	appConfig "github.com/jwwei/user-center/internal/config"
	"github.com/jwwei/user-center/internal/database"
	"github.com/jwwei/user-center/internal/database/migrate"
	"github.com/jwwei/user-center/internal/health"
	"github.com/jwwei/user-center/internal/middleware"
	"github.com/jwwei/user-center/internal/scheduler"
	teamRepo "github.com/jwwei/user-center/internal/team/repository"
	teamRouter "github.com/jwwei/user-center/internal/team/router"
	teamService "github.com/jwwei/user-center/internal/team/service"
	userCache "github.com/jwwei/user-center/internal/user/cache"
	userRepo "github.com/jwwei/user-center/internal/user/repository"
	userRouter "github.com/jwwei/user-center/internal/user/router"
	userService "github.com/jwwei/user-center/internal/user/service"
	"github.com/jwwei/user-center/pkg/logger"
)

func main() {
	cfg := appConfig.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	appLogger, err := logger.NewWithConfig(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx)
	if err != nil {
		appLogger.Fatalw("database connection failed", "error", err)
	}

	if err := migrate.Migrate(db); err != nil {
		appLogger.Fatalw("migrations failed", "error", err)
	}

	redisClient, err := cache.NewClient(ctx, cfg.Redis)
	if err != nil {
		appLogger.Fatalw("redis connection failed", "error", err)
	}

	store := cache.NewStore(redisClient, appLogger)
	locker := cache.NewLocker(redisClient, appLogger)
	sessions := auth.NewSessionStore(redisClient, appLogger, cfg.Auth.TokenTTL)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	snapshot := userCache.NewSnapshot()

	users := userRepo.New(db, appLogger)
	teams := teamRepo.New(db, appLogger)

	userSvc := userService.New(users, store, locker, sessions, tokens, snapshot, appLogger)
	teamSvc := teamService.New(db, teams, users, locker, appLogger)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(middleware.Logger(appLogger))
	r.Use(middleware.Recovery(appLogger))

	authed := middleware.Auth(tokens, sessions, users)
	optional := middleware.OptionalAuth(tokens, sessions, users)
	admin := middleware.AdminOnly()

	userRouter.RegisterRoutes(r, userSvc, authed, optional, admin)
	teamRouter.RegisterRoutes(r, teamSvc, authed)
	r.GET("/health", health.New(db, redisClient, appLogger).Check)

	expiry := scheduler.NewExpiryReconciler(db, teams, cfg.Scheduler.ExpiryInterval, appLogger)
	refresher := scheduler.NewSnapshotRefresher(users, snapshot, cfg.Scheduler.SnapshotInterval, appLogger)
	go expiry.Run(ctx)
	go refresher.Run(ctx)

	server := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Infow("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	appLogger.Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorw("server shutdown failed", "error", err)
	}
	appLogger.Infow("server stopped")
}
