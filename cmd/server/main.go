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

	"github.com/ikkim/tubemark-backend/config"
	"github.com/ikkim/tubemark-backend/internal/app/controller"
	"github.com/ikkim/tubemark-backend/internal/app/repository"
	"github.com/ikkim/tubemark-backend/internal/app/service"
	"github.com/ikkim/tubemark-backend/internal/db"
	"github.com/ikkim/tubemark-backend/internal/middleware"
	"github.com/ikkim/tubemark-backend/internal/router"
	"github.com/ikkim/tubemark-backend/internal/scheduler"
	"github.com/ikkim/tubemark-backend/pkg/logger"
	"github.com/ikkim/tubemark-backend/pkg/mailer"
	appredis "github.com/ikkim/tubemark-backend/pkg/redis"
	"github.com/ikkim/tubemark-backend/pkg/youtube"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting Tubemark Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Token revocation is optional; without redis there is no logout
	var revoker service.TokenRevoker
	var revocationChecker middleware.RevocationChecker
	if cfg.Redis.Enabled {
		if err := appredis.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		defer func() {
			if err := appredis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
		revocationList := appredis.NewRevocationList(appredis.GetClient())
		revoker = revocationList
		revocationChecker = revocationList
	} else {
		logger.Warn("Redis disabled, session tokens cannot be revoked")
	}

	var searcher service.VideoSearcher
	youtubeClient, err := youtube.NewClient(youtube.Config{
		APIKey:     cfg.YouTube.APIKey,
		BaseURL:    cfg.YouTube.BaseURL,
		MaxResults: cfg.YouTube.MaxResults,
	})
	if err != nil {
		logger.Warn("Video search disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		searcher = youtubeClient
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	videoRepo := repository.NewVideoRepository(db.GetDB())
	resetRepo := repository.NewPasswordResetRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(userRepo, revoker, cfg.JWT.Secret, cfg.JWT.Expiry)
	resetService := service.NewPasswordResetService(
		resetRepo,
		userRepo,
		mailer.NewSMTPMailer(&cfg.Mail),
		service.PasswordResetConfig{
			SiteURL:              cfg.Mail.SiteURL,
			TokenTTL:             cfg.Auth.ResetTokenTTL,
			HideAccountExistence: cfg.Auth.HideAccountExistence,
		},
	)
	favoriteService := service.NewFavoriteService(videoRepo)
	searchService := service.NewSearchService(searcher)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	resetController := controller.NewPasswordResetController(resetService)
	favoriteController := controller.NewFavoriteController(favoriteService)
	searchController := controller.NewSearchController(searchService)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, revocationChecker)

	r := router.NewRouter(
		authController,
		resetController,
		favoriteController,
		searchController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	purgeScheduler := scheduler.NewResetPurgeScheduler(resetService, scheduler.DefaultPurgeSchedule)
	if err := purgeScheduler.Start(); err != nil {
		logger.Fatal("Failed to start reset purge scheduler", err)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	purgeScheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shut down", err)
	}

	logger.Info("Server stopped successfully")
}
