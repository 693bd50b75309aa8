package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/rachnit/blog-backend/internal/config"
	"github.com/rachnit/blog-backend/internal/db"
	httpHandlers "github.com/rachnit/blog-backend/internal/http/handlers"
	httpRouter "github.com/rachnit/blog-backend/internal/http/router"
	"github.com/rachnit/blog-backend/internal/logger"
	"github.com/rachnit/blog-backend/internal/repository"
	"github.com/rachnit/blog-backend/internal/service"
	"github.com/rachnit/blog-backend/internal/storage"
)

func main() {
	// Context for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: failed to load configuration: %v", err)
	}

	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Database connection and migrations.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: failed to connect to the database: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: migrations failed: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	mediaStorage, err := storage.NewMediaStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: failed to prepare media storage: %v", err)
	}

	// Repositories.
	txRunner := repository.NewTxRunner(dbConn)
	userRepo := repository.NewUserRepository(dbConn)
	postRepo := repository.NewPostRepository(dbConn)
	subscriptionRepo := repository.NewSubscriptionRepository(dbConn)
	likeRepo := repository.NewLikeRepository(dbConn)
	commentRepo := repository.NewCommentRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)
	reportRepo := repository.NewReportRepository(dbConn)

	// Services.
	authService := service.NewAuthService(userRepo, tokenManager)
	postService := service.NewPostService(txRunner, postRepo, userRepo, subscriptionRepo, notificationRepo, likeRepo, commentRepo, mediaStorage)
	feedService := service.NewFeedService(postRepo, subscriptionRepo, userRepo, likeRepo, commentRepo)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, userRepo, postRepo)
	likeService := service.NewLikeService(likeRepo, postRepo)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, postRepo)
	reportService := service.NewReportService(reportRepo, userRepo)
	adminService := service.NewAdminService(txRunner, userRepo, postRepo, subscriptionRepo, likeRepo, commentRepo, notificationRepo, reportRepo, mediaStorage)

	// HTTP handlers.
	authHandler := httpHandlers.NewAuthHandler(authService)
	profileHandler := httpHandlers.NewProfileHandler(subscriptionService)
	postHandler := httpHandlers.NewPostHandler(postService, mediaStorage)
	feedHandler := httpHandlers.NewFeedHandler(feedService)
	likeHandler := httpHandlers.NewLikeHandler(likeService)
	commentHandler := httpHandlers.NewCommentHandler(commentService)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	reportHandler := httpHandlers.NewReportHandler(reportService)
	adminHandler := httpHandlers.NewAdminHandler(adminService, reportService)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	engine := httpRouter.SetupRouter(
		cfg,
		authHandler,
		profileHandler,
		postHandler,
		feedHandler,
		likeHandler,
		commentHandler,
		notificationHandler,
		reportHandler,
		adminHandler,
		healthHandler,
		tokenManager,
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Stop the server when a signal arrives.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: http server shutdown error: %v", err)
		}
	}()

	log.Printf("main: HTTP server listening on port %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: server exited with error: %v", err)
	}
}

func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: failed to close the database: %v", err)
	}
}
