package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pitchside/quote-api/internal/auth"
	"github.com/pitchside/quote-api/internal/config"
	"github.com/pitchside/quote-api/internal/database"
	"github.com/pitchside/quote-api/internal/http/handler"
	"github.com/pitchside/quote-api/internal/http/middleware"
	"github.com/pitchside/quote-api/internal/http/router"
	"github.com/pitchside/quote-api/internal/jobs"
	"github.com/pitchside/quote-api/internal/logger"
	"github.com/pitchside/quote-api/internal/repository"
	"github.com/pitchside/quote-api/internal/service"
	"github.com/pitchside/quote-api/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Repositories
	catalogRepo := repository.NewCatalogRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	quoteItemRepo := repository.NewQuoteItemRepository(db)
	historyRepo := repository.NewQuoteStatusHistoryRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services
	catalogService := service.NewCatalogService(catalogRepo, log)
	quoteService := service.NewQuoteService(quoteRepo, quoteItemRepo, historyRepo, log, db)
	quoteItemService := service.NewQuoteItemService(quoteRepo, quoteItemRepo, catalogService, log)
	attachmentService := service.NewAttachmentService(attachmentRepo, fileStorage, cfg.Storage.MaxUploadSizeMB, log)
	dashboardService := service.NewDashboardService(quoteService, historyRepo, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	teamFilterMiddleware := middleware.NewTeamFilterMiddleware(log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	quoteHandler := handler.NewQuoteHandler(quoteService, log)
	quoteItemHandler := handler.NewQuoteItemHandler(quoteItemService, quoteService, log)
	catalogHandler := handler.NewCatalogHandler(catalogService, log)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService, log)
	authHandler := handler.NewAuthHandler(userRepo, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		teamFilterMiddleware,
		rateLimiter,
		quoteHandler,
		quoteItemHandler,
		catalogHandler,
		attachmentHandler,
		authHandler,
		dashboardHandler,
	)

	// Background catalog refresh keeps the in-memory price snapshots
	// in step with the database.
	var scheduler *jobs.Scheduler
	if cfg.Catalog.RefreshEnabled {
		scheduler = jobs.NewScheduler(log)
		refreshJob := jobs.NewCatalogRefreshJob(catalogService, log, 5*time.Minute)
		if err := scheduler.AddJob(jobs.CatalogRefreshJobName, cfg.Catalog.RefreshCron, refreshJob.Run); err != nil {
			log.Error("Failed to register catalog refresh job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with catalog refresh job",
				zap.String("cron_expr", cfg.Catalog.RefreshCron),
			)
		}
	} else {
		log.Info("Catalog refresh disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
