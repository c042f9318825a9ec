package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pitchside/quote-api/internal/auth"
	"github.com/pitchside/quote-api/internal/config"
	"github.com/pitchside/quote-api/internal/database"
	"github.com/pitchside/quote-api/internal/http/handler"
	"github.com/pitchside/quote-api/internal/http/middleware"
)

type Router struct {
	cfg                  *config.Config
	logger               *zap.Logger
	db                   *gorm.DB
	authMiddleware       *auth.Middleware
	teamFilterMiddleware *middleware.TeamFilterMiddleware
	rateLimiter          *middleware.RateLimiter
	quoteHandler         *handler.QuoteHandler
	quoteItemHandler     *handler.QuoteItemHandler
	catalogHandler       *handler.CatalogHandler
	attachmentHandler    *handler.AttachmentHandler
	authHandler          *handler.AuthHandler
	dashboardHandler     *handler.DashboardHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	teamFilterMiddleware *middleware.TeamFilterMiddleware,
	rateLimiter *middleware.RateLimiter,
	quoteHandler *handler.QuoteHandler,
	quoteItemHandler *handler.QuoteItemHandler,
	catalogHandler *handler.CatalogHandler,
	attachmentHandler *handler.AttachmentHandler,
	authHandler *handler.AuthHandler,
	dashboardHandler *handler.DashboardHandler,
) *Router {
	return &Router{
		cfg:                  cfg,
		logger:               logger,
		db:                   db,
		authMiddleware:       authMiddleware,
		teamFilterMiddleware: teamFilterMiddleware,
		rateLimiter:          rateLimiter,
		quoteHandler:         quoteHandler,
		quoteItemHandler:     quoteItemHandler,
		catalogHandler:       catalogHandler,
		attachmentHandler:    attachmentHandler,
		authHandler:          authHandler,
		dashboardHandler:     dashboardHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	// Liveness probe
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health with connection pool stats
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Readiness probe
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		status := "healthy"
		code := http.StatusOK
		if !allHealthy {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.teamFilterMiddleware.Filter)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)

			// Dashboard
			r.Get("/dashboard/metrics", rt.dashboardHandler.GetMetrics)

			// Catalog
			r.Route("/catalog", func(r chi.Router) {
				r.Get("/types", rt.catalogHandler.ListTypes)
				r.Get("/types/{typeId}/kinds/{kindId}", rt.catalogHandler.GetKind)
				r.With(rt.authMiddleware.RequireAdmin).Post("/refresh", rt.catalogHandler.Refresh)
			})

			// Quotes
			r.Route("/quotes", func(r chi.Router) {
				r.Get("/", rt.quoteHandler.List)
				r.Post("/", rt.quoteHandler.Create)
				r.Get("/{id}", rt.quoteHandler.GetByID)
				r.Put("/{id}", rt.quoteHandler.Update)
				r.Delete("/{id}", rt.quoteHandler.Delete)

				// Lifecycle
				r.Put("/{id}/status", rt.quoteHandler.SetStatus)
				r.Get("/{id}/history", rt.quoteHandler.GetStatusHistory)
				r.Get("/{id}/totals", rt.quoteHandler.GetTotals)

				// Line items
				r.Get("/{id}/items", rt.quoteItemHandler.List)
				r.Post("/{id}/items", rt.quoteItemHandler.Add)
				r.Put("/{id}/items/reorder", rt.quoteItemHandler.Reorder)
				r.Put("/{id}/items/{itemId}", rt.quoteItemHandler.Update)
				r.Delete("/{id}/items/{itemId}", rt.quoteItemHandler.Delete)
			})

			// Attachments
			r.Route("/attachments", func(r chi.Router) {
				r.Post("/upload", rt.attachmentHandler.Upload)
				r.Get("/{id}", rt.attachmentHandler.Get)
				r.Get("/{id}/download", rt.attachmentHandler.Download)
				r.Delete("/{id}", rt.attachmentHandler.Delete)
			})
		})
	})

	return r
}
