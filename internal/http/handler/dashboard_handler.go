package handler

import (
	"net/http"

	"github.com/pitchside/quote-api/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// GetMetrics returns quote counts per status, 30-day transition volume and
// the caller's recent status changes
func (h *DashboardHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.dashboardService.GetMetrics(r.Context())
	if err != nil {
		h.logger.Error("failed to get dashboard metrics", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to load dashboard metrics")
		return
	}

	respondJSON(w, http.StatusOK, metrics)
}
