package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pitchside/quote-api/internal/auth"
	"github.com/pitchside/quote-api/internal/domain"
	"github.com/pitchside/quote-api/internal/mapper"
	"github.com/pitchside/quote-api/internal/repository"
	"go.uber.org/zap"
)

// recentActivityLimit caps the caller's activity list on the dashboard
const recentActivityLimit = 10

// DashboardService aggregates quote counts and status-change activity for
// the console landing page.
type DashboardService struct {
	quoteService *QuoteService
	historyRepo  *repository.QuoteStatusHistoryRepository
	logger       *zap.Logger
}

func NewDashboardService(
	quoteService *QuoteService,
	historyRepo *repository.QuoteStatusHistoryRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		quoteService: quoteService,
		historyRepo:  historyRepo,
		logger:       logger,
	}
}

// GetMetrics returns quote counts per status (team-scoped like every list),
// transition volume over a rolling 30-day window, and the caller's most
// recent status changes.
func (s *DashboardService) GetMetrics(ctx context.Context) (*domain.DashboardMetricsDTO, error) {
	counts, err := s.quoteService.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count quotes: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	now := time.Now().UTC()
	transitions, err := s.historyRepo.CountTransitionsToStatus(ctx, now.AddDate(0, 0, -30), now)
	if err != nil {
		return nil, fmt.Errorf("failed to count transitions: %w", err)
	}

	recent := []domain.QuoteStatusChangeDTO{}
	if userCtx, ok := auth.FromContext(ctx); ok {
		rows, err := s.historyRepo.GetByUserID(ctx, userCtx.UserID, recentActivityLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to load recent activity: %w", err)
		}
		recent = mapper.ToQuoteStatusChangeDTOs(rows)
	}

	return &domain.DashboardMetricsDTO{
		TotalQuotes:           total,
		QuotesByStatus:        counts,
		TransitionsLast30Days: transitions,
		RecentActivity:        recent,
	}, nil
}
