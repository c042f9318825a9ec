package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pitchside/quote-api/internal/domain"
	"github.com/pitchside/quote-api/internal/repository"
	"github.com/pitchside/quote-api/internal/service"
)

func TestDashboardService_GetMetrics(t *testing.T) {
	db := setupQuoteServiceTestDB(t)
	quoteSvc := createQuoteService(t, db)
	historyRepo := repository.NewQuoteStatusHistoryRepository(db)
	svc := service.NewDashboardService(quoteSvc, historyRepo, zap.NewNop())
	ctx := createTestContext()

	for _, name := range []string{"FC United", "Rovers", "FC City"} {
		_, err := quoteSvc.Create(ctx, &domain.CreateQuoteRequest{CustomerName: name, TeamID: "team-1"})
		require.NoError(t, err)
	}

	sent, err := quoteSvc.Create(ctx, &domain.CreateQuoteRequest{CustomerName: "Athletic", TeamID: "team-1"})
	require.NoError(t, err)
	_, err = quoteSvc.SetStatus(ctx, sent.ID, &domain.SetQuoteStatusRequest{Status: domain.QuoteStatusSent})
	require.NoError(t, err)

	metrics, err := svc.GetMetrics(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(4), metrics.TotalQuotes)
	assert.Equal(t, int64(3), metrics.QuotesByStatus[domain.QuoteStatusDraft])
	assert.Equal(t, int64(1), metrics.QuotesByStatus[domain.QuoteStatusSent])

	// four creations plus one explicit transition, all inside the window
	assert.Equal(t, int64(4), metrics.TransitionsLast30Days[domain.QuoteStatusDraft])
	assert.Equal(t, int64(1), metrics.TransitionsLast30Days[domain.QuoteStatusSent])

	require.NotEmpty(t, metrics.RecentActivity)
	assert.Equal(t, "user-1", metrics.RecentActivity[0].ChangedByID)
}

func TestDashboardService_GetMetrics_EmptyDatabase(t *testing.T) {
	db := setupQuoteServiceTestDB(t)
	quoteSvc := createQuoteService(t, db)
	historyRepo := repository.NewQuoteStatusHistoryRepository(db)
	svc := service.NewDashboardService(quoteSvc, historyRepo, zap.NewNop())

	metrics, err := svc.GetMetrics(createTestContext())
	require.NoError(t, err)

	assert.Equal(t, int64(0), metrics.TotalQuotes)
	assert.Empty(t, metrics.QuotesByStatus)
	assert.Empty(t, metrics.RecentActivity)
}
