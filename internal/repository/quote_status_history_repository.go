package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pitchside/quote-api/internal/domain"
	"gorm.io/gorm"
)

type QuoteStatusHistoryRepository struct {
	db *gorm.DB
}

func NewQuoteStatusHistoryRepository(db *gorm.DB) *QuoteStatusHistoryRepository {
	return &QuoteStatusHistoryRepository{db: db}
}

// Create records a new status transition
func (r *QuoteStatusHistoryRepository) Create(ctx context.Context, history *domain.QuoteStatusHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

// CreateTx records a transition inside an existing transaction handle
func (r *QuoteStatusHistoryRepository) CreateTx(ctx context.Context, tx *gorm.DB, history *domain.QuoteStatusHistory) error {
	return tx.WithContext(ctx).Create(history).Error
}

// GetByQuoteID returns all status history for a quote in chronological order
func (r *QuoteStatusHistoryRepository) GetByQuoteID(ctx context.Context, quoteID uuid.UUID) ([]domain.QuoteStatusHistory, error) {
	var history []domain.QuoteStatusHistory
	err := r.db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		Order("changed_at ASC").
		Find(&history).Error
	return history, err
}

// GetByUserID returns recent status changes made by a specific user
func (r *QuoteStatusHistoryRepository) GetByUserID(ctx context.Context, userID string, limit int) ([]domain.QuoteStatusHistory, error) {
	var history []domain.QuoteStatusHistory
	err := r.db.WithContext(ctx).
		Preload("Quote").
		Where("changed_by_id = ?", userID).
		Order("changed_at DESC").
		Limit(limit).
		Find(&history).Error
	return history, err
}

// CountTransitionsToStatus returns the count of transitions to each status
// within a date range
func (r *QuoteStatusHistoryRepository) CountTransitionsToStatus(ctx context.Context, from, to time.Time) (map[domain.QuoteStatus]int64, error) {
	type result struct {
		ToStatus domain.QuoteStatus
		Count    int64
	}
	var results []result

	err := r.db.WithContext(ctx).Model(&domain.QuoteStatusHistory{}).
		Select("to_status, COUNT(*) as count").
		Where("changed_at >= ? AND changed_at <= ?", from, to).
		Group("to_status").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.QuoteStatus]int64)
	for _, row := range results {
		counts[row.ToStatus] = row.Count
	}
	return counts, nil
}

// RecordTransition is a convenience method to create a status history record
// inside an existing transaction
func (r *QuoteStatusHistoryRepository) RecordTransition(
	ctx context.Context,
	tx *gorm.DB,
	quoteID uuid.UUID,
	fromStatus *domain.QuoteStatus,
	toStatus domain.QuoteStatus,
	changedByID string,
	changedByName string,
	note string,
) error {
	history := &domain.QuoteStatusHistory{
		QuoteID:       quoteID,
		FromStatus:    fromStatus,
		ToStatus:      toStatus,
		ChangedByID:   changedByID,
		ChangedByName: changedByName,
		Note:          note,
		ChangedAt:     time.Now().UTC(),
	}
	return r.CreateTx(ctx, tx, history)
}
