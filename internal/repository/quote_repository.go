package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pitchside/quote-api/internal/domain"
	"gorm.io/gorm"
)

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

func (r *QuoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *QuoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	var quote domain.Quote
	query := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		Preload("Items.Methods", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order")
		}).
		Preload("Items.Attachment").
		Where("id = ?", id)
	query = ApplyTeamFilter(ctx, query)
	err := query.First(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *QuoteRepository) Update(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Save(quote).Error
}

func (r *QuoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Quote{}, "id = ?", id).Error
}

// quoteSortableFields maps API sort field names to database columns
var quoteSortableFields = map[string]string{
	"createdAt":    "created_at",
	"updatedAt":    "updated_at",
	"customerName": "customer_name",
	"status":       "status",
	"deadlineDate": "deadline_date",
}

func (r *QuoteRepository) List(ctx context.Context, page, pageSize int, status *domain.QuoteStatus, customerName string, sort SortConfig) ([]domain.Quote, int64, error) {
	var quotes []domain.Quote
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Quote{})
	query = ApplyTeamFilter(ctx, query)

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if customerName != "" {
		pattern := "%" + strings.ToLower(customerName) + "%"
		query = query.Where("LOWER(customer_name) LIKE ?", pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderClause := BuildOrderClause(sort, quoteSortableFields, "created_at")

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order(orderClause).Find(&quotes).Error

	return quotes, total, err
}

// UpdateStatus sets the quote status inside the supplied transaction handle
// so the status column and the history row commit together.
func (r *QuoteRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status domain.QuoteStatus) error {
	return tx.WithContext(ctx).
		Model(&domain.Quote{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *QuoteRepository) CountByStatus(ctx context.Context) (map[domain.QuoteStatus]int64, error) {
	type result struct {
		Status domain.QuoteStatus
		Count  int64
	}
	var results []result

	query := r.db.WithContext(ctx).Model(&domain.Quote{}).
		Select("status, COUNT(*) as count").
		Group("status")
	query = ApplyTeamFilter(ctx, query)
	if err := query.Scan(&results).Error; err != nil {
		return nil, err
	}

	counts := make(map[domain.QuoteStatus]int64)
	for _, row := range results {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
