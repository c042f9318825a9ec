package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pitchside/quote-api/internal/domain"
	"gorm.io/gorm"
)

type QuoteItemRepository struct {
	db *gorm.DB
}

func NewQuoteItemRepository(db *gorm.DB) *QuoteItemRepository {
	return &QuoteItemRepository{db: db}
}

func (r *QuoteItemRepository) Create(ctx context.Context, item *domain.QuoteItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *QuoteItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuoteItem, error) {
	var item domain.QuoteItem
	err := r.db.WithContext(ctx).
		Preload("Methods", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order")
		}).
		First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *QuoteItemRepository) ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]domain.QuoteItem, error) {
	var items []domain.QuoteItem
	err := r.db.WithContext(ctx).
		Preload("Methods", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order")
		}).
		Where("quote_id = ?", quoteID).
		Order("position").
		Find(&items).Error
	return items, err
}

// Update saves the item row and replaces its method selections in one
// transaction, so a failed write never leaves a half-updated selection set.
func (r *QuoteItemRepository) Update(ctx context.Context, item *domain.QuoteItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_item_id = ?", item.ID).
			Delete(&domain.QuoteItemMethod{}).Error; err != nil {
			return err
		}
		for i := range item.Methods {
			item.Methods[i].ID = uuid.Nil
			item.Methods[i].QuoteItemID = item.ID
		}
		return tx.Omit("Attachment").Save(item).Error
	})
}

func (r *QuoteItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_item_id = ?", id).
			Delete(&domain.QuoteItemMethod{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.QuoteItem{}, "id = ?", id).Error
	})
}

// MaxPosition returns the highest position in use on a quote, zero when the
// quote has no items.
func (r *QuoteItemRepository) MaxPosition(ctx context.Context, quoteID uuid.UUID) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&domain.QuoteItem{}).
		Where("quote_id = ?", quoteID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error
	return max, err
}

// UpdatePositions applies a full position assignment in one transaction.
func (r *QuoteItemRepository) UpdatePositions(ctx context.Context, quoteID uuid.UUID, positions map[uuid.UUID]int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, pos := range positions {
			res := tx.Model(&domain.QuoteItem{}).
				Where("id = ? AND quote_id = ?", id, quoteID).
				Update("position", pos)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}
