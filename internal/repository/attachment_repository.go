package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pitchside/quote-api/internal/domain"
	"gorm.io/gorm"
)

type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Create(ctx context.Context, attachment *domain.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *AttachmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	var attachment domain.Attachment
	query := r.db.WithContext(ctx).Where("id = ?", id)
	query = ApplyTeamFilter(ctx, query)
	err := query.First(&attachment).Error
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *AttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Attachment{}, "id = ?", id).Error
}

// CountReferences returns how many quote items reference an attachment.
// Deleting a referenced attachment is refused by the service.
func (r *AttachmentRepository) CountReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.QuoteItem{}).
		Where("attachment_id = ?", id).
		Count(&count).Error
	return count, err
}
