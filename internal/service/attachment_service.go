package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/pitchside/quote-api/internal/auth"
	"github.com/pitchside/quote-api/internal/domain"
	"github.com/pitchside/quote-api/internal/mapper"
	"github.com/pitchside/quote-api/internal/repository"
	"github.com/pitchside/quote-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AttachmentService stores artwork files referenced by quote items
type AttachmentService struct {
	attachmentRepo *repository.AttachmentRepository
	storage        storage.Storage
	logger         *zap.Logger
	maxUploadSize  int64
}

func NewAttachmentService(
	attachmentRepo *repository.AttachmentRepository,
	store storage.Storage,
	maxUploadSizeMB int64,
	logger *zap.Logger,
) *AttachmentService {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		storage:        store,
		logger:         logger,
		maxUploadSize:  maxUploadSizeMB * 1024 * 1024,
	}
}

// MaxUploadSize returns the configured upload limit in bytes
func (s *AttachmentService) MaxUploadSize() int64 {
	return s.maxUploadSize
}

// Upload stores the file and records its metadata
func (s *AttachmentService) Upload(ctx context.Context, filename, contentType string, data io.Reader) (*domain.AttachmentDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	storagePath, size, err := s.storage.Upload(ctx, userCtx.TeamID, filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	attachment := &domain.Attachment{
		TeamID:      userCtx.TeamID,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		StoragePath: storagePath,
	}

	if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
		// best effort cleanup of the orphan blob
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to clean up stored file after create error",
				zap.String("storage_path", storagePath),
				zap.Error(delErr),
			)
		}
		return nil, fmt.Errorf("failed to record attachment: %w", err)
	}

	s.logger.Info("attachment uploaded",
		zap.String("attachment_id", attachment.ID.String()),
		zap.String("filename", filename),
		zap.Int64("size", size),
	)

	dto := mapper.ToAttachmentDTO(attachment, s.downloadURL(attachment))
	return &dto, nil
}

// Get returns attachment metadata
func (s *AttachmentService) Get(ctx context.Context, id uuid.UUID) (*domain.AttachmentDTO, error) {
	attachment, err := s.getAttachment(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToAttachmentDTO(attachment, s.downloadURL(attachment))
	return &dto, nil
}

// Download streams the file content. The caller must close the reader.
func (s *AttachmentService) Download(ctx context.Context, id uuid.UUID) (io.ReadCloser, *domain.Attachment, error) {
	attachment, err := s.getAttachment(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	reader, err := s.storage.Download(ctx, attachment.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read stored file: %w", err)
	}
	return reader, attachment, nil
}

// Delete removes the attachment and its stored file. Attachments still
// referenced by a quote item are refused.
func (s *AttachmentService) Delete(ctx context.Context, id uuid.UUID) error {
	attachment, err := s.getAttachment(ctx, id)
	if err != nil {
		return err
	}

	refs, err := s.attachmentRepo.CountReferences(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count references: %w", err)
	}
	if refs > 0 {
		return ErrAttachmentInUse
	}

	if err := s.attachmentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}

	if err := s.storage.Delete(ctx, attachment.StoragePath); err != nil {
		s.logger.Warn("failed to delete stored file",
			zap.String("storage_path", attachment.StoragePath),
			zap.Error(err),
		)
	}

	s.logger.Info("attachment deleted", zap.String("attachment_id", id.String()))
	return nil
}

func (s *AttachmentService) getAttachment(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	attachment, err := s.attachmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}
	return attachment, nil
}

func (s *AttachmentService) downloadURL(a *domain.Attachment) string {
	return fmt.Sprintf("/api/v1/attachments/%s/download", a.ID)
}
