package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pitchside/quote-api/internal/auth"
	"github.com/pitchside/quote-api/internal/domain"
	"github.com/pitchside/quote-api/internal/mapper"
	"github.com/pitchside/quote-api/internal/pricing"
	"github.com/pitchside/quote-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuoteService implements quote lifecycle: creation, updates, listing,
// status changes with audit history, and the totals cascade.
type QuoteService struct {
	quoteRepo   *repository.QuoteRepository
	itemRepo    *repository.QuoteItemRepository
	historyRepo *repository.QuoteStatusHistoryRepository
	logger      *zap.Logger
	db          *gorm.DB
}

func NewQuoteService(
	quoteRepo *repository.QuoteRepository,
	itemRepo *repository.QuoteItemRepository,
	historyRepo *repository.QuoteStatusHistoryRepository,
	logger *zap.Logger,
	db *gorm.DB,
) *QuoteService {
	return &QuoteService{
		quoteRepo:   quoteRepo,
		itemRepo:    itemRepo,
		historyRepo: historyRepo,
		logger:      logger,
		db:          db,
	}
}

// Create creates a new quote in draft status and records the initial status
// history row (no from-status) in the same transaction.
func (s *QuoteService) Create(ctx context.Context, req *domain.CreateQuoteRequest) (*domain.QuoteDTO, error) {
	if !repository.MustHaveTeamAccess(ctx, string(req.TeamID)) {
		return nil, fmt.Errorf("%w: %s", ErrTeamAccessDenied, req.TeamID)
	}

	currency := req.Currency
	if currency == "" {
		currency = "EUR"
	}

	quote := &domain.Quote{
		TeamID:       req.TeamID,
		Status:       domain.QuoteStatusDraft,
		Currency:     currency,
		CustomerName: req.CustomerName,
		CustomerRef:  req.CustomerRef,
		DeadlineDate: req.DeadlineDate,
		DeadlineNote: req.DeadlineNote,
	}

	changedByID, changedByName := changedBy(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(quote).Error; err != nil {
			return fmt.Errorf("failed to create quote: %w", err)
		}
		return s.historyRepo.RecordTransition(ctx, tx,
			quote.ID, nil, domain.QuoteStatusDraft, changedByID, changedByName, "")
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quote created",
		zap.String("quote_id", quote.ID.String()),
		zap.String("team_id", string(quote.TeamID)),
		zap.String("customer", quote.CustomerName),
	)

	dto := mapper.ToQuoteDTO(quote)
	return &dto, nil
}

// GetByID returns a quote with its items and status history
func (s *QuoteService) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuoteDTO, error) {
	quote, err := s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	history, err := s.historyRepo.GetByQuoteID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get status history: %w", err)
	}
	quote.History = history

	dto := mapper.ToQuoteDTO(quote)
	return &dto, nil
}

// Update changes the quote's descriptive fields. Status is not writable
// here; SetStatus is the only path that moves a quote between statuses.
func (s *QuoteService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateQuoteRequest) (*domain.QuoteDTO, error) {
	quote, err := s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	quote.CustomerName = req.CustomerName
	quote.CustomerRef = req.CustomerRef
	if req.Currency != "" {
		quote.Currency = req.Currency
	}
	quote.DeadlineDate = req.DeadlineDate
	quote.DeadlineNote = req.DeadlineNote

	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to update quote: %w", err)
	}

	quote, err = s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToQuoteDTO(quote)
	return &dto, nil
}

// Delete removes a quote with its items and history
func (s *QuoteService) Delete(ctx context.Context, id uuid.UUID) error {
	quote, err := s.getQuote(ctx, id)
	if err != nil {
		return err
	}

	if err := s.quoteRepo.Delete(ctx, quote.ID); err != nil {
		return fmt.Errorf("failed to delete quote: %w", err)
	}

	s.logger.Info("quote deleted", zap.String("quote_id", id.String()))
	return nil
}

// List returns a page of quotes, optionally filtered by status and a
// customer name search, sorted per the whitelisted sort config
func (s *QuoteService) List(ctx context.Context, page, pageSize int, status *domain.QuoteStatus, customerName string, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > repository.MaxPageSize {
		pageSize = repository.MaxPageSize
	}

	if status != nil && !status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *status)
	}

	quotes, total, err := s.quoteRepo.List(ctx, page, pageSize, status, customerName, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       mapper.ToQuoteDTOs(quotes),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// SetStatus moves the quote to the requested status and appends the audit
// row in the same transaction. Any status may follow any other, including
// itself; every committed change is recorded exactly once.
func (s *QuoteService) SetStatus(ctx context.Context, id uuid.UUID, req *domain.SetQuoteStatusRequest) (*domain.QuoteDTO, error) {
	if !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	quote, err := s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	fromStatus := quote.Status
	changedByID, changedByName := changedBy(ctx)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.quoteRepo.UpdateStatus(ctx, tx, id, req.Status); err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}
		return s.historyRepo.RecordTransition(ctx, tx,
			id, &fromStatus, req.Status, changedByID, changedByName, req.Note)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quote status changed",
		zap.String("quote_id", id.String()),
		zap.String("from", string(fromStatus)),
		zap.String("to", string(req.Status)),
		zap.String("changed_by", changedByName),
	)

	return s.GetByID(ctx, id)
}

// GetStatusHistory returns the quote's audit trail in chronological order
func (s *QuoteService) GetStatusHistory(ctx context.Context, id uuid.UUID) ([]domain.QuoteStatusChangeDTO, error) {
	if _, err := s.getQuote(ctx, id); err != nil {
		return nil, err
	}

	history, err := s.historyRepo.GetByQuoteID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get status history: %w", err)
	}
	return mapper.ToQuoteStatusChangeDTOs(history), nil
}

// GetTotals aggregates the quote's items into the totals cascade with the
// caller-supplied discount and tax percentages. The percentages are
// computation parameters, not persisted quote state.
func (s *QuoteService) GetTotals(ctx context.Context, id uuid.UUID, discountPercent, taxPercent float64) (*domain.QuoteTotalsDTO, error) {
	quote, err := s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	totals := pricing.ComputeTotals(quote.Items, discountPercent, taxPercent)
	return &domain.QuoteTotalsDTO{
		Subtotal:        totals.Subtotal,
		DiscountPercent: discountPercent,
		DiscountAmount:  totals.DiscountAmount,
		TaxPercent:      taxPercent,
		TaxAmount:       totals.TaxAmount,
		Total:           totals.Total,
	}, nil
}

// CountByStatus returns the quote counts per status for the dashboard
func (s *QuoteService) CountByStatus(ctx context.Context) (map[domain.QuoteStatus]int64, error) {
	return s.quoteRepo.CountByStatus(ctx)
}

func (s *QuoteService) getQuote(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return quote, nil
}

// changedBy resolves the acting user for audit labeling; anonymous when no
// user context is present (migrations, jobs).
func changedBy(ctx context.Context) (string, string) {
	if userCtx, ok := auth.FromContext(ctx); ok {
		return userCtx.UserID, userCtx.DisplayName
	}
	return "", ""
}
