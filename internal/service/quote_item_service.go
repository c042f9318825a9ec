package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pitchside/quote-api/internal/domain"
	"github.com/pitchside/quote-api/internal/mapper"
	"github.com/pitchside/quote-api/internal/pricing"
	"github.com/pitchside/quote-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuoteItemService implements the item ledger of a quote: add, update,
// delete and reorder, keeping line totals consistent with quantity and the
// resolved unit price.
type QuoteItemService struct {
	quoteRepo  *repository.QuoteRepository
	itemRepo   *repository.QuoteItemRepository
	catalogSvc *CatalogService
	logger     *zap.Logger
}

func NewQuoteItemService(
	quoteRepo *repository.QuoteRepository,
	itemRepo *repository.QuoteItemRepository,
	catalogSvc *CatalogService,
	logger *zap.Logger,
) *QuoteItemService {
	return &QuoteItemService{
		quoteRepo:  quoteRepo,
		itemRepo:   itemRepo,
		catalogSvc: catalogSvc,
		logger:     logger,
	}
}

// ListItems returns the quote's items ordered by position
func (s *QuoteItemService) ListItems(ctx context.Context, quoteID uuid.UUID) ([]domain.QuoteItemDTO, error) {
	if _, err := s.getQuote(ctx, quoteID); err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListByQuote(ctx, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return mapper.ToQuoteItemDTOs(items), nil
}

// AddItem appends a new line to the quote. The item takes the next free
// position; positions left by deleted items are not reused.
func (s *QuoteItemService) AddItem(ctx context.Context, quoteID uuid.UUID, draft *domain.QuoteItemDraft) (*domain.QuoteItemDTO, error) {
	quote, err := s.getQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	item, err := s.buildItem(ctx, quote, draft)
	if err != nil {
		return nil, err
	}

	maxPos, err := s.itemRepo.MaxPosition(ctx, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get max position: %w", err)
	}
	item.QuoteID = quoteID
	item.Position = maxPos + 1

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.logger.Info("quote item added",
		zap.String("quote_id", quoteID.String()),
		zap.String("item_id", item.ID.String()),
		zap.Int("position", item.Position),
		zap.Float64("unit_price", item.UnitPrice),
	)

	dto := mapper.ToQuoteItemDTO(item)
	return &dto, nil
}

// UpdateItem replaces the item's writable fields and re-resolves its unit
// price from the new state, so the line total always reflects the current
// quantity and selection.
func (s *QuoteItemService) UpdateItem(ctx context.Context, quoteID, itemID uuid.UUID, draft *domain.QuoteItemDraft) (*domain.QuoteItemDTO, error) {
	quote, err := s.getQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	existing, err := s.getItem(ctx, quoteID, itemID)
	if err != nil {
		return nil, err
	}

	item, err := s.buildItem(ctx, quote, draft)
	if err != nil {
		return nil, err
	}
	item.BaseModel = existing.BaseModel
	item.QuoteID = existing.QuoteID
	item.Position = existing.Position

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	updated, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload item: %w", err)
	}

	dto := mapper.ToQuoteItemDTO(updated)
	return &dto, nil
}

// DeleteItem removes a line. Remaining items keep their positions; order is
// preserved and gaps are fine.
func (s *QuoteItemService) DeleteItem(ctx context.Context, quoteID, itemID uuid.UUID) error {
	if _, err := s.getQuote(ctx, quoteID); err != nil {
		return err
	}
	if _, err := s.getItem(ctx, quoteID, itemID); err != nil {
		return err
	}

	if err := s.itemRepo.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.logger.Info("quote item deleted",
		zap.String("quote_id", quoteID.String()),
		zap.String("item_id", itemID.String()),
	)
	return nil
}

// Reorder assigns positions 1..n following the order of the supplied ids.
// The list must contain each item of the quote exactly once.
func (s *QuoteItemService) Reorder(ctx context.Context, quoteID uuid.UUID, itemIDs []uuid.UUID) ([]domain.QuoteItemDTO, error) {
	if _, err := s.getQuote(ctx, quoteID); err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListByQuote(ctx, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	if len(itemIDs) != len(items) {
		return nil, ErrReorderIncomplete
	}
	existing := make(map[uuid.UUID]struct{}, len(items))
	for i := range items {
		existing[items[i].ID] = struct{}{}
	}

	positions := make(map[uuid.UUID]int, len(itemIDs))
	for i, id := range itemIDs {
		if _, ok := existing[id]; !ok {
			return nil, ErrReorderIncomplete
		}
		if _, dup := positions[id]; dup {
			return nil, ErrReorderIncomplete
		}
		positions[id] = i + 1
	}

	if err := s.itemRepo.UpdatePositions(ctx, quoteID, positions); err != nil {
		return nil, fmt.Errorf("failed to reorder items: %w", err)
	}

	reordered, err := s.itemRepo.ListByQuote(ctx, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload items: %w", err)
	}
	return mapper.ToQuoteItemDTOs(reordered), nil
}

// buildItem resolves the draft into a persistable item. Catalog mode is
// chosen when both kind and model are set; manual mode otherwise. The line
// total is always quantity times the resolved unit price.
func (s *QuoteItemService) buildItem(ctx context.Context, quote *domain.Quote, draft *domain.QuoteItemDraft) (*domain.QuoteItem, error) {
	item := &domain.QuoteItem{
		Name:            draft.Name,
		Quantity:        draft.Quantity,
		Unit:            draft.Unit,
		Description:     draft.Description,
		TypeID:          draft.TypeID,
		KindID:          draft.KindID,
		ModelID:         draft.ModelID,
		PrintPositionID: draft.PrintPositionID,
		PrintWidth:      draft.PrintWidth,
		PrintHeight:     draft.PrintHeight,
		AttachmentID:    draft.AttachmentID,
	}

	if item.HasCatalogSelection() {
		tree, err := s.catalogSvc.Tree(ctx, quote.TeamID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCatalogNotReady, err)
		}

		// The selection must point at a model the team's catalog actually
		// has; only tier gaps on known models fall back to the base price.
		if _, ok := tree.ModelName(*draft.KindID, *draft.ModelID); !ok {
			return nil, fmt.Errorf("%w: model %s", ErrUnknownSelection, draft.ModelID)
		}

		unitPrice, err := pricing.ResolveCatalogPrice(tree, *draft.KindID, *draft.ModelID, draft.Quantity, draft.Methods)
		if err != nil {
			return nil, err
		}
		item.UnitPrice = unitPrice

		item.Methods = make([]domain.QuoteItemMethod, len(draft.Methods))
		for i, sel := range draft.Methods {
			count := sel.Count
			if count == 0 {
				count = 1
			}
			item.Methods[i] = domain.QuoteItemMethod{
				MethodID:  sel.MethodID,
				Count:     count,
				SortOrder: i,
			}
		}
	} else {
		var manual float64
		if draft.ManualPrice != nil {
			manual = *draft.ManualPrice
		}
		unitPrice, err := pricing.ResolveManualPrice(manual)
		if err != nil {
			return nil, err
		}
		item.UnitPrice = unitPrice
	}

	item.LineTotal = float64(item.Quantity) * item.UnitPrice
	return item, nil
}

func (s *QuoteItemService) getQuote(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return quote, nil
}

func (s *QuoteItemService) getItem(ctx context.Context, quoteID, itemID uuid.UUID) (*domain.QuoteItem, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item.QuoteID != quoteID {
		return nil, ErrItemQuoteMismatch
	}
	return item, nil
}
