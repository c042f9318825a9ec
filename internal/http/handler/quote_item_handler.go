package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pitchside/quote-api/internal/domain"
	"github.com/pitchside/quote-api/internal/pricing"
	"github.com/pitchside/quote-api/internal/service"
	"go.uber.org/zap"
)

type QuoteItemHandler struct {
	itemService  *service.QuoteItemService
	quoteService *service.QuoteService
	logger       *zap.Logger
}

func NewQuoteItemHandler(itemService *service.QuoteItemService, quoteService *service.QuoteService, logger *zap.Logger) *QuoteItemHandler {
	return &QuoteItemHandler{
		itemService:  itemService,
		quoteService: quoteService,
		logger:       logger,
	}
}

// itemMutationResponse pairs the affected item with the quote's recomputed
// totals so the console can refresh both in one round trip
type itemMutationResponse struct {
	Item   *domain.QuoteItemDTO   `json:"item,omitempty"`
	Items  []domain.QuoteItemDTO  `json:"items,omitempty"`
	Totals *domain.QuoteTotalsDTO `json:"totals"`
}

// List returns the quote's items in position order
func (h *QuoteItemHandler) List(w http.ResponseWriter, r *http.Request) {
	quoteID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	items, err := h.itemService.ListItems(r.Context(), quoteID)
	if err != nil {
		h.handleItemError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, items)
}

// Add appends a new item to the quote
func (h *QuoteItemHandler) Add(w http.ResponseWriter, r *http.Request) {
	quoteID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	var draft domain.QuoteItemDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(draft); err != nil {
		respondValidationError(w, err)
		return
	}

	item, err := h.itemService.AddItem(r.Context(), quoteID, &draft)
	if err != nil {
		h.logger.Error("failed to add quote item", zap.Error(err), zap.String("quote_id", quoteID.String()))
		h.handleItemError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, h.withTotals(r, quoteID, item, nil))
}

// Update replaces the item's writable fields and re-resolves its price
func (h *QuoteItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	quoteID, itemID, ok := h.parseItemIDs(w, r)
	if !ok {
		return
	}

	var draft domain.QuoteItemDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(draft); err != nil {
		respondValidationError(w, err)
		return
	}

	item, err := h.itemService.UpdateItem(r.Context(), quoteID, itemID, &draft)
	if err != nil {
		h.logger.Error("failed to update quote item",
			zap.Error(err),
			zap.String("quote_id", quoteID.String()),
			zap.String("item_id", itemID.String()),
		)
		h.handleItemError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.withTotals(r, quoteID, item, nil))
}

// Delete removes an item without renumbering the rest
func (h *QuoteItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	quoteID, itemID, ok := h.parseItemIDs(w, r)
	if !ok {
		return
	}

	if err := h.itemService.DeleteItem(r.Context(), quoteID, itemID); err != nil {
		h.handleItemError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.withTotals(r, quoteID, nil, nil))
}

// Reorder reassigns item positions following the supplied id order
func (h *QuoteItemHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	quoteID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	var req domain.ReorderItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	items, err := h.itemService.Reorder(r.Context(), quoteID, req.ItemIDs)
	if err != nil {
		h.handleItemError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.withTotals(r, quoteID, nil, items))
}

// withTotals recomputes the quote totals after a mutation. Percent
// parameters are optional and default to zero.
func (h *QuoteItemHandler) withTotals(r *http.Request, quoteID uuid.UUID, item *domain.QuoteItemDTO, items []domain.QuoteItemDTO) *itemMutationResponse {
	resp := &itemMutationResponse{Item: item, Items: items}

	discountPercent, taxPercent, err := parsePercentParams(r)
	if err != nil {
		discountPercent, taxPercent = 0, 0
	}

	totals, err := h.quoteService.GetTotals(r.Context(), quoteID, discountPercent, taxPercent)
	if err != nil {
		h.logger.Warn("failed to recompute totals after item mutation",
			zap.Error(err),
			zap.String("quote_id", quoteID.String()),
		)
		return resp
	}
	resp.Totals = totals
	return resp
}

func (h *QuoteItemHandler) parseItemIDs(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	quoteID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return uuid.Nil, uuid.Nil, false
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID: must be a valid UUID")
		return uuid.Nil, uuid.Nil, false
	}
	return quoteID, itemID, true
}

func (h *QuoteItemHandler) handleItemError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrQuoteNotFound):
		respondWithError(w, http.StatusNotFound, "Quote not found")
	case errors.Is(err, service.ErrItemNotFound):
		respondWithError(w, http.StatusNotFound, "Quote item not found")
	case errors.Is(err, service.ErrItemQuoteMismatch):
		respondWithError(w, http.StatusNotFound, "Quote item not found")
	case errors.Is(err, service.ErrReorderIncomplete):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnknownSelection):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, pricing.ErrInvalidPrice), errors.Is(err, pricing.ErrInvalidMethod):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrCatalogNotReady):
		respondWithError(w, http.StatusServiceUnavailable, "Catalog is not available; try again shortly")
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
