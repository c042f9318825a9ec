package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pitchside/quote-api/internal/domain"
	"github.com/pitchside/quote-api/internal/repository"
	"github.com/pitchside/quote-api/internal/service"
	"go.uber.org/zap"
)

type QuoteHandler struct {
	quoteService *service.QuoteService
	logger       *zap.Logger
}

func NewQuoteHandler(quoteService *service.QuoteService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		logger:       logger,
	}
}

// List returns a page of quotes, filterable by status and customer name
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	var status *domain.QuoteStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.QuoteStatus(s)
		if !st.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status filter: "+s)
			return
		}
		status = &st
	}

	customerName := r.URL.Query().Get("customer")

	sort := repository.DefaultSortConfig()
	if sortBy := r.URL.Query().Get("sortBy"); sortBy != "" {
		sort.Field = sortBy
	}
	if sortOrder := r.URL.Query().Get("sortOrder"); sortOrder != "" {
		sort.Order = repository.ParseSortOrder(sortOrder)
	}

	result, err := h.quoteService.List(r.Context(), page, pageSize, status, customerName, sort)
	if err != nil {
		h.logger.Error("failed to list quotes", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list quotes")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create creates a new draft quote
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quote, err := h.quoteService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create quote", zap.Error(err))
		h.handleQuoteError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/quotes/"+quote.ID.String())
	respondJSON(w, http.StatusCreated, quote)
}

// GetByID returns a quote with its items and status history
func (h *QuoteHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	quote, err := h.quoteService.GetByID(r.Context(), id)
	if err != nil {
		h.handleQuoteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// Update changes the quote's descriptive fields
func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	var req domain.UpdateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quote, err := h.quoteService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update quote", zap.Error(err), zap.String("quote_id", id.String()))
		h.handleQuoteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// Delete removes a quote
func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	if err := h.quoteService.Delete(r.Context(), id); err != nil {
		h.handleQuoteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetStatus moves the quote to a new status and appends an audit row
func (h *QuoteHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	var req domain.SetQuoteStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quote, err := h.quoteService.SetStatus(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to set quote status",
			zap.Error(err),
			zap.String("quote_id", id.String()),
			zap.String("status", string(req.Status)),
		)
		h.handleQuoteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// GetStatusHistory returns the quote's audit trail
func (h *QuoteHandler) GetStatusHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	history, err := h.quoteService.GetStatusHistory(r.Context(), id)
	if err != nil {
		h.handleQuoteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// GetTotals returns the totals cascade for caller-supplied discount and tax
// percentages
func (h *QuoteHandler) GetTotals(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	discountPercent, taxPercent, err := parsePercentParams(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	totals, err := h.quoteService.GetTotals(r.Context(), id, discountPercent, taxPercent)
	if err != nil {
		h.handleQuoteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, totals)
}

func (h *QuoteHandler) handleQuoteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrQuoteNotFound):
		respondWithError(w, http.StatusNotFound, "Quote not found")
	case errors.Is(err, service.ErrInvalidStatus):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrTeamAccessDenied):
		respondWithError(w, http.StatusForbidden, "No access to the requested team")
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// parsePercentParams reads optional discountPercent and taxPercent query
// parameters, defaulting both to zero
func parsePercentParams(r *http.Request) (float64, float64, error) {
	var discountPercent, taxPercent float64
	var err error

	if p := r.URL.Query().Get("discountPercent"); p != "" {
		discountPercent, err = strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, 0, errors.New("Invalid discountPercent: must be a number")
		}
	}
	if p := r.URL.Query().Get("taxPercent"); p != "" {
		taxPercent, err = strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, 0, errors.New("Invalid taxPercent: must be a number")
		}
	}
	return discountPercent, taxPercent, nil
}
