package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pitchside/quote-api/internal/auth"
	"github.com/pitchside/quote-api/internal/domain"
	"github.com/pitchside/quote-api/internal/mapper"
	"github.com/pitchside/quote-api/internal/service"
	"go.uber.org/zap"
)

// CatalogHandler serves the catalog browse endpoints from the in-memory
// snapshot. Responses reflect the snapshot, not live table state; edits
// become visible after the next refresh.
type CatalogHandler struct {
	catalogService *service.CatalogService
	logger         *zap.Logger
}

func NewCatalogHandler(catalogService *service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// ListTypes returns the catalog's top level for the caller's team
func (h *CatalogHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	tree, ok := h.tree(w, r)
	if !ok {
		return
	}

	types := tree.Types()
	dtos := make([]domain.CatalogTypeDTO, len(types))
	for i := range types {
		dtos[i] = mapper.ToCatalogTypeDTO(&types[i])
		kinds := tree.KindsByType(types[i].ID)
		dtos[i].Kinds = make([]domain.CatalogKindDTO, len(kinds))
		for j := range kinds {
			dtos[i].Kinds[j] = mapper.ToCatalogKindDTO(&kinds[j])
		}
	}

	respondJSON(w, http.StatusOK, dtos)
}

// GetKind returns one kind with its models, methods and print positions
func (h *CatalogHandler) GetKind(w http.ResponseWriter, r *http.Request) {
	tree, ok := h.tree(w, r)
	if !ok {
		return
	}

	typeID, err := uuid.Parse(chi.URLParam(r, "typeId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid type ID: must be a valid UUID")
		return
	}
	kindID, err := uuid.Parse(chi.URLParam(r, "kindId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid kind ID: must be a valid UUID")
		return
	}

	name, found := tree.KindName(typeID, kindID)
	if !found {
		respondWithError(w, http.StatusNotFound, "Catalog kind not found")
		return
	}

	dto := domain.CatalogKindDTO{ID: kindID, Name: name}

	models := tree.ModelsByKind(kindID)
	dto.Models = make([]domain.CatalogModelDTO, len(models))
	for i := range models {
		dto.Models[i] = mapper.ToCatalogModelDTO(&models[i])
	}

	methods := tree.MethodsByKind(kindID)
	dto.Methods = make([]domain.CatalogMethodDTO, len(methods))
	for i := range methods {
		dto.Methods[i] = mapper.ToCatalogMethodDTO(&methods[i])
	}

	positions := tree.PrintPositionsByKind(kindID)
	dto.PrintPositions = make([]domain.CatalogPrintPositionDTO, len(positions))
	for i := range positions {
		dto.PrintPositions[i] = mapper.ToCatalogPrintPositionDTO(&positions[i])
	}

	respondJSON(w, http.StatusOK, dto)
}

// Refresh rebuilds the caller's team snapshot on demand
func (h *CatalogHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	teamID, ok := h.teamID(w, r)
	if !ok {
		return
	}

	if _, err := h.catalogService.Reload(r.Context(), teamID); err != nil {
		h.logger.Error("manual catalog refresh failed",
			zap.Error(err),
			zap.String("team_id", string(teamID)),
		)
		respondWithError(w, http.StatusInternalServerError, "Failed to refresh catalog")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) tree(w http.ResponseWriter, r *http.Request) (treeReader, bool) {
	teamID, ok := h.teamID(w, r)
	if !ok {
		return nil, false
	}

	tree, err := h.catalogService.Tree(r.Context(), teamID)
	if err != nil {
		h.logger.Error("failed to load catalog tree",
			zap.Error(err),
			zap.String("team_id", string(teamID)),
		)
		respondWithError(w, http.StatusServiceUnavailable, "Catalog is not available; try again shortly")
		return nil, false
	}
	return tree, true
}

// teamID resolves the team whose catalog is being browsed: the effective
// team filter, or an explicit team_id for admins
func (h *CatalogHandler) teamID(w http.ResponseWriter, r *http.Request) (domain.TeamID, bool) {
	if teamID := auth.GetEffectiveTeamFilter(r.Context()); teamID != nil {
		return *teamID, true
	}
	if requested := r.URL.Query().Get("team_id"); requested != "" {
		return domain.TeamID(requested), true
	}
	respondWithError(w, http.StatusBadRequest, "team_id is required for cross-team access")
	return "", false
}

// treeReader is the snapshot surface the handler needs; satisfied by
// *catalog.Tree
type treeReader interface {
	Types() []domain.CatalogType
	KindsByType(typeID uuid.UUID) []domain.CatalogKind
	ModelsByKind(kindID uuid.UUID) []domain.CatalogModel
	MethodsByKind(kindID uuid.UUID) []domain.CatalogMethod
	PrintPositionsByKind(kindID uuid.UUID) []domain.CatalogPrintPosition
	KindName(typeID, kindID uuid.UUID) (string, bool)
}
