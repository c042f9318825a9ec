// Package catalog provides the in-memory product catalog index. The index
// is built once from a flat row snapshot and is immutable afterwards; edits
// made to the catalog elsewhere are not observed until it is rebuilt.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/pitchside/quote-api/internal/domain"
)

// ErrCatalogLoad is returned when any underlying catalog table read fails.
// On failure no partial tree is produced; callers must not attempt
// catalog-mode pricing until a successful reload.
var ErrCatalogLoad = errors.New("catalog load failed")

// Rows is the flat snapshot of all catalog tables for one team.
type Rows struct {
	Types          []domain.CatalogType
	Kinds          []domain.CatalogKind
	Models         []domain.CatalogModel
	Tiers          []domain.PriceTier
	Methods        []domain.CatalogMethod
	ModelMethods   []domain.CatalogModelMethod
	PrintPositions []domain.CatalogPrintPosition
}

// Loader reads the flat catalog rows from the persisted store.
type Loader interface {
	LoadRows(ctx context.Context, teamID domain.TeamID) (*Rows, error)
}

type modelNode struct {
	row *domain.CatalogModel
	// tiers sorted ascending by MinQty; producer-side invariant, kept
	// sorted here so selection can short-circuit
	tiers []domain.PriceTier
	// allowed methods per the model-method association table; empty means
	// the catalog maintains no association list for this model and any
	// method of the kind applies
	allowed map[uuid.UUID]struct{}
}

type kindNode struct {
	row       *domain.CatalogKind
	typeID    uuid.UUID
	models    map[uuid.UUID]*modelNode
	methods   map[uuid.UUID]*domain.CatalogMethod
	positions map[uuid.UUID]*domain.CatalogPrintPosition
}

// Tree is the id-indexed catalog hierarchy. It is safe for concurrent
// readers; nothing mutates it after Build.
type Tree struct {
	teamID domain.TeamID
	types  map[uuid.UUID]*domain.CatalogType
	kinds  map[uuid.UUID]*kindNode
}

// Load reads the catalog snapshot for a team and builds the index. The load
// is all-or-nothing: a failed table read yields an error wrapping
// ErrCatalogLoad and no tree.
func Load(ctx context.Context, loader Loader, teamID domain.TeamID) (*Tree, error) {
	rows, err := loader.LoadRows(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogLoad, err)
	}
	return Build(teamID, rows), nil
}

// Build constructs the tree from a row snapshot. Rows referencing unknown
// parents are dropped rather than failing the build.
func Build(teamID domain.TeamID, rows *Rows) *Tree {
	t := &Tree{
		teamID: teamID,
		types:  make(map[uuid.UUID]*domain.CatalogType, len(rows.Types)),
		kinds:  make(map[uuid.UUID]*kindNode, len(rows.Kinds)),
	}

	for i := range rows.Types {
		row := &rows.Types[i]
		t.types[row.ID] = row
	}

	for i := range rows.Kinds {
		row := &rows.Kinds[i]
		if _, ok := t.types[row.TypeID]; !ok {
			continue
		}
		t.kinds[row.ID] = &kindNode{
			row:       row,
			typeID:    row.TypeID,
			models:    make(map[uuid.UUID]*modelNode),
			methods:   make(map[uuid.UUID]*domain.CatalogMethod),
			positions: make(map[uuid.UUID]*domain.CatalogPrintPosition),
		}
	}

	modelIndex := make(map[uuid.UUID]*modelNode, len(rows.Models))
	for i := range rows.Models {
		row := &rows.Models[i]
		kind, ok := t.kinds[row.KindID]
		if !ok {
			continue
		}
		node := &modelNode{row: row, allowed: make(map[uuid.UUID]struct{})}
		kind.models[row.ID] = node
		modelIndex[row.ID] = node
	}

	for i := range rows.Tiers {
		row := rows.Tiers[i]
		if node, ok := modelIndex[row.ModelID]; ok {
			node.tiers = append(node.tiers, row)
		}
	}
	for _, node := range modelIndex {
		sort.Slice(node.tiers, func(i, j int) bool {
			return node.tiers[i].MinQty < node.tiers[j].MinQty
		})
	}

	for i := range rows.Methods {
		row := &rows.Methods[i]
		if kind, ok := t.kinds[row.KindID]; ok {
			kind.methods[row.ID] = row
		}
	}

	for i := range rows.ModelMethods {
		row := rows.ModelMethods[i]
		if node, ok := modelIndex[row.ModelID]; ok {
			node.allowed[row.MethodID] = struct{}{}
		}
	}

	for i := range rows.PrintPositions {
		row := &rows.PrintPositions[i]
		if kind, ok := t.kinds[row.KindID]; ok {
			kind.positions[row.ID] = row
		}
	}

	return t
}

// TeamID returns the team the snapshot was loaded for.
func (t *Tree) TeamID() domain.TeamID {
	return t.teamID
}

// TypeName returns the name of a catalog type. ok is false for unknown ids;
// ids may reference rows created after the snapshot.
func (t *Tree) TypeName(id uuid.UUID) (string, bool) {
	row, ok := t.types[id]
	if !ok {
		return "", false
	}
	return row.Name, true
}

// KindName returns the name of a kind under the given type.
func (t *Tree) KindName(typeID, kindID uuid.UUID) (string, bool) {
	kind, ok := t.kinds[kindID]
	if !ok || kind.typeID != typeID {
		return "", false
	}
	return kind.row.Name, true
}

// ModelName returns the name of a model under the given kind.
func (t *Tree) ModelName(kindID, modelID uuid.UUID) (string, bool) {
	node, ok := t.model(kindID, modelID)
	if !ok {
		return "", false
	}
	return node.row.Name, true
}

// MethodName returns the name of a decoration method under the given kind.
func (t *Tree) MethodName(kindID, methodID uuid.UUID) (string, bool) {
	kind, ok := t.kinds[kindID]
	if !ok {
		return "", false
	}
	method, ok := kind.methods[methodID]
	if !ok {
		return "", false
	}
	return method.Name, true
}

// PrintPositionLabel returns the label of a print position under the given kind.
func (t *Tree) PrintPositionLabel(kindID, positionID uuid.UUID) (string, bool) {
	kind, ok := t.kinds[kindID]
	if !ok {
		return "", false
	}
	pos, ok := kind.positions[positionID]
	if !ok {
		return "", false
	}
	return pos.Label, true
}

// ModelBasePrice returns the flat base price of a model.
func (t *Tree) ModelBasePrice(kindID, modelID uuid.UUID) (float64, bool) {
	node, ok := t.model(kindID, modelID)
	if !ok {
		return 0, false
	}
	return node.row.BasePrice, true
}

// MethodPrice returns the per-count price of a decoration method.
func (t *Tree) MethodPrice(kindID, methodID uuid.UUID) (float64, bool) {
	kind, ok := t.kinds[kindID]
	if !ok {
		return 0, false
	}
	method, ok := kind.methods[methodID]
	if !ok {
		return 0, false
	}
	return method.Price, true
}

// MethodAllowed reports whether a method may be applied to a model: the
// method must belong to the model's kind and, when the model carries an
// association list, appear in it.
func (t *Tree) MethodAllowed(kindID, modelID, methodID uuid.UUID) bool {
	kind, ok := t.kinds[kindID]
	if !ok {
		return false
	}
	if _, ok := kind.methods[methodID]; !ok {
		return false
	}
	node, ok := kind.models[modelID]
	if !ok {
		return false
	}
	if len(node.allowed) == 0 {
		return true
	}
	_, ok = node.allowed[methodID]
	return ok
}

// ResolveTierPrice selects the price tier whose range contains qty (MaxQty
// inclusive when present, unbounded above when nil) and returns its price.
// When no tier matches, because of a range gap or because the model has no
// tiers, the model's flat base price is returned instead: an unpriceable
// item is never produced from a known model. Unknown kind or model ids
// resolve to zero.
func (t *Tree) ResolveTierPrice(kindID, modelID uuid.UUID, qty int) float64 {
	node, ok := t.model(kindID, modelID)
	if !ok {
		return 0
	}
	for i := range node.tiers {
		tier := &node.tiers[i]
		if qty < tier.MinQty {
			break
		}
		if tier.Contains(qty) {
			return tier.Price
		}
	}
	return node.row.BasePrice
}

// Types returns all catalog types sorted by display order.
func (t *Tree) Types() []domain.CatalogType {
	out := make([]domain.CatalogType, 0, len(t.types))
	for _, row := range t.types {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// KindsByType returns the kinds under a type sorted by display order.
func (t *Tree) KindsByType(typeID uuid.UUID) []domain.CatalogKind {
	var out []domain.CatalogKind
	for _, kind := range t.kinds {
		if kind.typeID == typeID {
			out = append(out, *kind.row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ModelsByKind returns the models under a kind sorted by name, with their
// tiers attached sorted by MinQty.
func (t *Tree) ModelsByKind(kindID uuid.UUID) []domain.CatalogModel {
	kind, ok := t.kinds[kindID]
	if !ok {
		return nil
	}
	out := make([]domain.CatalogModel, 0, len(kind.models))
	for _, node := range kind.models {
		row := *node.row
		row.Tiers = append([]domain.PriceTier(nil), node.tiers...)
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// MethodsByKind returns the decoration methods under a kind sorted by name.
func (t *Tree) MethodsByKind(kindID uuid.UUID) []domain.CatalogMethod {
	kind, ok := t.kinds[kindID]
	if !ok {
		return nil
	}
	out := make([]domain.CatalogMethod, 0, len(kind.methods))
	for _, row := range kind.methods {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// PrintPositionsByKind returns the print positions under a kind sorted by
// display order.
func (t *Tree) PrintPositionsByKind(kindID uuid.UUID) []domain.CatalogPrintPosition {
	kind, ok := t.kinds[kindID]
	if !ok {
		return nil
	}
	out := make([]domain.CatalogPrintPosition, 0, len(kind.positions))
	for _, row := range kind.positions {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func (t *Tree) model(kindID, modelID uuid.UUID) (*modelNode, bool) {
	kind, ok := t.kinds[kindID]
	if !ok {
		return nil, false
	}
	node, ok := kind.models[modelID]
	return node, ok
}
