package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/quote-api/internal/catalog"
	"github.com/pitchside/quote-api/internal/domain"
)

type failingLoader struct {
	err error
}

func (l *failingLoader) LoadRows(ctx context.Context, teamID domain.TeamID) (*catalog.Rows, error) {
	return nil, l.err
}

type staticLoader struct {
	rows *catalog.Rows
}

func (l *staticLoader) LoadRows(ctx context.Context, teamID domain.TeamID) (*catalog.Rows, error) {
	return l.rows, nil
}

func newID() uuid.UUID { return uuid.New() }

func fixtureRows() (*catalog.Rows, map[string]uuid.UUID) {
	ids := map[string]uuid.UUID{
		"type": newID(), "kind": newID(), "model": newID(),
		"method": newID(), "otherMethod": newID(), "position": newID(),
	}

	maxLow := 9
	rows := &catalog.Rows{
		Types: []domain.CatalogType{
			{BaseModel: domain.BaseModel{ID: ids["type"]}, TeamID: "team-1", Name: "Apparel", DisplayOrder: 1},
		},
		Kinds: []domain.CatalogKind{
			{BaseModel: domain.BaseModel{ID: ids["kind"]}, TypeID: ids["type"], Name: "Shirts"},
		},
		Models: []domain.CatalogModel{
			{BaseModel: domain.BaseModel{ID: ids["model"]}, KindID: ids["kind"], Name: "Home Shirt", BasePrice: 50},
		},
		Tiers: []domain.PriceTier{
			{ID: newID(), ModelID: ids["model"], MinQty: 1, MaxQty: &maxLow, Price: 100},
		},
		Methods: []domain.CatalogMethod{
			{BaseModel: domain.BaseModel{ID: ids["method"]}, KindID: ids["kind"], Name: "Screen print", Price: 5},
			{BaseModel: domain.BaseModel{ID: ids["otherMethod"]}, KindID: ids["kind"], Name: "Embroidery", Price: 2.5},
		},
		ModelMethods: []domain.CatalogModelMethod{
			{ID: newID(), ModelID: ids["model"], MethodID: ids["method"]},
		},
		PrintPositions: []domain.CatalogPrintPosition{
			{BaseModel: domain.BaseModel{ID: ids["position"]}, KindID: ids["kind"], Label: "Chest left"},
		},
	}
	return rows, ids
}

func TestLoad_AllOrNothing(t *testing.T) {
	loadErr := errors.New("connection refused")
	tree, err := catalog.Load(context.Background(), &failingLoader{err: loadErr}, "team-1")

	assert.Nil(t, tree, "a failed load must not produce a partial tree")
	assert.ErrorIs(t, err, catalog.ErrCatalogLoad)
}

func TestLoad_Success(t *testing.T) {
	rows, ids := fixtureRows()
	tree, err := catalog.Load(context.Background(), &staticLoader{rows: rows}, "team-1")
	require.NoError(t, err)
	require.NotNil(t, tree)

	assert.Equal(t, domain.TeamID("team-1"), tree.TeamID())

	name, ok := tree.TypeName(ids["type"])
	assert.True(t, ok)
	assert.Equal(t, "Apparel", name)
}

func TestTree_Lookups(t *testing.T) {
	rows, ids := fixtureRows()
	tree := catalog.Build("team-1", rows)

	t.Run("kind name under type", func(t *testing.T) {
		name, ok := tree.KindName(ids["type"], ids["kind"])
		assert.True(t, ok)
		assert.Equal(t, "Shirts", name)
	})

	t.Run("kind under wrong type is unknown", func(t *testing.T) {
		_, ok := tree.KindName(newID(), ids["kind"])
		assert.False(t, ok)
	})

	t.Run("model name and base price", func(t *testing.T) {
		name, ok := tree.ModelName(ids["kind"], ids["model"])
		assert.True(t, ok)
		assert.Equal(t, "Home Shirt", name)

		price, ok := tree.ModelBasePrice(ids["kind"], ids["model"])
		assert.True(t, ok)
		assert.Equal(t, 50.0, price)
	})

	t.Run("method price", func(t *testing.T) {
		price, ok := tree.MethodPrice(ids["kind"], ids["method"])
		assert.True(t, ok)
		assert.Equal(t, 5.0, price)
	})

	t.Run("print position label", func(t *testing.T) {
		label, ok := tree.PrintPositionLabel(ids["kind"], ids["position"])
		assert.True(t, ok)
		assert.Equal(t, "Chest left", label)
	})

	t.Run("unknown ids report not found", func(t *testing.T) {
		_, ok := tree.TypeName(newID())
		assert.False(t, ok)
		_, ok = tree.ModelName(ids["kind"], newID())
		assert.False(t, ok)
		_, ok = tree.MethodPrice(ids["kind"], newID())
		assert.False(t, ok)
	})
}

func TestTree_MethodAllowed(t *testing.T) {
	rows, ids := fixtureRows()
	tree := catalog.Build("team-1", rows)

	assert.True(t, tree.MethodAllowed(ids["kind"], ids["model"], ids["method"]))
	assert.False(t, tree.MethodAllowed(ids["kind"], ids["model"], ids["otherMethod"]),
		"method outside the model's association list must not be allowed")
	assert.False(t, tree.MethodAllowed(ids["kind"], ids["model"], newID()))
}

func TestTree_MethodAllowed_NoAssociationList(t *testing.T) {
	rows, ids := fixtureRows()
	// Without association rows, any method of the kind applies.
	rows.ModelMethods = nil
	tree := catalog.Build("team-1", rows)

	assert.True(t, tree.MethodAllowed(ids["kind"], ids["model"], ids["method"]))
	assert.True(t, tree.MethodAllowed(ids["kind"], ids["model"], ids["otherMethod"]))
}

func TestTree_ResolveTierPrice(t *testing.T) {
	rows, ids := fixtureRows()
	tree := catalog.Build("team-1", rows)

	t.Run("in range", func(t *testing.T) {
		assert.Equal(t, 100.0, tree.ResolveTierPrice(ids["kind"], ids["model"], 1))
		assert.Equal(t, 100.0, tree.ResolveTierPrice(ids["kind"], ids["model"], 9))
	})

	t.Run("outside every tier falls back to base price", func(t *testing.T) {
		assert.Equal(t, 50.0, tree.ResolveTierPrice(ids["kind"], ids["model"], 10))
	})

	t.Run("unknown model resolves to zero", func(t *testing.T) {
		assert.Equal(t, 0.0, tree.ResolveTierPrice(ids["kind"], newID(), 5))
	})
}

func TestBuild_DropsOrphanRows(t *testing.T) {
	rows, ids := fixtureRows()
	rows.Kinds = append(rows.Kinds, domain.CatalogKind{
		BaseModel: domain.BaseModel{ID: newID()}, TypeID: newID(), Name: "Orphan",
	})
	rows.Models = append(rows.Models, domain.CatalogModel{
		BaseModel: domain.BaseModel{ID: newID()}, KindID: newID(), Name: "Orphan Model",
	})

	tree := catalog.Build("team-1", rows)

	kinds := tree.KindsByType(ids["type"])
	require.Len(t, kinds, 1)
	assert.Equal(t, "Shirts", kinds[0].Name)
}

func TestTree_BrowseAccessors(t *testing.T) {
	rows, ids := fixtureRows()
	rows.Types = append(rows.Types, domain.CatalogType{
		BaseModel: domain.BaseModel{ID: newID()}, TeamID: "team-1", Name: "Equipment", DisplayOrder: 2,
	})
	tree := catalog.Build("team-1", rows)

	t.Run("types sorted by display order", func(t *testing.T) {
		types := tree.Types()
		require.Len(t, types, 2)
		assert.Equal(t, "Apparel", types[0].Name)
		assert.Equal(t, "Equipment", types[1].Name)
	})

	t.Run("models carry their tiers", func(t *testing.T) {
		models := tree.ModelsByKind(ids["kind"])
		require.Len(t, models, 1)
		require.Len(t, models[0].Tiers, 1)
		assert.Equal(t, 100.0, models[0].Tiers[0].Price)
	})

	t.Run("methods sorted by name", func(t *testing.T) {
		methods := tree.MethodsByKind(ids["kind"])
		require.Len(t, methods, 2)
		assert.Equal(t, "Embroidery", methods[0].Name)
		assert.Equal(t, "Screen print", methods[1].Name)
	})

	t.Run("unknown kind yields empty slices", func(t *testing.T) {
		assert.Empty(t, tree.ModelsByKind(newID()))
		assert.Empty(t, tree.MethodsByKind(newID()))
		assert.Empty(t, tree.PrintPositionsByKind(newID()))
	})
}
