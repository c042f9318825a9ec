package pricing_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/quote-api/internal/catalog"
	"github.com/pitchside/quote-api/internal/domain"
	"github.com/pitchside/quote-api/internal/pricing"
)

// buildTestTree builds an in-memory catalog with one kind and one model:
// base price 50, tiers 1-9=100, 10-49=80, 50+=60, and two methods, one of
// which (embroidery) is not associated with the model.
func buildTestTree(t *testing.T) (*catalog.Tree, *domain.CatalogKind, *domain.CatalogModel, *domain.CatalogMethod, *domain.CatalogMethod) {
	t.Helper()

	catType := domain.CatalogType{BaseModel: domain.BaseModel{ID: uuid.New()}, TeamID: "team-1", Name: "Apparel"}
	kind := domain.CatalogKind{BaseModel: domain.BaseModel{ID: uuid.New()}, TypeID: catType.ID, Name: "Shirts"}
	model := domain.CatalogModel{BaseModel: domain.BaseModel{ID: uuid.New()}, KindID: kind.ID, Name: "Home Shirt", BasePrice: 50}
	screenPrint := domain.CatalogMethod{BaseModel: domain.BaseModel{ID: uuid.New()}, KindID: kind.ID, Name: "Screen print", Price: 5}
	embroidery := domain.CatalogMethod{BaseModel: domain.BaseModel{ID: uuid.New()}, KindID: kind.ID, Name: "Embroidery", Price: 2.5}

	maxLow := 9
	maxMid := 49
	rows := &catalog.Rows{
		Types:  []domain.CatalogType{catType},
		Kinds:  []domain.CatalogKind{kind},
		Models: []domain.CatalogModel{model},
		Tiers: []domain.PriceTier{
			{ID: uuid.New(), ModelID: model.ID, MinQty: 1, MaxQty: &maxLow, Price: 100},
			{ID: uuid.New(), ModelID: model.ID, MinQty: 10, MaxQty: &maxMid, Price: 80},
			{ID: uuid.New(), ModelID: model.ID, MinQty: 50, MaxQty: nil, Price: 60},
		},
		Methods: []domain.CatalogMethod{screenPrint, embroidery},
		ModelMethods: []domain.CatalogModelMethod{
			{ID: uuid.New(), ModelID: model.ID, MethodID: screenPrint.ID},
		},
	}

	return catalog.Build("team-1", rows), &kind, &model, &screenPrint, &embroidery
}

func TestResolveManualPrice(t *testing.T) {
	t.Run("accepts zero", func(t *testing.T) {
		price, err := pricing.ResolveManualPrice(0)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, price)
	})

	t.Run("accepts positive", func(t *testing.T) {
		price, err := pricing.ResolveManualPrice(123.45)
		assert.NoError(t, err)
		assert.Equal(t, 123.45, price)
	})

	t.Run("rejects negative", func(t *testing.T) {
		_, err := pricing.ResolveManualPrice(-0.01)
		assert.ErrorIs(t, err, pricing.ErrInvalidPrice)
	})
}

func TestResolveCatalogPrice_TierSelection(t *testing.T) {
	tree, kind, model, _, _ := buildTestTree(t)

	tests := []struct {
		name string
		qty  int
		want float64
	}{
		{"first tier lower bound", 1, 100},
		{"first tier upper bound", 9, 100},
		{"second tier lower bound", 10, 80},
		{"second tier upper bound", 49, 80},
		{"unbounded tier", 50, 60},
		{"deep into unbounded tier", 5000, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := pricing.ResolveCatalogPrice(tree, kind.ID, model.ID, tt.qty, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, price)
		})
	}
}

func TestResolveCatalogPrice_BasePriceFallback(t *testing.T) {
	tree, kind, model, _, _ := buildTestTree(t)

	// Quantity zero falls below every tier range, so the model's flat
	// base price applies.
	price, err := pricing.ResolveCatalogPrice(tree, kind.ID, model.ID, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 50.0, price)
}

func TestResolveCatalogPrice_Methods(t *testing.T) {
	tree, kind, model, screenPrint, embroidery := buildTestTree(t)

	t.Run("adds method price times count", func(t *testing.T) {
		price, err := pricing.ResolveCatalogPrice(tree, kind.ID, model.ID, 5, []domain.MethodSelection{
			{MethodID: screenPrint.ID, Count: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, 105.0, price) // 100 tier + 5*1
	})

	t.Run("count zero defaults to one", func(t *testing.T) {
		price, err := pricing.ResolveCatalogPrice(tree, kind.ID, model.ID, 5, []domain.MethodSelection{
			{MethodID: screenPrint.ID, Count: 0},
		})
		require.NoError(t, err)
		assert.Equal(t, 105.0, price)
	})

	t.Run("multiple counts multiply", func(t *testing.T) {
		price, err := pricing.ResolveCatalogPrice(tree, kind.ID, model.ID, 10, []domain.MethodSelection{
			{MethodID: screenPrint.ID, Count: 3},
		})
		require.NoError(t, err)
		assert.Equal(t, 95.0, price) // 80 tier + 5*3
	})

	t.Run("rejects method not associated with model", func(t *testing.T) {
		_, err := pricing.ResolveCatalogPrice(tree, kind.ID, model.ID, 5, []domain.MethodSelection{
			{MethodID: embroidery.ID, Count: 1},
		})
		assert.ErrorIs(t, err, pricing.ErrInvalidMethod)
	})

	t.Run("rejects unknown method", func(t *testing.T) {
		_, err := pricing.ResolveCatalogPrice(tree, kind.ID, model.ID, 5, []domain.MethodSelection{
			{MethodID: uuid.New(), Count: 1},
		})
		assert.ErrorIs(t, err, pricing.ErrInvalidMethod)
	})

	t.Run("rejects negative count", func(t *testing.T) {
		_, err := pricing.ResolveCatalogPrice(tree, kind.ID, model.ID, 5, []domain.MethodSelection{
			{MethodID: screenPrint.ID, Count: -1},
		})
		assert.ErrorIs(t, err, pricing.ErrInvalidMethod)
	})
}

func TestResolveCatalogPrice_Deterministic(t *testing.T) {
	tree, kind, model, screenPrint, _ := buildTestTree(t)

	selections := []domain.MethodSelection{{MethodID: screenPrint.ID, Count: 2}}
	first, err := pricing.ResolveCatalogPrice(tree, kind.ID, model.ID, 25, selections)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := pricing.ResolveCatalogPrice(tree, kind.ID, model.ID, 25, selections)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestResolveCatalogPrice_UnknownModelResolvesToZero(t *testing.T) {
	tree, kind, _, _, _ := buildTestTree(t)

	price, err := pricing.ResolveCatalogPrice(tree, kind.ID, uuid.New(), 5, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, price)
}
