package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pitchside/quote-api/internal/domain"
	"github.com/pitchside/quote-api/internal/pricing"
	"github.com/pitchside/quote-api/internal/repository"
	"github.com/pitchside/quote-api/internal/service"
	"github.com/pitchside/quote-api/tests/testutil"
)

func setupItemServiceTest(t *testing.T) (*gorm.DB, *service.QuoteItemService, *testutil.TestCatalog, uuid.UUID) {
	db := testutil.SetupCleanTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestData(t, db)
	})

	logger := zap.NewNop()
	quoteRepo := repository.NewQuoteRepository(db)
	itemRepo := repository.NewQuoteItemRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	catalogSvc := service.NewCatalogService(catalogRepo, logger)
	svc := service.NewQuoteItemService(quoteRepo, itemRepo, catalogSvc, logger)

	fixture := testutil.SeedTestCatalog(t, db, "team-1")
	quote := testutil.CreateTestQuote(t, db, "team-1", "FC United")

	return db, svc, fixture, quote.ID
}

func TestQuoteItemService_AddItem_Manual(t *testing.T) {
	_, svc, _, quoteID := setupItemServiceTest(t)
	ctx := createTestContext()

	t.Run("manual price", func(t *testing.T) {
		price := 25.0
		item, err := svc.AddItem(ctx, quoteID, &domain.QuoteItemDraft{
			Name:        "Stadium banner",
			Quantity:    4,
			ManualPrice: &price,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, item.Position)
		assert.Equal(t, 25.0, item.UnitPrice)
		assert.Equal(t, 100.0, item.LineTotal)
	})

	t.Run("missing manual price defaults to zero", func(t *testing.T) {
		item, err := svc.AddItem(ctx, quoteID, &domain.QuoteItemDraft{
			Name:     "Placeholder",
			Quantity: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, 0.0, item.UnitPrice)
		assert.Equal(t, 0.0, item.LineTotal)
	})

	t.Run("negative manual price rejected", func(t *testing.T) {
		price := -5.0
		_, err := svc.AddItem(ctx, quoteID, &domain.QuoteItemDraft{
			Name:        "Bad line",
			Quantity:    1,
			ManualPrice: &price,
		})
		assert.ErrorIs(t, err, pricing.ErrInvalidPrice)
	})
}

func TestQuoteItemService_AddItem_Catalog(t *testing.T) {
	_, svc, fixture, quoteID := setupItemServiceTest(t)
	ctx := createTestContext()

	t.Run("resolves tier price with method", func(t *testing.T) {
		item, err := svc.AddItem(ctx, quoteID, &domain.QuoteItemDraft{
			Name:     "Home shirts",
			Quantity: 5,
			KindID:   &fixture.Kind.ID,
			ModelID:  &fixture.Model.ID,
			Methods: []domain.MethodSelection{
				{MethodID: fixture.Method.ID, Count: 1},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 105.0, item.UnitPrice) // tier 100 + method 5
		assert.Equal(t, 525.0, item.LineTotal)
		require.Len(t, item.Methods, 1)
		assert.Equal(t, 1, item.Methods[0].Count)
	})

	t.Run("method count zero materializes as one", func(t *testing.T) {
		item, err := svc.AddItem(ctx, quoteID, &domain.QuoteItemDraft{
			Name:     "Home shirts",
			Quantity: 10,
			KindID:   &fixture.Kind.ID,
			ModelID:  &fixture.Model.ID,
			Methods: []domain.MethodSelection{
				{MethodID: fixture.Method.ID, Count: 0},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 85.0, item.UnitPrice) // tier 80 + method 5
		require.Len(t, item.Methods, 1)
		assert.Equal(t, 1, item.Methods[0].Count)
	})

	t.Run("rejects a model the catalog does not have", func(t *testing.T) {
		unknownModel := uuid.New()
		_, err := svc.AddItem(ctx, quoteID, &domain.QuoteItemDraft{
			Name:     "Home shirts",
			Quantity: 5,
			KindID:   &fixture.Kind.ID,
			ModelID:  &unknownModel,
		})
		assert.ErrorIs(t, err, service.ErrUnknownSelection)
	})

	t.Run("rejects a kind the catalog does not have", func(t *testing.T) {
		unknownKind := uuid.New()
		_, err := svc.AddItem(ctx, quoteID, &domain.QuoteItemDraft{
			Name:     "Home shirts",
			Quantity: 5,
			KindID:   &unknownKind,
			ModelID:  &fixture.Model.ID,
		})
		assert.ErrorIs(t, err, service.ErrUnknownSelection)
	})

	t.Run("rejects method outside the model's list", func(t *testing.T) {
		_, err := svc.AddItem(ctx, quoteID, &domain.QuoteItemDraft{
			Name:     "Home shirts",
			Quantity: 5,
			KindID:   &fixture.Kind.ID,
			ModelID:  &fixture.Model.ID,
			Methods: []domain.MethodSelection{
				{MethodID: fixture.OtherMethod.ID, Count: 1},
			},
		})
		assert.ErrorIs(t, err, pricing.ErrInvalidMethod)
	})
}

func TestQuoteItemService_Positions(t *testing.T) {
	_, svc, _, quoteID := setupItemServiceTest(t)
	ctx := createTestContext()

	price := 10.0
	add := func(t *testing.T, name string) *domain.QuoteItemDTO {
		item, err := svc.AddItem(ctx, quoteID, &domain.QuoteItemDraft{
			Name:        name,
			Quantity:    1,
			ManualPrice: &price,
		})
		require.NoError(t, err)
		return item
	}

	first := add(t, "first")
	second := add(t, "second")
	third := add(t, "third")

	assert.Equal(t, 1, first.Position)
	assert.Equal(t, 2, second.Position)
	assert.Equal(t, 3, third.Position)

	t.Run("delete leaves a gap", func(t *testing.T) {
		require.NoError(t, svc.DeleteItem(ctx, quoteID, second.ID))

		items, err := svc.ListItems(ctx, quoteID)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, 1, items[0].Position)
		assert.Equal(t, 3, items[1].Position)
	})

	t.Run("next add goes after the gap", func(t *testing.T) {
		fourth := add(t, "fourth")
		assert.Equal(t, 4, fourth.Position)
	})
}

func TestQuoteItemService_Reorder(t *testing.T) {
	_, svc, _, quoteID := setupItemServiceTest(t)
	ctx := createTestContext()

	price := 10.0
	var ids []uuid.UUID
	for _, name := range []string{"a", "b", "c"} {
		item, err := svc.AddItem(ctx, quoteID, &domain.QuoteItemDraft{
			Name:        name,
			Quantity:    1,
			ManualPrice: &price,
		})
		require.NoError(t, err)
		ids = append(ids, item.ID)
	}

	t.Run("assigns positions in the given order", func(t *testing.T) {
		reordered, err := svc.Reorder(ctx, quoteID, []uuid.UUID{ids[2], ids[0], ids[1]})
		require.NoError(t, err)
		require.Len(t, reordered, 3)
		assert.Equal(t, "c", reordered[0].Name)
		assert.Equal(t, 1, reordered[0].Position)
		assert.Equal(t, "a", reordered[1].Name)
		assert.Equal(t, "b", reordered[2].Name)
		assert.Equal(t, 3, reordered[2].Position)
	})

	t.Run("rejects missing item", func(t *testing.T) {
		_, err := svc.Reorder(ctx, quoteID, []uuid.UUID{ids[0], ids[1]})
		assert.ErrorIs(t, err, service.ErrReorderIncomplete)
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		_, err := svc.Reorder(ctx, quoteID, []uuid.UUID{ids[0], ids[0], ids[1]})
		assert.ErrorIs(t, err, service.ErrReorderIncomplete)
	})

	t.Run("rejects foreign item id", func(t *testing.T) {
		_, err := svc.Reorder(ctx, quoteID, []uuid.UUID{ids[0], ids[1], uuid.New()})
		assert.ErrorIs(t, err, service.ErrReorderIncomplete)
	})
}

func TestQuoteItemService_UpdateItem(t *testing.T) {
	_, svc, fixture, quoteID := setupItemServiceTest(t)
	ctx := createTestContext()

	price := 10.0
	item, err := svc.AddItem(ctx, quoteID, &domain.QuoteItemDraft{
		Name:        "Scarves",
		Quantity:    3,
		ManualPrice: &price,
	})
	require.NoError(t, err)

	t.Run("re-resolves line total on quantity change", func(t *testing.T) {
		updated, err := svc.UpdateItem(ctx, quoteID, item.ID, &domain.QuoteItemDraft{
			Name:        "Scarves",
			Quantity:    7,
			ManualPrice: &price,
		})
		require.NoError(t, err)
		assert.Equal(t, 7, updated.Quantity)
		assert.Equal(t, 70.0, updated.LineTotal)
		assert.Equal(t, item.Position, updated.Position, "update must not renumber")
	})

	t.Run("switching to catalog mode re-prices", func(t *testing.T) {
		updated, err := svc.UpdateItem(ctx, quoteID, item.ID, &domain.QuoteItemDraft{
			Name:     "Home shirts",
			Quantity: 50,
			KindID:   &fixture.Kind.ID,
			ModelID:  &fixture.Model.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, 60.0, updated.UnitPrice) // unbounded tier
		assert.Equal(t, 3000.0, updated.LineTotal)
	})

	t.Run("item of another quote is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		other := testutil.CreateTestQuote(t, db, "team-1", "Rovers")
		_, err := svc.UpdateItem(ctx, other.ID, item.ID, &domain.QuoteItemDraft{
			Name:        "Scarves",
			Quantity:    1,
			ManualPrice: &price,
		})
		assert.ErrorIs(t, err, service.ErrItemQuoteMismatch)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := svc.UpdateItem(ctx, quoteID, uuid.New(), &domain.QuoteItemDraft{
			Name:        "Scarves",
			Quantity:    1,
			ManualPrice: &price,
		})
		assert.ErrorIs(t, err, service.ErrItemNotFound)
	})
}
