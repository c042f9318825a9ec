package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"github.com/pitchside/quote-api/internal/domain"
	"github.com/pitchside/quote-api/internal/repository"
	"github.com/pitchside/quote-api/internal/service"
	"github.com/pitchside/quote-api/tests/testutil"
)

func TestCatalogService_SnapshotSemantics(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestData(t, db)
	})

	fixture := testutil.SeedTestCatalog(t, db, "team-1")
	svc := service.NewCatalogService(repository.NewCatalogRepository(db), zap.NewNop())
	ctx := context.Background()

	tree, err := svc.Tree(ctx, "team-1")
	require.NoError(t, err)

	t.Run("snapshot does not observe later edits", func(t *testing.T) {
		newModel := &domain.CatalogModel{
			KindID:    fixture.Kind.ID,
			Name:      "Away Shirt",
			BasePrice: 45,
		}
		require.NoError(t, db.Omit(clause.Associations).Create(newModel).Error)

		_, ok := tree.ModelName(fixture.Kind.ID, newModel.ID)
		assert.False(t, ok, "live edits must not leak into the held snapshot")

		// The cached tree also stays stale until an explicit reload.
		cached, err := svc.Tree(ctx, "team-1")
		require.NoError(t, err)
		_, ok = cached.ModelName(fixture.Kind.ID, newModel.ID)
		assert.False(t, ok)

		reloaded, err := svc.Reload(ctx, "team-1")
		require.NoError(t, err)
		name, ok := reloaded.ModelName(fixture.Kind.ID, newModel.ID)
		assert.True(t, ok)
		assert.Equal(t, "Away Shirt", name)
	})

	t.Run("trees are per team", func(t *testing.T) {
		other := testutil.SeedTestCatalog(t, db, "team-2")

		otherTree, err := svc.Tree(ctx, "team-2")
		require.NoError(t, err)

		_, ok := otherTree.TypeName(fixture.Type.ID)
		assert.False(t, ok, "team-2 snapshot must not contain team-1 rows")
		_, ok = otherTree.TypeName(other.Type.ID)
		assert.True(t, ok)
	})

	t.Run("reload all rebuilds every team", func(t *testing.T) {
		require.NoError(t, svc.ReloadAll(ctx))
	})
}
