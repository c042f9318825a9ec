package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pitchside/quote-api/internal/auth"
	"github.com/pitchside/quote-api/internal/domain"
	"github.com/pitchside/quote-api/internal/repository"
)

// setupMinimalTestDB creates a throwaway database for SQL-shape tests
func setupMinimalTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}

// SimpleModel is a minimal model for testing the team filter
type SimpleModel struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	Name   string
	TeamID string `gorm:"column:team_id"`
}

func TestApplyTeamFilter_WithFilter(t *testing.T) {
	db := setupMinimalTestDB(t)
	_ = db.AutoMigrate(&SimpleModel{})

	teamOne := domain.TeamID("team-1")
	ctx := auth.WithTeamFilter(context.Background(), &auth.TeamFilter{TeamID: &teamOne})

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return repository.ApplyTeamFilter(ctx, tx.Model(&SimpleModel{})).Find(&[]SimpleModel{})
	})

	assert.Contains(t, sql, "team_id", "Query should contain team_id filter")
}

func TestApplyTeamFilter_AdminWithoutFilter(t *testing.T) {
	db := setupMinimalTestDB(t)
	_ = db.AutoMigrate(&SimpleModel{})

	ctx := auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID: "admin-1",
		Roles:  []domain.UserRoleType{domain.RoleAdmin},
		TeamID: "team-1",
	})

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return repository.ApplyTeamFilter(ctx, tx.Model(&SimpleModel{})).Find(&[]SimpleModel{})
	})

	assert.NotContains(t, sql, "team_id =", "Admins see all teams, no filter expected")
}

func TestApplyTeamFilter_NonAdminScoped(t *testing.T) {
	db := setupMinimalTestDB(t)
	_ = db.AutoMigrate(&SimpleModel{})

	ctx := auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID: "sales-1",
		Roles:  []domain.UserRoleType{domain.RoleSales},
		TeamID: "team-1",
	})

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return repository.ApplyTeamFilter(ctx, tx.Model(&SimpleModel{})).Find(&[]SimpleModel{})
	})

	assert.Contains(t, sql, "team_id", "Non-admin queries must be scoped to the user's team")
}

func TestApplyTeamFilterWithAlias(t *testing.T) {
	db := setupMinimalTestDB(t)
	_ = db.AutoMigrate(&SimpleModel{})

	teamOne := domain.TeamID("team-1")
	ctx := auth.WithTeamFilter(context.Background(), &auth.TeamFilter{TeamID: &teamOne})

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return repository.ApplyTeamFilterWithAlias(ctx, tx.Model(&SimpleModel{}), "quotes").Find(&[]SimpleModel{})
	})

	assert.Contains(t, sql, "quotes.team_id", "Query should contain qualified column name")
}

func TestMustHaveTeamAccess(t *testing.T) {
	teamOne := domain.TeamID("team-1")

	t.Run("no filter grants access", func(t *testing.T) {
		assert.True(t, repository.MustHaveTeamAccess(context.Background(), "team-2"))
	})

	t.Run("matching team grants access", func(t *testing.T) {
		ctx := auth.WithTeamFilter(context.Background(), &auth.TeamFilter{TeamID: &teamOne})
		assert.True(t, repository.MustHaveTeamAccess(ctx, "team-1"))
	})

	t.Run("other team is denied", func(t *testing.T) {
		ctx := auth.WithTeamFilter(context.Background(), &auth.TeamFilter{TeamID: &teamOne})
		assert.False(t, repository.MustHaveTeamAccess(ctx, "team-2"))
	})
}
