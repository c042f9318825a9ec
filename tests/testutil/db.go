package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/pitchside/quote-api/internal/database"
	"github.com/pitchside/quote-api/internal/domain"
	"github.com/pitchside/quote-api/internal/repository"
)

// SetupTestDB creates a connection to the test PostgreSQL database.
// It uses environment variables or falls back to docker-compose defaults.
func SetupTestDB(t *testing.T) *gorm.DB {
	host := getEnvOrDefault("DATABASE_HOST", "localhost")
	port := getEnvOrDefault("DATABASE_PORT", "5432")
	user := getEnvOrDefault("DATABASE_USER", "quote_user")
	password := getEnvOrDefault("DATABASE_PASSWORD", "quote_password")
	dbname := getEnvOrDefault("DATABASE_NAME", "quotes_test")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		host, port, user, password, dbname)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err, "Failed to connect to test database. Ensure PostgreSQL is running.")

	require.NoError(t, database.AutoMigrate(db), "Failed to migrate test database schema")

	return db
}

// SetupCleanTestDB connects to the test database and wipes existing data
// so each test starts from a known empty state.
func SetupCleanTestDB(t *testing.T) *gorm.DB {
	db := SetupTestDB(t)
	CleanupTestData(t, db)
	return db
}

// CleanupTestData removes test data from all tables. Delete order respects
// foreign key constraints.
func CleanupTestData(t *testing.T, db *gorm.DB) {
	tables := []string{
		"quote_status_history",
		"quote_item_methods",
		"quote_items",
		"quotes",
		"attachments",
		"catalog_model_methods",
		"price_tiers",
		"catalog_models",
		"catalog_methods",
		"catalog_print_positions",
		"catalog_kinds",
		"catalog_types",
	}

	for _, table := range tables {
		err := db.Exec(fmt.Sprintf("DELETE FROM %s WHERE id IS NOT NULL", table)).Error
		if err != nil {
			// Table might not exist, that's ok
			t.Logf("Note: Could not clean table %s: %v", table, err)
		}
	}
}

// CreateTestQuote creates a draft quote for the given team and returns it
func CreateTestQuote(t *testing.T, db *gorm.DB, teamID domain.TeamID, customerName string) *domain.Quote {
	quote := &domain.Quote{
		TeamID:       teamID,
		Status:       domain.QuoteStatusDraft,
		Currency:     "EUR",
		CustomerName: customerName,
	}
	err := db.Omit(clause.Associations).Create(quote).Error
	require.NoError(t, err)
	return quote
}

// TestCatalog holds the ids of the seeded catalog fixture so tests can
// reference them in drafts and selections.
type TestCatalog struct {
	Type          *domain.CatalogType
	Kind          *domain.CatalogKind
	Model         *domain.CatalogModel
	Method        *domain.CatalogMethod
	OtherMethod   *domain.CatalogMethod
	PrintPosition *domain.CatalogPrintPosition
}

// SeedTestCatalog creates a small catalog for a team: one type, one kind,
// one model with a base price of 50 and tiers 1-9=100, 10-49=80, 50+=60,
// and two decoration methods priced 5 and 2.50. Only the first method is
// associated with the model.
func SeedTestCatalog(t *testing.T, db *gorm.DB, teamID domain.TeamID) *TestCatalog {
	ctx := context.Background()
	catalogRepo := repository.NewCatalogRepository(db)

	catType := &domain.CatalogType{TeamID: teamID, Name: "Apparel", DisplayOrder: 1}
	require.NoError(t, catalogRepo.CreateType(ctx, catType))

	kind := &domain.CatalogKind{TypeID: catType.ID, Name: "Shirts", DisplayOrder: 1}
	require.NoError(t, catalogRepo.CreateKind(ctx, kind))

	model := &domain.CatalogModel{KindID: kind.ID, Name: "Home Shirt", BasePrice: 50}
	require.NoError(t, catalogRepo.CreateModel(ctx, model))

	maxLow := 9
	maxMid := 49
	require.NoError(t, catalogRepo.ReplaceTiers(ctx, model.ID, []domain.PriceTier{
		{MinQty: 1, MaxQty: &maxLow, Price: 100},
		{MinQty: 10, MaxQty: &maxMid, Price: 80},
		{MinQty: 50, MaxQty: nil, Price: 60},
	}))

	method := &domain.CatalogMethod{KindID: kind.ID, Name: "Screen print", Price: 5}
	require.NoError(t, catalogRepo.CreateMethod(ctx, method))

	otherMethod := &domain.CatalogMethod{KindID: kind.ID, Name: "Embroidery", Price: 2.5}
	require.NoError(t, catalogRepo.CreateMethod(ctx, otherMethod))

	require.NoError(t, db.Create(&domain.CatalogModelMethod{
		ModelID:  model.ID,
		MethodID: method.ID,
	}).Error)

	position := &domain.CatalogPrintPosition{KindID: kind.ID, Label: "Chest left", DisplayOrder: 1}
	require.NoError(t, catalogRepo.CreatePrintPosition(ctx, position))

	return &TestCatalog{
		Type:          catType,
		Kind:          kind,
		Model:         model,
		Method:        method,
		OtherMethod:   otherMethod,
		PrintPosition: position,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
