package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pitchside/quote-api/internal/catalog"
	"github.com/pitchside/quote-api/internal/domain"
	"gorm.io/gorm"
)

// CatalogRepository reads and writes the persisted catalog tables. The read
// side produces the flat row snapshot the in-memory index is built from.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// LoadRows reads the full catalog snapshot for one team. Any failed table
// read aborts the whole load; no partial snapshot is returned.
func (r *CatalogRepository) LoadRows(ctx context.Context, teamID domain.TeamID) (*catalog.Rows, error) {
	rows := &catalog.Rows{}
	db := r.db.WithContext(ctx)

	if err := db.Where("team_id = ?", teamID).
		Order("display_order, name").
		Find(&rows.Types).Error; err != nil {
		return nil, err
	}

	typeIDs := make([]uuid.UUID, len(rows.Types))
	for i := range rows.Types {
		typeIDs[i] = rows.Types[i].ID
	}
	if len(typeIDs) == 0 {
		return rows, nil
	}

	if err := db.Where("type_id IN ?", typeIDs).
		Order("display_order, name").
		Find(&rows.Kinds).Error; err != nil {
		return nil, err
	}

	kindIDs := make([]uuid.UUID, len(rows.Kinds))
	for i := range rows.Kinds {
		kindIDs[i] = rows.Kinds[i].ID
	}
	if len(kindIDs) == 0 {
		return rows, nil
	}

	if err := db.Where("kind_id IN ?", kindIDs).
		Order("name").
		Find(&rows.Models).Error; err != nil {
		return nil, err
	}
	if err := db.Where("kind_id IN ?", kindIDs).
		Order("name").
		Find(&rows.Methods).Error; err != nil {
		return nil, err
	}
	if err := db.Where("kind_id IN ?", kindIDs).
		Order("display_order, label").
		Find(&rows.PrintPositions).Error; err != nil {
		return nil, err
	}

	modelIDs := make([]uuid.UUID, len(rows.Models))
	for i := range rows.Models {
		modelIDs[i] = rows.Models[i].ID
	}
	if len(modelIDs) == 0 {
		return rows, nil
	}

	if err := db.Where("model_id IN ?", modelIDs).
		Order("min_qty").
		Find(&rows.Tiers).Error; err != nil {
		return nil, err
	}
	if err := db.Where("model_id IN ?", modelIDs).
		Find(&rows.ModelMethods).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

// ListTeamIDs returns the distinct team ids present in the catalog. Used by
// the refresh job to know which snapshots to rebuild.
func (r *CatalogRepository) ListTeamIDs(ctx context.Context) ([]domain.TeamID, error) {
	var ids []domain.TeamID
	err := r.db.WithContext(ctx).
		Model(&domain.CatalogType{}).
		Distinct("team_id").
		Order("team_id").
		Pluck("team_id", &ids).Error
	return ids, err
}

func (r *CatalogRepository) CreateType(ctx context.Context, row *domain.CatalogType) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *CatalogRepository) CreateKind(ctx context.Context, row *domain.CatalogKind) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *CatalogRepository) CreateModel(ctx context.Context, row *domain.CatalogModel) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *CatalogRepository) CreateMethod(ctx context.Context, row *domain.CatalogMethod) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *CatalogRepository) CreatePrintPosition(ctx context.Context, row *domain.CatalogPrintPosition) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// ReplaceTiers swaps the tier set of a model in one transaction.
func (r *CatalogRepository) ReplaceTiers(ctx context.Context, modelID uuid.UUID, tiers []domain.PriceTier) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("model_id = ?", modelID).Delete(&domain.PriceTier{}).Error; err != nil {
			return err
		}
		for i := range tiers {
			tiers[i].ModelID = modelID
		}
		if len(tiers) == 0 {
			return nil
		}
		return tx.Create(&tiers).Error
	})
}
