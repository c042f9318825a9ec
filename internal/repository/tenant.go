package repository

import (
	"context"
	"strings"

	"github.com/pitchside/quote-api/internal/auth"
	"gorm.io/gorm"
)

// MaxPageSize is the maximum allowed page size for paginated queries
const MaxPageSize = 200

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// SortConfig holds sorting configuration for list queries
type SortConfig struct {
	Field string    // The field to sort by (API field name)
	Order SortOrder // asc or desc
}

// DefaultSortConfig returns a default sort configuration (updated_at DESC)
func DefaultSortConfig() SortConfig {
	return SortConfig{
		Field: "updatedAt",
		Order: SortOrderDesc,
	}
}

// ParseSortOrder parses a string into SortOrder, defaulting to desc
func ParseSortOrder(s string) SortOrder {
	if strings.ToLower(s) == "asc" {
		return SortOrderAsc
	}
	return SortOrderDesc
}

// BuildOrderClause builds the SQL ORDER BY clause from field mapping and sort config.
// fieldMap maps API field names to database column names. Returns the default
// sort if the field is not in the whitelist.
func BuildOrderClause(config SortConfig, fieldMap map[string]string, defaultColumn string) string {
	column, ok := fieldMap[config.Field]
	if !ok {
		column = defaultColumn
	}

	order := "DESC"
	if config.Order == SortOrderAsc {
		order = "ASC"
	}

	return column + " " + order
}

// ApplyTeamFilter applies the multi-tenant team filter to a GORM query.
// This should be called on queries that need to be filtered by team_id.
// If no filter is set (user has access to all teams), the query is returned unchanged.
func ApplyTeamFilter(ctx context.Context, query *gorm.DB) *gorm.DB {
	teamID := auth.GetEffectiveTeamFilter(ctx)
	if teamID != nil {
		return query.Where("team_id = ?", *teamID)
	}
	return query
}

// ApplyTeamFilterWithAlias applies the team filter using a table alias.
// Use this when joining multiple tables and you need to specify which
// table's team_id to filter on.
func ApplyTeamFilterWithAlias(ctx context.Context, query *gorm.DB, tableAlias string) *gorm.DB {
	teamID := auth.GetEffectiveTeamFilter(ctx)
	if teamID != nil {
		return query.Where(tableAlias+".team_id = ?", *teamID)
	}
	return query
}

// MustHaveTeamAccess checks if the user has access to a specific team's data.
// Useful for single-record operations where access must be verified.
func MustHaveTeamAccess(ctx context.Context, recordTeamID string) bool {
	teamID := auth.GetEffectiveTeamFilter(ctx)
	if teamID == nil {
		return true
	}
	return string(*teamID) == recordTeamID
}
