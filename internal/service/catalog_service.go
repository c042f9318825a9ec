package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/pitchside/quote-api/internal/catalog"
	"github.com/pitchside/quote-api/internal/domain"
	"github.com/pitchside/quote-api/internal/repository"
	"go.uber.org/zap"
)

// CatalogService owns the in-memory catalog snapshots, one tree per team.
// A tree is loaded on first use and swapped wholesale on reload; readers
// always see either the previous complete snapshot or the new one, never a
// partial state.
type CatalogService struct {
	catalogRepo *repository.CatalogRepository
	logger      *zap.Logger

	mu    sync.RWMutex
	trees map[domain.TeamID]*catalog.Tree
}

func NewCatalogService(catalogRepo *repository.CatalogRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		catalogRepo: catalogRepo,
		logger:      logger,
		trees:       make(map[domain.TeamID]*catalog.Tree),
	}
}

// Tree returns the catalog snapshot for a team, loading it on first use.
func (s *CatalogService) Tree(ctx context.Context, teamID domain.TeamID) (*catalog.Tree, error) {
	s.mu.RLock()
	tree, ok := s.trees[teamID]
	s.mu.RUnlock()
	if ok {
		return tree, nil
	}
	return s.Reload(ctx, teamID)
}

// Reload rebuilds the snapshot for one team. On failure the previous
// snapshot, if any, stays in place.
func (s *CatalogService) Reload(ctx context.Context, teamID domain.TeamID) (*catalog.Tree, error) {
	tree, err := catalog.Load(ctx, s.catalogRepo, teamID)
	if err != nil {
		s.logger.Error("catalog reload failed",
			zap.String("team_id", string(teamID)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to reload catalog for team %s: %w", teamID, err)
	}

	s.mu.Lock()
	s.trees[teamID] = tree
	s.mu.Unlock()

	s.logger.Info("catalog snapshot rebuilt",
		zap.String("team_id", string(teamID)),
	)
	return tree, nil
}

// ReloadAll rebuilds the snapshot of every team present in the catalog.
// Used by the scheduled refresh; a failing team is logged and skipped so
// one team's bad data does not block the others.
func (s *CatalogService) ReloadAll(ctx context.Context) error {
	teamIDs, err := s.catalogRepo.ListTeamIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list catalog teams: %w", err)
	}

	var failed int
	for _, teamID := range teamIDs {
		if _, err := s.Reload(ctx, teamID); err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("catalog refresh: %d of %d teams failed", failed, len(teamIDs))
	}
	return nil
}
