package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// CatalogRefreshJobName is the name of the catalog snapshot refresh job
const CatalogRefreshJobName = "catalog_refresh"

// CatalogRefresher rebuilds the in-memory catalog snapshots from the store.
// The interface lets the job call the service without importing the service
// package directly.
type CatalogRefresher interface {
	ReloadAll(ctx context.Context) error
}

// CatalogRefreshJob periodically rebuilds every team's catalog snapshot so
// catalog edits made outside the API become visible without a restart.
type CatalogRefreshJob struct {
	refresher CatalogRefresher
	logger    *zap.Logger
	timeout   time.Duration
}

// NewCatalogRefreshJob creates a new catalog refresh job. The timeout
// controls how long one refresh run is allowed to take.
func NewCatalogRefreshJob(refresher CatalogRefresher, logger *zap.Logger, timeout time.Duration) *CatalogRefreshJob {
	return &CatalogRefreshJob{
		refresher: refresher,
		logger:    logger,
		timeout:   timeout,
	}
}

// Run executes one refresh pass. Called by the scheduler according to the
// configured cron expression.
func (j *CatalogRefreshJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	j.logger.Info("starting catalog refresh job")

	if err := j.refresher.ReloadAll(ctx); err != nil {
		j.logger.Error("catalog refresh failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("catalog refresh completed",
		zap.Duration("duration", time.Since(start)))
}
