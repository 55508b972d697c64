package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jwwei/user-center/internal/user/cache"
	"github.com/jwwei/user-center/internal/user/repository"
)

// SnapshotRefresher periodically reloads the in-memory bulk cache of
// active user profiles that feeds the recommendation path.
type SnapshotRefresher struct {
	repo     repository.Repository
	snapshot *cache.Snapshot
	interval time.Duration
	logger   *zap.SugaredLogger
}

// NewSnapshotRefresher creates the refresher with the given interval.
func NewSnapshotRefresher(repo repository.Repository, snapshot *cache.Snapshot, interval time.Duration, logger *zap.SugaredLogger) *SnapshotRefresher {
	return &SnapshotRefresher{repo: repo, snapshot: snapshot, interval: interval, logger: logger}
}

// Run fills the snapshot immediately, then refreshes on every tick until
// ctx is cancelled.
func (r *SnapshotRefresher) Run(ctx context.Context) {
	r.Refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Infow("snapshot refresher stopped")
			return
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}

// Refresh replaces the snapshot contents with the current set of active
// user profiles. On a load failure the previous snapshot stays in place.
func (r *SnapshotRefresher) Refresh(ctx context.Context) {
	users, err := r.repo.ListActiveProfiles(ctx)
	if err != nil {
		r.logger.Errorw("snapshot refresh load failed", "error", err)
		return
	}

	r.snapshot.Replace(users)
	r.logger.Infow("snapshot refreshed", "users", len(users))
}
