// Package scheduler runs the periodic background jobs: team expiry
// reconciliation and the user snapshot refresh.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jwwei/user-center/internal/team/model"
	"github.com/jwwei/user-center/internal/team/repository"
)

// ExpiryReconciler marks expired teams overdue and clears their members.
type ExpiryReconciler struct {
	db       *gorm.DB
	repo     repository.Repository
	interval time.Duration
	logger   *zap.SugaredLogger
}

// NewExpiryReconciler creates the reconciler with the given sweep interval.
func NewExpiryReconciler(db *gorm.DB, repo repository.Repository, interval time.Duration, logger *zap.SugaredLogger) *ExpiryReconciler {
	return &ExpiryReconciler{db: db, repo: repo, interval: interval, logger: logger}
}

// Run sweeps on every tick until ctx is cancelled.
func (r *ExpiryReconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Infow("expiry reconciler stopped")
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep processes all currently expired teams. Each team gets its own
// transaction so one failure does not block the rest; a failed team is
// picked up again on the next tick.
func (r *ExpiryReconciler) Sweep(ctx context.Context) {
	teams, err := r.repo.ListExpired(ctx, time.Now())
	if err != nil {
		r.logger.Errorw("expiry sweep listing failed", "error", err)
		return
	}
	if len(teams) == 0 {
		return
	}

	swept := 0
	for i := range teams {
		if err := r.expireTeam(ctx, &teams[i]); err != nil {
			r.logger.Errorw("expiry sweep failed for team", "team_id", teams[i].ID, "error", err)
			continue
		}
		swept++
	}

	r.logger.Infow("expiry sweep completed", "expired", len(teams), "swept", swept)
}

// expireTeam marks one team overdue, soft-deletes it and purges its members.
func (r *ExpiryReconciler) expireTeam(ctx context.Context, team *model.Team) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.New(tx, r.logger)

		team.Status = model.StatusOverdue
		if err := tx.Unscoped().Model(&model.Team{}).
			Where("id = ?", team.ID).
			Update("status", int(model.StatusOverdue)).Error; err != nil {
			return err
		}
		if !team.DeletedAt.Valid {
			if err := repo.SoftDelete(ctx, team.ID); err != nil {
				return err
			}
		}
		return repo.PurgeMembers(ctx, team.ID)
	})
}
