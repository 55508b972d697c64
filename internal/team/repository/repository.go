// Package repository provides data access layer for team module.
package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jwwei/user-center/internal/team/model"
)

// Repository defines the interface for team data access operations.
type Repository interface {
	// Create inserts a new team.
	Create(ctx context.Context, team *model.Team) error

	// GetByID finds a non-deleted team by id.
	GetByID(ctx context.Context, teamID string) (*model.Team, error)

	// Save persists all fields of an existing team.
	Save(ctx context.Context, team *model.Team) error

	// SoftDelete marks the team deleted.
	SoftDelete(ctx context.Context, teamID string) error

	// Search returns a page of teams matching the listing filter,
	// excluding the given team ids.
	Search(ctx context.Context, req *model.SearchTeamsRequest, excludeTeamIDs []string) ([]model.Team, int64, error)

	// ListExpired returns teams past their expiry that the sweep has not
	// finished processing yet, soft-deleted rows included.
	ListExpired(ctx context.Context, now time.Time) ([]model.Team, error)

	// CreateMember inserts a membership row.
	CreateMember(ctx context.Context, member *model.TeamMember) error

	// GetMember finds an active membership row.
	GetMember(ctx context.Context, teamID, userID string) (*model.TeamMember, error)

	// GetMemberUnscoped finds a membership row, soft-deleted included.
	GetMemberUnscoped(ctx context.Context, teamID, userID string) (*model.TeamMember, error)

	// ReactivateMember clears the soft-delete marker on a previous
	// membership row and resets it to a fresh non-leader join.
	ReactivateMember(ctx context.Context, teamID, userID string, joinTime time.Time) error

	// SoftDeleteMember marks a membership row deleted.
	SoftDeleteMember(ctx context.Context, teamID, userID string) error

	// PurgeMembers physically removes all membership rows of a team.
	PurgeMembers(ctx context.Context, teamID string) error

	// SetLeaderFlag updates the is_leader flag on an active membership row.
	SetLeaderFlag(ctx context.Context, teamID, userID string, isLeader bool) error

	// CountActiveMembers counts non-deleted membership rows of a team.
	CountActiveMembers(ctx context.Context, teamID string) (int64, error)

	// ListMembers returns the active membership rows of a team.
	ListMembers(ctx context.Context, teamID string) ([]model.TeamMember, error)

	// TeamIDsOfUser returns ids of teams the user actively belongs to.
	TeamIDsOfUser(ctx context.Context, userID string) ([]string, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new team repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// Create inserts a new team.
func (r *repository) Create(ctx context.Context, team *model.Team) error {
	if err := r.db.WithContext(ctx).Create(team).Error; err != nil {
		r.logger.Errorw("Create team database error", "team_id", team.ID, "error", err)
		return err
	}
	return nil
}

// GetByID finds a non-deleted team by id.
func (r *repository) GetByID(ctx context.Context, teamID string) (*model.Team, error) {
	var team model.Team
	err := r.db.WithContext(ctx).
		Where("id = ?", teamID).
		First(&team).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrTeamNotFound
		}
		r.logger.Errorw("GetByID database error", "team_id", teamID, "error", err)
		return nil, err
	}

	return &team, nil
}

// Save persists all fields of an existing team.
func (r *repository) Save(ctx context.Context, team *model.Team) error {
	if err := r.db.WithContext(ctx).Save(team).Error; err != nil {
		r.logger.Errorw("Save team database error", "team_id", team.ID, "error", err)
		return err
	}
	return nil
}

// SoftDelete marks the team deleted.
func (r *repository) SoftDelete(ctx context.Context, teamID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", teamID).
		Delete(&model.Team{})

	if result.Error != nil {
		r.logger.Errorw("SoftDelete database error", "team_id", teamID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrTeamNotFound
	}
	return nil
}

// Search returns a page of teams matching the listing filter.
// Overdue and private teams never appear in the listing.
func (r *repository) Search(ctx context.Context, req *model.SearchTeamsRequest, excludeTeamIDs []string) ([]model.Team, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Team{}).
		Where("status NOT IN ?", []int{int(model.StatusOverdue), int(model.StatusPrivate)})

	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}
	if req.Status != nil {
		query = query.Where("status = ?", *req.Status)
	}
	if req.MaxNum != nil {
		query = query.Where("max_num = ?", *req.MaxNum)
	}
	if req.Joinable {
		query = query.Where("num < max_num AND expire_time > ?", time.Now())
	}
	if len(excludeTeamIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeTeamIDs)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("Search count database error", "error", err)
		return nil, 0, err
	}

	var teams []model.Team
	err := query.
		Order("created_at DESC").
		Offset((req.Current - 1) * req.PageSize).
		Limit(req.PageSize).
		Find(&teams).Error
	if err != nil {
		r.logger.Errorw("Search database error", "error", err)
		return nil, 0, err
	}

	return teams, total, nil
}

// ListExpired returns teams past their expiry that still need sweeping.
// The filter is deliberately permissive so an interrupted sweep converges
// on the next tick: a team already soft-deleted but not yet marked overdue
// is picked up again.
func (r *repository) ListExpired(ctx context.Context, now time.Time) ([]model.Team, error) {
	var teams []model.Team
	err := r.db.WithContext(ctx).
		Unscoped().
		Where("expire_time < ? AND (deleted_at IS NULL OR status <> ?)", now, int(model.StatusOverdue)).
		Find(&teams).Error
	if err != nil {
		r.logger.Errorw("ListExpired database error", "error", err)
		return nil, err
	}
	return teams, nil
}

// CreateMember inserts a membership row.
func (r *repository) CreateMember(ctx context.Context, member *model.TeamMember) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		r.logger.Errorw("CreateMember database error",
			"team_id", member.TeamID, "user_id", member.UserID, "error", err)
		return err
	}
	return nil
}

// GetMember finds an active membership row.
func (r *repository) GetMember(ctx context.Context, teamID, userID string) (*model.TeamMember, error) {
	var member model.TeamMember
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&member).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotMember
		}
		r.logger.Errorw("GetMember database error", "team_id", teamID, "user_id", userID, "error", err)
		return nil, err
	}

	return &member, nil
}

// GetMemberUnscoped finds a membership row, soft-deleted included.
func (r *repository) GetMemberUnscoped(ctx context.Context, teamID, userID string) (*model.TeamMember, error) {
	var member model.TeamMember
	err := r.db.WithContext(ctx).
		Unscoped().
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&member).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotMember
		}
		r.logger.Errorw("GetMemberUnscoped database error",
			"team_id", teamID, "user_id", userID, "error", err)
		return nil, err
	}

	return &member, nil
}

// ReactivateMember clears the soft-delete marker on a previous membership row.
func (r *repository) ReactivateMember(ctx context.Context, teamID, userID string, joinTime time.Time) error {
	result := r.db.WithContext(ctx).
		Unscoped().
		Model(&model.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Updates(map[string]interface{}{
			"deleted_at": nil,
			"join_time":  joinTime,
			"is_leader":  false,
		})

	if result.Error != nil {
		r.logger.Errorw("ReactivateMember database error",
			"team_id", teamID, "user_id", userID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrNotMember
	}
	return nil
}

// SoftDeleteMember marks a membership row deleted.
func (r *repository) SoftDeleteMember(ctx context.Context, teamID, userID string) error {
	result := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&model.TeamMember{})

	if result.Error != nil {
		r.logger.Errorw("SoftDeleteMember database error",
			"team_id", teamID, "user_id", userID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrNotMember
	}
	return nil
}

// PurgeMembers physically removes all membership rows of a team.
func (r *repository) PurgeMembers(ctx context.Context, teamID string) error {
	err := r.db.WithContext(ctx).
		Unscoped().
		Where("team_id = ?", teamID).
		Delete(&model.TeamMember{}).Error
	if err != nil {
		r.logger.Errorw("PurgeMembers database error", "team_id", teamID, "error", err)
		return err
	}
	return nil
}

// SetLeaderFlag updates the is_leader flag on an active membership row.
func (r *repository) SetLeaderFlag(ctx context.Context, teamID, userID string, isLeader bool) error {
	result := r.db.WithContext(ctx).
		Model(&model.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Update("is_leader", isLeader)

	if result.Error != nil {
		r.logger.Errorw("SetLeaderFlag database error",
			"team_id", teamID, "user_id", userID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrNotMember
	}
	return nil
}

// CountActiveMembers counts non-deleted membership rows of a team.
func (r *repository) CountActiveMembers(ctx context.Context, teamID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TeamMember{}).
		Where("team_id = ?", teamID).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("CountActiveMembers database error", "team_id", teamID, "error", err)
		return 0, err
	}
	return count, nil
}

// ListMembers returns the active membership rows of a team.
func (r *repository) ListMembers(ctx context.Context, teamID string) ([]model.TeamMember, error) {
	var members []model.TeamMember
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("join_time ASC").
		Find(&members).Error
	if err != nil {
		r.logger.Errorw("ListMembers database error", "team_id", teamID, "error", err)
		return nil, err
	}
	return members, nil
}

// TeamIDsOfUser returns ids of teams the user actively belongs to.
func (r *repository) TeamIDsOfUser(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.TeamMember{}).
		Where("user_id = ?", userID).
		Pluck("team_id", &ids).Error
	if err != nil {
		r.logger.Errorw("TeamIDsOfUser database error", "user_id", userID, "error", err)
		return nil, err
	}
	return ids, nil
}
