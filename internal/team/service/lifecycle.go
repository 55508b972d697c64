// Package service provides business logic layer for team module.
package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jwwei/user-center/internal/auth"
	"github.com/jwwei/user-center/internal/team/model"
	"github.com/jwwei/user-center/internal/team/repository"
	usermodel "github.com/jwwei/user-center/internal/user/model"
	userrepo "github.com/jwwei/user-center/internal/user/repository"
)

// Locker abstracts the named distributed lock service.
type Locker interface {
	// TryLock acquires the named lock within wait; the lock auto-expires after hold.
	TryLock(ctx context.Context, name string, wait, hold time.Duration) (bool, error)

	// Unlock releases the named lock.
	Unlock(ctx context.Context, name string) error
}

// Service defines the interface for team business logic operations.
type Service interface {
	// Create makes a new team led by the caller.
	Create(ctx context.Context, leaderID string, req *model.CreateTeamRequest) (*model.TeamInfo, error)

	// Update mutates team fields; only the leader may call it.
	Update(ctx context.Context, actorID string, req *model.UpdateTeamRequest) error

	// Delete disbands a team; only the leader may call it.
	Delete(ctx context.Context, actorID, teamID string) error

	// Search returns a page of joinable-looking teams the caller is not in.
	Search(ctx context.Context, userID string, req *model.SearchTeamsRequest) (*model.Page, error)

	// Join adds the caller to a team under the per-team lock.
	Join(ctx context.Context, userID string, req *model.JoinTeamRequest) error

	// Exit removes the caller from a team.
	Exit(ctx context.Context, userID, teamID string) error

	// RemoveMember expels a member; only the leader may call it.
	RemoveMember(ctx context.Context, actorID string, req *model.RemoveMemberRequest) error

	// TransferLeader hands team leadership to another active member.
	TransferLeader(ctx context.Context, actorID string, req *model.TransferLeaderRequest) error

	// TeamsOfUser returns the teams the user belongs to, members included.
	TeamsOfUser(ctx context.Context, userID string) ([]model.TeamInfo, error)

	// GetByID returns one team with members; caller must be a member.
	GetByID(ctx context.Context, userID, teamID string) (*model.TeamInfo, error)
}

type service struct {
	db     *gorm.DB
	repo   repository.Repository
	users  userrepo.Repository
	locker Locker
	logger *zap.SugaredLogger
}

// New creates a new team service instance.
func New(
	db *gorm.DB,
	repo repository.Repository,
	users userrepo.Repository,
	locker Locker,
	logger *zap.SugaredLogger,
) Service {
	return &service{
		db:     db,
		repo:   repo,
		users:  users,
		locker: locker,
		logger: logger,
	}
}

// Create makes a new team led by the caller.
func (s *service) Create(ctx context.Context, leaderID string, req *model.CreateTeamRequest) (*model.TeamInfo, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(req.Description) > model.MaxDescriptionLength {
		return nil, model.ErrDescriptionTooLong
	}
	if req.MaxNum < 1 || req.MaxNum > model.MaxTeamCapacity {
		return nil, model.ErrInvalidMaxNum
	}

	expireTime, err := parseExpireTime(req.ExpireTime)
	if err != nil {
		return nil, err
	}

	status, err := model.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	if status == model.StatusOverdue {
		return nil, model.ErrInvalidStatus
	}

	var passwordHash string
	if status == model.StatusEncrypted {
		if req.Password == "" {
			return nil, model.ErrPasswordRequired
		}
		passwordHash, err = auth.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
	}

	if _, err := s.users.GetByID(ctx, leaderID); err != nil {
		return nil, err
	}

	team := &model.Team{
		ID:           uuid.NewString(),
		Name:         name,
		Description:  req.Description,
		Num:          1,
		MaxNum:       req.MaxNum,
		ExpireTime:   expireTime,
		LeaderID:     leaderID,
		Status:       status,
		PasswordHash: passwordHash,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.New(tx, s.logger)
		if err := repo.Create(ctx, team); err != nil {
			return err
		}
		return repo.CreateMember(ctx, &model.TeamMember{
			UserID:   leaderID,
			TeamID:   team.ID,
			JoinTime: time.Now(),
			IsLeader: true,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Create team completed", "team_id", team.ID, "leader_id", leaderID)
	info := team.Redact()
	return &info, nil
}

// Update mutates team fields; only the leader may call it.
func (s *service) Update(ctx context.Context, actorID string, req *model.UpdateTeamRequest) error {
	team, err := s.repo.GetByID(ctx, req.TeamID)
	if err != nil {
		return err
	}
	if team.LeaderID != actorID {
		return model.ErrNotLeader
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validateName(name); err != nil {
			return err
		}
		team.Name = name
	}
	if req.Description != nil {
		if utf8.RuneCountInString(*req.Description) > model.MaxDescriptionLength {
			return model.ErrDescriptionTooLong
		}
		team.Description = *req.Description
	}
	if req.ExpireTime != nil {
		expireTime, err := parseExpireTime(*req.ExpireTime)
		if err != nil {
			return err
		}
		team.ExpireTime = expireTime
	}
	if req.MaxNum != nil {
		if *req.MaxNum < 1 || *req.MaxNum > model.MaxTeamCapacity {
			return model.ErrInvalidMaxNum
		}
		active, err := s.repo.CountActiveMembers(ctx, team.ID)
		if err != nil {
			return err
		}
		if int64(*req.MaxNum) < active {
			return model.ErrInvalidMaxNum
		}
		team.MaxNum = *req.MaxNum
	}
	if req.Status != nil {
		status, err := model.ParseStatus(*req.Status)
		if err != nil {
			return err
		}
		if status == model.StatusOverdue {
			return model.ErrInvalidStatus
		}
		team.Status = status
	}

	if team.Status == model.StatusEncrypted {
		if req.Password != nil && *req.Password != "" {
			hash, err := auth.HashPassword(*req.Password)
			if err != nil {
				return err
			}
			team.PasswordHash = hash
		}
		if team.PasswordHash == "" {
			return model.ErrPasswordRequired
		}
	} else {
		team.PasswordHash = ""
	}

	if err := s.repo.Save(ctx, team); err != nil {
		return err
	}

	s.logger.Infow("Update team completed", "team_id", team.ID, "actor_id", actorID)
	return nil
}

// Delete disbands a team; only the leader may call it.
// The team row is soft-deleted and all membership rows are removed physically.
func (s *service) Delete(ctx context.Context, actorID, teamID string) error {
	team, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team.LeaderID != actorID {
		return model.ErrNotLeader
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.New(tx, s.logger)
		if err := repo.SoftDelete(ctx, teamID); err != nil {
			return err
		}
		return repo.PurgeMembers(ctx, teamID)
	})
	if err != nil {
		return err
	}

	s.logger.Infow("Delete team completed", "team_id", teamID, "actor_id", actorID)
	return nil
}

// Search returns a page of joinable-looking teams the caller is not in.
func (s *service) Search(ctx context.Context, userID string, req *model.SearchTeamsRequest) (*model.Page, error) {
	req.Current, req.PageSize = normalizePaging(req.Current, req.PageSize)

	memberOf, err := s.repo.TeamIDsOfUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	teams, total, err := s.repo.Search(ctx, req, memberOf)
	if err != nil {
		return nil, err
	}

	records := make([]model.TeamInfo, 0, len(teams))
	for i := range teams {
		info := teams[i].Redact()
		if leader, err := s.users.GetByID(ctx, teams[i].LeaderID); err == nil {
			info.LeaderName = leader.UserName
		}
		records = append(records, info)
	}

	return &model.Page{
		Current:  req.Current,
		PageSize: req.PageSize,
		Total:    total,
		Records:  records,
	}, nil
}

// validateName checks team name presence and length.
func validateName(name string) error {
	if name == "" {
		return model.ErrTeamNameRequired
	}
	if utf8.RuneCountInString(name) > model.MaxNameLength {
		return model.ErrTeamNameTooLong
	}
	return nil
}

// parseExpireTime parses the wire timestamp and requires it to be in the future.
func parseExpireTime(value string) (time.Time, error) {
	expireTime, err := time.ParseInLocation(model.ExpireTimeLayout, value, time.Local)
	if err != nil {
		return time.Time{}, model.ErrInvalidExpireTime
	}
	if !expireTime.After(time.Now()) {
		return time.Time{}, model.ErrInvalidExpireTime
	}
	return expireTime, nil
}

// normalizePaging clamps paging parameters: page >= 1, 0 < size <= 100.
func normalizePaging(current, pageSize int) (int, int) {
	if current < 1 {
		current = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return current, pageSize
}

// memberInfos resolves membership rows to redacted user profiles.
func (s *service) memberInfos(ctx context.Context, members []model.TeamMember) []usermodel.UserInfo {
	infos := make([]usermodel.UserInfo, 0, len(members))
	for i := range members {
		user, err := s.users.GetByID(ctx, members[i].UserID)
		if err != nil {
			continue
		}
		infos = append(infos, user.Redact())
	}
	return infos
}
