package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/jwwei/user-center/internal/auth"
	"github.com/jwwei/user-center/internal/team/model"
	"github.com/jwwei/user-center/internal/team/repository"
)

// Lock bounds for membership mutations. Every operation that changes the
// member set of a team serializes on the same per-team lock.
const (
	memberLockWait = 30 * time.Second
	memberLockHold = 10 * time.Second
)

// teamLockName builds the per-team lock key.
func teamLockName(teamID string) string {
	return fmt.Sprintf("lock:team:%s", teamID)
}

// withTeamLock runs fn while holding the per-team lock.
func (s *service) withTeamLock(ctx context.Context, teamID string, fn func() error) error {
	locked, err := s.locker.TryLock(ctx, teamLockName(teamID), memberLockWait, memberLockHold)
	if err != nil {
		return err
	}
	if !locked {
		s.logger.Warnw("team lock not acquired", "team_id", teamID)
		return model.ErrLockBusy
	}
	defer func() {
		if err := s.locker.Unlock(ctx, teamLockName(teamID)); err != nil {
			s.logger.Warnw("team lock release failed", "team_id", teamID, "error", err)
		}
	}()
	return fn()
}

// Join adds the caller to a team under the per-team lock.
func (s *service) Join(ctx context.Context, userID string, req *model.JoinTeamRequest) error {
	return s.withTeamLock(ctx, req.TeamID, func() error {
		// State must be reloaded under the lock; anything read before it
		// may be stale by now.
		team, err := s.repo.GetByID(ctx, req.TeamID)
		if err != nil {
			return err
		}
		if team.Status == model.StatusOverdue || !team.ExpireTime.After(time.Now()) {
			return model.ErrTeamExpired
		}
		if team.Status == model.StatusEncrypted {
			if req.Password == "" {
				return model.ErrPasswordRequired
			}
			if !auth.VerifyPassword(req.Password, team.PasswordHash) {
				return model.ErrWrongTeamPassword
			}
		}

		if _, err := s.repo.GetMember(ctx, team.ID, userID); err == nil {
			return model.ErrAlreadyMember
		} else if !errors.Is(err, model.ErrNotMember) {
			return err
		}

		active, err := s.repo.CountActiveMembers(ctx, team.ID)
		if err != nil {
			return err
		}
		if active >= int64(team.MaxNum) {
			return model.ErrTeamFull
		}

		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			repo := repository.New(tx, s.logger)

			_, err := repo.GetMemberUnscoped(ctx, team.ID, userID)
			switch {
			case err == nil:
				if err := repo.ReactivateMember(ctx, team.ID, userID, time.Now()); err != nil {
					return err
				}
			case errors.Is(err, model.ErrNotMember):
				member := &model.TeamMember{
					UserID:   userID,
					TeamID:   team.ID,
					JoinTime: time.Now(),
				}
				if err := repo.CreateMember(ctx, member); err != nil {
					return err
				}
			default:
				return err
			}

			team.Num = int(active) + 1
			return repo.Save(ctx, team)
		})
		if err != nil {
			return err
		}

		s.logger.Infow("Join completed", "team_id", team.ID, "user_id", userID, "num", team.Num)
		return nil
	})
}

// Exit removes the caller from a team. The leader must transfer leadership
// or disband the team instead.
func (s *service) Exit(ctx context.Context, userID, teamID string) error {
	return s.withTeamLock(ctx, teamID, func() error {
		team, err := s.repo.GetByID(ctx, teamID)
		if err != nil {
			return err
		}

		member, err := s.repo.GetMember(ctx, teamID, userID)
		if err != nil {
			return err
		}
		if member.IsLeader {
			return model.ErrLeaderCannotExit
		}

		if err := s.dropMember(ctx, team, userID); err != nil {
			return err
		}

		s.logger.Infow("Exit completed", "team_id", teamID, "user_id", userID)
		return nil
	})
}

// RemoveMember expels a member; only the leader may call it.
func (s *service) RemoveMember(ctx context.Context, actorID string, req *model.RemoveMemberRequest) error {
	return s.withTeamLock(ctx, req.TeamID, func() error {
		team, err := s.repo.GetByID(ctx, req.TeamID)
		if err != nil {
			return err
		}
		if team.LeaderID != actorID {
			return model.ErrNotLeader
		}
		if req.MemberID == actorID {
			return model.ErrCannotRemoveSelf
		}

		if _, err := s.repo.GetMember(ctx, team.ID, req.MemberID); err != nil {
			return err
		}

		if err := s.dropMember(ctx, team, req.MemberID); err != nil {
			return err
		}

		s.logger.Infow("RemoveMember completed",
			"team_id", team.ID, "member_id", req.MemberID, "actor_id", actorID)
		return nil
	})
}

// TransferLeader hands team leadership to another active member.
func (s *service) TransferLeader(ctx context.Context, actorID string, req *model.TransferLeaderRequest) error {
	return s.withTeamLock(ctx, req.TeamID, func() error {
		team, err := s.repo.GetByID(ctx, req.TeamID)
		if err != nil {
			return err
		}
		if team.LeaderID != actorID {
			return model.ErrNotLeader
		}
		if req.NewLeaderID == team.LeaderID {
			return model.ErrAlreadyLeader
		}

		if _, err := s.repo.GetMember(ctx, team.ID, req.NewLeaderID); err != nil {
			return err
		}

		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			repo := repository.New(tx, s.logger)
			if err := repo.SetLeaderFlag(ctx, team.ID, actorID, false); err != nil {
				return err
			}
			if err := repo.SetLeaderFlag(ctx, team.ID, req.NewLeaderID, true); err != nil {
				return err
			}
			team.LeaderID = req.NewLeaderID
			return repo.Save(ctx, team)
		})
		if err != nil {
			return err
		}

		s.logger.Infow("TransferLeader completed",
			"team_id", team.ID, "old_leader_id", actorID, "new_leader_id", req.NewLeaderID)
		return nil
	})
}

// TeamsOfUser returns the teams the user belongs to, members included.
func (s *service) TeamsOfUser(ctx context.Context, userID string) ([]model.TeamInfo, error) {
	ids, err := s.repo.TeamIDsOfUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	infos := make([]model.TeamInfo, 0, len(ids))
	for _, id := range ids {
		info, err := s.teamWithMembers(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrTeamNotFound) {
				continue
			}
			return nil, err
		}
		infos = append(infos, *info)
	}
	return infos, nil
}

// GetByID returns one team with members; caller must be an active member.
func (s *service) GetByID(ctx context.Context, userID, teamID string) (*model.TeamInfo, error) {
	if _, err := s.repo.GetMember(ctx, teamID, userID); err != nil {
		return nil, err
	}
	return s.teamWithMembers(ctx, teamID)
}

// teamWithMembers loads a team and resolves its member profiles.
func (s *service) teamWithMembers(ctx context.Context, teamID string) (*model.TeamInfo, error) {
	team, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	members, err := s.repo.ListMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}

	info := team.Redact()
	info.Members = s.memberInfos(ctx, members)
	if leader, err := s.users.GetByID(ctx, team.LeaderID); err == nil {
		info.LeaderName = leader.UserName
	}
	return &info, nil
}

// dropMember soft-deletes a membership row and decrements occupancy atomically.
func (s *service) dropMember(ctx context.Context, team *model.Team, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.New(tx, s.logger)
		if err := repo.SoftDeleteMember(ctx, team.ID, userID); err != nil {
			return err
		}
		if team.Num > 0 {
			team.Num--
		}
		return repo.Save(ctx, team)
	})
}
