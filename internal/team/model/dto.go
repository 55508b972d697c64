package model

import (
	usermodel "github.com/jwwei/user-center/internal/user/model"
)

// Field limits enforced on create and update.
const (
	MaxNameLength        = 20
	MaxDescriptionLength = 512
	MaxTeamCapacity      = 20
)

// CreateTeamRequest carries the payload for team creation.
type CreateTeamRequest struct {
	Name        string `json:"name"        binding:"required"`
	Description string `json:"description"`
	MaxNum      int    `json:"max_num"     binding:"required"`
	ExpireTime  string `json:"expire_time" binding:"required"`
	Status      int    `json:"status"`
	Password    string `json:"password"`
}

// UpdateTeamRequest carries mutable team fields. Nil pointers leave the
// current value untouched.
type UpdateTeamRequest struct {
	TeamID      string  `json:"team_id" binding:"required"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	MaxNum      *int    `json:"max_num"`
	ExpireTime  *string `json:"expire_time"`
	Status      *int    `json:"status"`
	Password    *string `json:"password"`
}

// SearchTeamsRequest filters the public team listing.
type SearchTeamsRequest struct {
	Name     string `form:"name"`
	Status   *int   `form:"status"`
	MaxNum   *int   `form:"max_num"`
	Joinable bool   `form:"joinable"`
	Current  int    `form:"current"`
	PageSize int    `form:"page_size"`
}

// JoinTeamRequest carries the join payload.
type JoinTeamRequest struct {
	TeamID   string `json:"team_id" binding:"required"`
	Password string `json:"password"`
}

// RemoveMemberRequest carries a leader's member-removal payload.
type RemoveMemberRequest struct {
	TeamID   string `json:"team_id"   binding:"required"`
	MemberID string `json:"member_id" binding:"required"`
}

// TransferLeaderRequest carries a leadership handover payload.
type TransferLeaderRequest struct {
	TeamID      string `json:"team_id"       binding:"required"`
	NewLeaderID string `json:"new_leader_id" binding:"required"`
}

// TeamInfo is the outward projection of a team. Password hashes and
// soft-delete markers never leave the service.
type TeamInfo struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Num         int                  `json:"num"`
	MaxNum      int                  `json:"max_num"`
	ExpireTime  string               `json:"expire_time"`
	LeaderID    string               `json:"leader_id"`
	LeaderName  string               `json:"leader_name,omitempty"`
	Status      int                  `json:"status"`
	Members     []usermodel.UserInfo `json:"members,omitempty"`
}

// Redact converts a team entity to its outward projection.
func (t *Team) Redact() TeamInfo {
	return TeamInfo{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Num:         t.Num,
		MaxNum:      t.MaxNum,
		ExpireTime:  t.ExpireTime.Format(ExpireTimeLayout),
		LeaderID:    t.LeaderID,
		Status:      int(t.Status),
	}
}

// Page is a paginated team listing.
type Page struct {
	Current  int        `json:"current"`
	PageSize int        `json:"page_size"`
	Total    int64      `json:"total"`
	Records  []TeamInfo `json:"records"`
}
