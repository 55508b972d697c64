package model

import (
	"time"

	"gorm.io/gorm"
)

// TeamMember represents a membership row keyed by (user_id, team_id).
// Rows are soft-deleted on exit/removal and reactivated on rejoin; team
// deletion and expiry remove them physically.
type TeamMember struct {
	UserID    string         `gorm:"primaryKey;column:user_id;type:varchar(64)"               json:"user_id"`
	TeamID    string         `gorm:"primaryKey;column:team_id;type:varchar(64)"               json:"team_id"`
	JoinTime  time.Time      `gorm:"column:join_time;type:timestamptz;not null;default:now()" json:"join_time"`
	IsLeader  bool           `gorm:"column:is_leader;not null;default:false"                  json:"is_leader"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at"                                        json:"-"`
}

// TableName specifies the table name for GORM.
func (TeamMember) TableName() string {
	return "team_member"
}
