// Package model defines team entities, the status state machine and errors.
package model

import (
	"time"

	"gorm.io/gorm"
)

// ExpireTimeLayout is the accepted wire format for team expiry timestamps.
const ExpireTimeLayout = "2006-01-02 15:04:05"

// Team represents a team entity in the system.
// Matches the team table schema.
type Team struct {
	ID           string         `gorm:"primaryKey;column:id;type:varchar(64)"                     json:"id"`
	Name         string         `gorm:"column:name;type:varchar(255);not null"                    json:"name"`
	Description  string         `gorm:"column:description;type:text"                              json:"description"`
	Num          int            `gorm:"column:num;not null;default:1"                             json:"num"`
	MaxNum       int            `gorm:"column:max_num;not null"                                   json:"max_num"`
	ExpireTime   time.Time      `gorm:"column:expire_time;type:timestamptz;not null"              json:"expire_time"`
	LeaderID     string         `gorm:"column:leader_id;type:varchar(64);not null"                json:"leader_id"`
	Status       Status         `gorm:"column:status;not null;default:0"                          json:"status"`
	PasswordHash string         `gorm:"column:password_hash;type:varchar(255)"                    json:"-"`
	CreatedAt    time.Time      `gorm:"column:created_at;type:timestamptz;not null;default:now()" json:"-"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;type:timestamptz;not null;default:now()" json:"-"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at;index"                                   json:"-"`
}

// TableName specifies the table name for GORM.
func (Team) TableName() string {
	return "team"
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (t *Team) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	return nil
}
