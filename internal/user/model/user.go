// Package model defines user entities, projections and errors.
package model

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// User account status codes.
const (
	StatusActive = 0
	StatusBanned = 1
)

// User represents a user entity in the system.
// Matches the user table schema.
type User struct {
	UserID       string         `gorm:"primaryKey;column:user_id;type:varchar(64)"                json:"user_id"`
	UserName     string         `gorm:"column:user_name;type:varchar(255)"                        json:"user_name"`
	Account      string         `gorm:"column:account;type:varchar(255);not null"                 json:"account"`
	PasswordHash string         `gorm:"column:password_hash;type:varchar(255);not null"           json:"-"`
	Email        string         `gorm:"column:email;type:varchar(255)"                            json:"email"`
	Phone        string         `gorm:"column:phone;type:varchar(64)"                             json:"phone"`
	AvatarURL    string         `gorm:"column:avatar_url;type:varchar(1024)"                      json:"avatar_url"`
	Tags         string         `gorm:"column:tags;type:text"                                     json:"tags"`
	Description  string         `gorm:"column:description;type:text"                              json:"description"`
	Status       int            `gorm:"column:status;not null;default:0"                          json:"status"`
	IsAdmin      bool           `gorm:"column:is_admin;not null;default:false"                    json:"is_admin"`
	CreatedAt    time.Time      `gorm:"column:created_at;type:timestamptz;not null;default:now()" json:"-"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;type:timestamptz;not null;default:now()" json:"-"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at;index"                                   json:"-"`

	// Similarity is a computed recommendation score, never persisted.
	Similarity float64 `gorm:"-" json:"similarity,omitempty"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "user"
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

// TagList parses the JSON-encoded tag list. An empty column yields no tags.
func (u *User) TagList() ([]string, error) {
	if u.Tags == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(u.Tags), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// Redact returns the public projection of the user without sensitive fields.
func (u *User) Redact() UserInfo {
	return UserInfo{
		UserID:      u.UserID,
		UserName:    u.UserName,
		Account:     u.Account,
		Email:       u.Email,
		Phone:       u.Phone,
		AvatarURL:   u.AvatarURL,
		Tags:        u.Tags,
		Description: u.Description,
		Status:      u.Status,
		IsAdmin:     u.IsAdmin,
		CreatedAt:   u.CreatedAt,
		Similarity:  u.Similarity,
	}
}
