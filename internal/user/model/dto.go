package model

import "time"

// UserInfo is the redacted user projection returned by all outward-facing
// operations. It never carries the password hash.
type UserInfo struct {
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	Account     string    `json:"account"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	AvatarURL   string    `json:"avatar_url"`
	Tags        string    `json:"tags"`
	Description string    `json:"description"`
	Status      int       `json:"status"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
	Similarity  float64   `json:"similarity,omitempty"`
}

// RegisterRequest represents the registration request body.
type RegisterRequest struct {
	Account         string `json:"account" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Account  string `json:"account" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the identity token and the redacted profile.
type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// UpdateProfileRequest represents a profile mutation request.
// Only the listed fields are mutable through this operation.
type UpdateProfileRequest struct {
	UserID      string  `json:"user_id"`
	UserName    *string `json:"user_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	AvatarURL   *string `json:"avatar_url"`
	Tags        *string `json:"tags"`
	Description *string `json:"description"`
}

// SearchUsersRequest represents the admin user search filter.
type SearchUsersRequest struct {
	UserName  *string    `json:"user_name"`
	IsAdmin   *bool      `json:"is_admin"`
	Status    *int       `json:"status"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Current   int        `json:"current"`
	PageSize  int        `json:"page_size"`
}

// UpdateStatusRequest represents an admin ban/unban request.
type UpdateStatusRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Status int    `json:"status"`
}

// SearchByTagsRequest represents the tag search request.
type SearchByTagsRequest struct {
	Tags     []string `json:"tags"`
	Current  int      `json:"current"`
	PageSize int      `json:"page_size"`
}

// ReferralRequest represents the recommendation request.
type ReferralRequest struct {
	Tags     []string `json:"tags"`
	Current  int      `json:"current"`
	PageSize int      `json:"page_size"`
}

// Page is a paginated list of redacted users.
type Page struct {
	Current  int        `json:"current"`
	PageSize int        `json:"page_size"`
	Total    int64      `json:"total"`
	Records  []UserInfo `json:"records"`
}

// EmptyPage returns a page with no records for the given paging parameters.
func EmptyPage(current, pageSize int) *Page {
	return &Page{Current: current, PageSize: pageSize, Records: []UserInfo{}}
}
