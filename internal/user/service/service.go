// Package service provides business logic layer for user module.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jwwei/user-center/internal/auth"
	"github.com/jwwei/user-center/internal/user/model"
	"github.com/jwwei/user-center/internal/user/repository"
)

// minPasswordLength is the minimum accepted password length at registration.
const minPasswordLength = 8

// CacheStore abstracts the per-query result cache (redis).
type CacheStore interface {
	// GetObject loads the cached JSON value under key into dest.
	GetObject(ctx context.Context, key string, dest interface{}) error

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Locker abstracts the named distributed lock service.
type Locker interface {
	// TryLock acquires the named lock within wait; the lock auto-expires after hold.
	TryLock(ctx context.Context, name string, wait, hold time.Duration) (bool, error)

	// Unlock releases the named lock.
	Unlock(ctx context.Context, name string) error
}

// SessionStore abstracts the session-bound identity storage.
type SessionStore interface {
	// Set stores the redacted identity for a user.
	Set(ctx context.Context, info model.UserInfo) error

	// Clear removes the session for a user.
	Clear(ctx context.Context, userID string) error
}

// TokenIssuer abstracts identity token issuance.
type TokenIssuer interface {
	// Issue creates a signed identity token for the user.
	Issue(userID string) (string, error)
}

// UserSnapshot abstracts the in-memory bulk cache of active user profiles.
type UserSnapshot interface {
	// ListExcluding returns all snapshot users except the given id.
	ListExcluding(excludeUserID string) []model.User
}

// Service defines the interface for user business logic operations.
type Service interface {
	// Register creates a new account with a hashed password.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.UserInfo, error)

	// Login authenticates an account and establishes a session.
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)

	// Logout clears the user's session.
	Logout(ctx context.Context, userID string) error

	// Current returns the fresh redacted profile of the user.
	Current(ctx context.Context, userID string) (*model.UserInfo, error)

	// UpdateProfile mutates profile fields for self, or any user when actor is admin.
	UpdateProfile(ctx context.Context, actor *model.User, req *model.UpdateProfileRequest) error

	// SearchUsers returns a page of users matching the admin filter.
	SearchUsers(ctx context.Context, req *model.SearchUsersRequest) (*model.Page, error)

	// UpdateStatus bans or unbans an account.
	UpdateStatus(ctx context.Context, req *model.UpdateStatusRequest) error

	// Delete soft-deletes a user. Admin users can never be deleted.
	Delete(ctx context.Context, userID string) error

	// SearchByTags returns active users whose tag set contains all requested tags.
	SearchByTags(ctx context.Context, currentUserID string, req *model.SearchByTagsRequest) (*model.Page, error)

	// Referral returns similarity-ranked user recommendations.
	Referral(ctx context.Context, currentUserID string, req *model.ReferralRequest) (*model.Page, error)
}

type service struct {
	repo     repository.Repository
	store    CacheStore
	locker   Locker
	sessions SessionStore
	tokens   TokenIssuer
	snapshot UserSnapshot
	logger   *zap.SugaredLogger
}

// New creates a new user service instance.
func New(
	repo repository.Repository,
	store CacheStore,
	locker Locker,
	sessions SessionStore,
	tokens TokenIssuer,
	snapshot UserSnapshot,
	logger *zap.SugaredLogger,
) Service {
	return &service{
		repo:     repo,
		store:    store,
		locker:   locker,
		sessions: sessions,
		tokens:   tokens,
		snapshot: snapshot,
		logger:   logger,
	}
}

// Register creates a new account with a hashed password.
func (s *service) Register(ctx context.Context, req *model.RegisterRequest) (*model.UserInfo, error) {
	if len(req.Password) < minPasswordLength {
		return nil, model.ErrPasswordTooShort
	}
	if req.Password != req.ConfirmPassword {
		return nil, model.ErrPasswordMismatch
	}

	count, err := s.repo.CountByAccount(ctx, req.Account)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		s.logger.Debugw("Register rejected, account taken", "account", req.Account)
		return nil, model.ErrAccountExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UserID:       uuid.NewString(),
		Account:      req.Account,
		UserName:     req.Account,
		PasswordHash: hash,
		Status:       model.StatusActive,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Infow("Register completed", "user_id", user.UserID, "account", user.Account)
	info := user.Redact()
	return &info, nil
}

// Login authenticates an account and establishes a session.
func (s *service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.repo.GetByAccount(ctx, req.Account)
	if err != nil {
		return nil, err
	}

	if user.Status == model.StatusBanned {
		s.logger.Infow("Login rejected, account banned", "account", req.Account)
		return nil, model.ErrUserBanned
	}

	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		s.logger.Debugw("Login rejected, wrong password", "account", req.Account)
		return nil, model.ErrWrongPassword
	}

	token, err := s.tokens.Issue(user.UserID)
	if err != nil {
		return nil, err
	}

	info := user.Redact()
	if err := s.sessions.Set(ctx, info); err != nil {
		return nil, err
	}

	s.logger.Infow("Login completed", "user_id", user.UserID)
	return &model.LoginResponse{Token: token, User: info}, nil
}

// Logout clears the user's session.
func (s *service) Logout(ctx context.Context, userID string) error {
	return s.sessions.Clear(ctx, userID)
}

// Current returns the fresh redacted profile of the user.
func (s *service) Current(ctx context.Context, userID string) (*model.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := user.Redact()
	return &info, nil
}

// UpdateProfile mutates profile fields for self, or any user when actor is admin.
func (s *service) UpdateProfile(ctx context.Context, actor *model.User, req *model.UpdateProfileRequest) error {
	targetID := req.UserID
	if targetID == "" {
		targetID = actor.UserID
	}
	if targetID != actor.UserID && !actor.IsAdmin {
		return model.ErrNotAdmin
	}

	user, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if req.UserName != nil {
		user.UserName = *req.UserName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.Tags != nil {
		user.Tags = *req.Tags
	}
	if req.Description != nil {
		user.Description = *req.Description
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return err
	}

	s.logger.Infow("UpdateProfile completed", "user_id", targetID, "actor_id", actor.UserID)
	return nil
}

// SearchUsers returns a page of users matching the admin filter.
func (s *service) SearchUsers(ctx context.Context, req *model.SearchUsersRequest) (*model.Page, error) {
	req.Current, req.PageSize = normalizePaging(req.Current, req.PageSize)

	users, total, err := s.repo.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	return redactedPage(users, req.Current, req.PageSize, total), nil
}

// UpdateStatus bans or unbans an account.
func (s *service) UpdateStatus(ctx context.Context, req *model.UpdateStatusRequest) error {
	if req.Status != model.StatusActive && req.Status != model.StatusBanned {
		return model.ErrInvalidStatus
	}
	if err := s.repo.UpdateStatus(ctx, req.UserID, req.Status); err != nil {
		return err
	}
	s.logger.Infow("UpdateStatus completed", "user_id", req.UserID, "status", req.Status)
	return nil
}

// Delete soft-deletes a user. Admin users can never be deleted.
func (s *service) Delete(ctx context.Context, userID string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsAdmin {
		return model.ErrAdminUndeletable
	}
	if err := s.repo.SoftDelete(ctx, userID); err != nil {
		return err
	}
	s.logger.Infow("Delete completed", "user_id", userID)
	return nil
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

// redactedPage builds a page of redacted projections.
func redactedPage(users []model.User, current, pageSize int, total int64) *model.Page {
	records := make([]model.UserInfo, 0, len(users))
	for i := range users {
		records = append(records, users[i].Redact())
	}
	return &model.Page{
		Current:  current,
		PageSize: pageSize,
		Total:    total,
		Records:  records,
	}
}

// slicePage applies manual pagination over an in-memory list.
// Page 1 covers items [0, pageSize).
func slicePage(users []model.User, current, pageSize int) []model.User {
	start := (current - 1) * pageSize
	if start >= len(users) {
		return nil
	}
	end := start + pageSize
	if end > len(users) {
		end = len(users)
	}
	return users[start:end]
}
