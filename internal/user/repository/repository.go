// Package repository provides data access layer for user module.
package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jwwei/user-center/internal/user/model"
)

// Repository defines the interface for user data access operations.
type Repository interface {
	// Create inserts a new user.
	Create(ctx context.Context, user *model.User) error

	// GetByID finds a user by user_id.
	GetByID(ctx context.Context, userID string) (*model.User, error)

	// GetByAccount finds a user by account handle.
	GetByAccount(ctx context.Context, account string) (*model.User, error)

	// CountByAccount counts non-deleted users holding the account handle.
	CountByAccount(ctx context.Context, account string) (int64, error)

	// Save persists all fields of an existing user.
	Save(ctx context.Context, user *model.User) error

	// UpdateStatus sets the account status (active/banned).
	UpdateStatus(ctx context.Context, userID string, status int) error

	// SoftDelete marks the user deleted.
	SoftDelete(ctx context.Context, userID string) error

	// Search returns a page of users matching the admin filter.
	Search(ctx context.Context, req *model.SearchUsersRequest) ([]model.User, int64, error)

	// ListActive returns all active users, optionally excluding one user id.
	ListActive(ctx context.Context, excludeUserID string) ([]model.User, error)

	// ListActiveProfiles returns the non-sensitive snapshot fields of all
	// active users (id, tags, name, description, avatar).
	ListActiveProfiles(ctx context.Context) ([]model.User, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new user repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// Create inserts a new user.
func (r *repository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		r.logger.Errorw("Create user database error", "account", user.Account, "error", err)
		return err
	}
	return nil
}

// GetByID finds a user by user_id.
func (r *repository) GetByID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrUserNotFound
		}
		r.logger.Errorw("GetByID database error", "user_id", userID, "error", err)
		return nil, err
	}

	return &user, nil
}

// GetByAccount finds a user by account handle.
func (r *repository) GetByAccount(ctx context.Context, account string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("account = ?", account).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrUserNotFound
		}
		r.logger.Errorw("GetByAccount database error", "account", account, "error", err)
		return nil, err
	}

	return &user, nil
}

// CountByAccount counts non-deleted users holding the account handle.
func (r *repository) CountByAccount(ctx context.Context, account string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("account = ?", account).
		Count(&count).Error

	if err != nil {
		r.logger.Errorw("CountByAccount database error", "account", account, "error", err)
		return 0, err
	}
	return count, nil
}

// Save persists all fields of an existing user.
func (r *repository) Save(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		r.logger.Errorw("Save user database error", "user_id", user.UserID, "error", err)
		return err
	}
	return nil
}

// UpdateStatus sets the account status (active/banned).
func (r *repository) UpdateStatus(ctx context.Context, userID string, status int) error {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", userID).
		Update("status", status)

	if result.Error != nil {
		r.logger.Errorw("UpdateStatus database error", "user_id", userID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// SoftDelete marks the user deleted.
func (r *repository) SoftDelete(ctx context.Context, userID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.User{})

	if result.Error != nil {
		r.logger.Errorw("SoftDelete database error", "user_id", userID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// Search returns a page of users matching the admin filter.
func (r *repository) Search(ctx context.Context, req *model.SearchUsersRequest) ([]model.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.User{})

	if req.UserName != nil {
		query = query.Where("user_name LIKE ?", "%"+*req.UserName+"%")
	}
	if req.IsAdmin != nil {
		query = query.Where("is_admin = ?", *req.IsAdmin)
	}
	if req.Status != nil {
		query = query.Where("status = ?", *req.Status)
	}
	if req.StartTime != nil {
		query = query.Where("created_at >= ?", *req.StartTime)
	}
	if req.EndTime != nil {
		query = query.Where("created_at < ?", *req.EndTime)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("Search count database error", "error", err)
		return nil, 0, err
	}

	var users []model.User
	err := query.
		Order("created_at DESC").
		Offset((req.Current - 1) * req.PageSize).
		Limit(req.PageSize).
		Find(&users).Error
	if err != nil {
		r.logger.Errorw("Search database error", "error", err)
		return nil, 0, err
	}

	return users, total, nil
}

// ListActive returns all active users, optionally excluding one user id.
func (r *repository) ListActive(ctx context.Context, excludeUserID string) ([]model.User, error) {
	query := r.db.WithContext(ctx).Where("status = ?", model.StatusActive)
	if excludeUserID != "" {
		query = query.Where("user_id <> ?", excludeUserID)
	}

	var users []model.User
	if err := query.Find(&users).Error; err != nil {
		r.logger.Errorw("ListActive database error", "error", err)
		return nil, err
	}
	return users, nil
}

// ListActiveProfiles returns the non-sensitive snapshot fields of all active users.
func (r *repository) ListActiveProfiles(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Select("user_id", "tags", "user_name", "description", "avatar_url", "created_at").
		Where("status = ?", model.StatusActive).
		Find(&users).Error
	if err != nil {
		r.logger.Errorw("ListActiveProfiles database error", "error", err)
		return nil, err
	}
	return users, nil
}
