package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jwwei/user-center/internal/user/model"
)

// sqlite-friendly table definition; the real model carries postgres
// defaults that sqlite cannot create.
type testUserRow struct {
	UserID       string `gorm:"primaryKey;column:user_id"`
	UserName     string `gorm:"column:user_name"`
	Account      string `gorm:"column:account"`
	PasswordHash string `gorm:"column:password_hash"`
	Email        string `gorm:"column:email"`
	Phone        string `gorm:"column:phone"`
	AvatarURL    string `gorm:"column:avatar_url"`
	Tags         string `gorm:"column:tags"`
	Description  string `gorm:"column:description"`
	Status       int    `gorm:"column:status"`
	IsAdmin      bool   `gorm:"column:is_admin"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt
}

func (testUserRow) TableName() string { return "user" }

func setupRepo(t *testing.T) (Repository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&testUserRow{}))
	return New(db, zap.NewNop().Sugar()), db
}

func seedUser(t *testing.T, repo Repository, id, account string) *model.User {
	t.Helper()
	user := &model.User{
		UserID:       id,
		Account:      account,
		UserName:     "name-" + id,
		PasswordHash: "hash",
		Status:       model.StatusActive,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepo(t)
	seedUser(t, repo, "u1", "alice")

	t.Run("get by id", func(t *testing.T) {
		user, err := repo.GetByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Account)
	})

	t.Run("get by account", func(t *testing.T) {
		user, err := repo.GetByAccount(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "u1", user.UserID)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "ghost")
		assert.ErrorIs(t, err, model.ErrUserNotFound)
	})
}

func TestRepository_CountByAccount(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepo(t)
	seedUser(t, repo, "u1", "alice")

	count, err := repo.CountByAccount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// A soft-deleted user frees the account handle.
	require.NoError(t, repo.SoftDelete(ctx, "u1"))
	count, err = repo.CountByAccount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestRepository_SoftDelete(t *testing.T) {
	ctx := context.Background()
	repo, db := setupRepo(t)
	seedUser(t, repo, "u1", "alice")

	require.NoError(t, repo.SoftDelete(ctx, "u1"))

	_, err := repo.GetByID(ctx, "u1")
	assert.ErrorIs(t, err, model.ErrUserNotFound)

	// Row survives physically.
	var rows int64
	require.NoError(t, db.Unscoped().Model(&model.User{}).
		Where("user_id = ?", "u1").Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	assert.ErrorIs(t, repo.SoftDelete(ctx, "u1"), model.ErrUserNotFound)
	assert.ErrorIs(t, repo.SoftDelete(ctx, "ghost"), model.ErrUserNotFound)
}

func TestRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepo(t)
	seedUser(t, repo, "u1", "alice")

	require.NoError(t, repo.UpdateStatus(ctx, "u1", model.StatusBanned))

	user, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusBanned, user.Status)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, "ghost", model.StatusActive), model.ErrUserNotFound)
}

func TestRepository_Search(t *testing.T) {
	ctx := context.Background()
	repo, db := setupRepo(t)

	seedUser(t, repo, "u1", "alice")
	seedUser(t, repo, "u2", "bob")
	admin := seedUser(t, repo, "u3", "carol")
	admin.IsAdmin = true
	require.NoError(t, repo.Save(ctx, admin))
	require.NoError(t, db.Model(&model.User{}).
		Where("user_id = ?", "u2").
		Update("status", model.StatusBanned).Error)

	t.Run("by name substring", func(t *testing.T) {
		name := "name-u1"
		users, total, err := repo.Search(ctx, &model.SearchUsersRequest{
			UserName: &name, Current: 1, PageSize: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, users, 1)
		assert.Equal(t, "u1", users[0].UserID)
	})

	t.Run("by admin flag", func(t *testing.T) {
		isAdmin := true
		users, _, err := repo.Search(ctx, &model.SearchUsersRequest{
			IsAdmin: &isAdmin, Current: 1, PageSize: 10,
		})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "u3", users[0].UserID)
	})

	t.Run("by status", func(t *testing.T) {
		status := model.StatusBanned
		users, _, err := repo.Search(ctx, &model.SearchUsersRequest{
			Status: &status, Current: 1, PageSize: 10,
		})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "u2", users[0].UserID)
	})

	t.Run("pagination", func(t *testing.T) {
		users, total, err := repo.Search(ctx, &model.SearchUsersRequest{Current: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, users, 1)
	})
}

func TestRepository_ListActive(t *testing.T) {
	ctx := context.Background()
	repo, db := setupRepo(t)

	seedUser(t, repo, "u1", "alice")
	seedUser(t, repo, "u2", "bob")
	require.NoError(t, db.Model(&model.User{}).
		Where("user_id = ?", "u2").
		Update("status", model.StatusBanned).Error)

	users, err := repo.ListActive(ctx, "")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0].UserID)

	users, err = repo.ListActive(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestRepository_ListActiveProfiles(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepo(t)
	seedUser(t, repo, "u1", "alice")

	users, err := repo.ListActiveProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)

	// Sensitive fields stay out of the snapshot projection.
	assert.Empty(t, users[0].PasswordHash)
	assert.Empty(t, users[0].Account)
	assert.Equal(t, "name-u1", users[0].UserName)
}
