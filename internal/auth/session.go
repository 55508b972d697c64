package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	userModel "github.com/jwwei/user-center/internal/user/model"
)

// ErrNoSession indicates there is no live session for the user.
var ErrNoSession = errors.New("no active session")

// sessionKey formats the redis key for a user session.
func sessionKey(userID string) string {
	return fmt.Sprintf("user:session:%s", userID)
}

// SessionStore keeps the redacted identity of logged-in users in redis.
// A session entry existing is what makes an identity token usable; logout
// removes the entry and invalidates all tokens issued for the user.
type SessionStore struct {
	client *redis.Client
	logger *zap.SugaredLogger
	ttl    time.Duration
}

// NewSessionStore creates a session store with the given session lifetime.
func NewSessionStore(client *redis.Client, logger *zap.SugaredLogger, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, logger: logger, ttl: ttl}
}

// Set stores the redacted identity for the user, refreshing the TTL.
func (s *SessionStore) Set(ctx context.Context, info userModel.UserInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(info.UserID), data, s.ttl).Err(); err != nil {
		s.logger.Errorw("failed to store session", "user_id", info.UserID, "error", err)
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get returns the stored identity for the user, or ErrNoSession.
func (s *SessionStore) Get(ctx context.Context, userID string) (*userModel.UserInfo, error) {
	data, err := s.client.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		s.logger.Errorw("failed to load session", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var info userModel.UserInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &info, nil
}

// Clear removes the session for the user.
func (s *SessionStore) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		s.logger.Errorw("failed to clear session", "user_id", userID, "error", err)
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
