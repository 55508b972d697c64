// Package cache provides the in-memory bulk snapshot of active user profiles
// used by the recommendation read path.
package cache

import (
	"sync"

	"github.com/jwwei/user-center/internal/user/model"
)

// Snapshot holds non-sensitive fields of all active users, refreshed
// periodically as a whole. Readers either see the previous snapshot or a
// fully repopulated one, never a partial state.
type Snapshot struct {
	mu    sync.RWMutex
	users map[string]model.User
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{users: make(map[string]model.User)}
}

// Replace atomically swaps the snapshot contents for the given users.
func (s *Snapshot) Replace(users []model.User) {
	next := make(map[string]model.User, len(users))
	for _, u := range users {
		next[u.UserID] = u
	}

	s.mu.Lock()
	s.users = next
	s.mu.Unlock()
}

// Get returns the snapshot entry for a user id, if present.
func (s *Snapshot) Get(userID string) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	return u, ok
}

// ListExcluding returns all snapshot users except the given user id.
// An empty id returns everyone.
func (s *Snapshot) ListExcluding(excludeUserID string) []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]model.User, 0, len(s.users))
	for id, u := range s.users {
		if excludeUserID != "" && id == excludeUserID {
			continue
		}
		users = append(users, u)
	}
	return users
}

// Len returns the number of users currently in the snapshot.
func (s *Snapshot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
