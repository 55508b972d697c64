package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwwei/user-center/internal/user/model"
)

func TestSnapshot_Replace(t *testing.T) {
	snapshot := NewSnapshot()
	assert.Equal(t, 0, snapshot.Len())

	snapshot.Replace([]model.User{{UserID: "u1"}, {UserID: "u2"}})
	assert.Equal(t, 2, snapshot.Len())

	// Replace swaps, never merges.
	snapshot.Replace([]model.User{{UserID: "u3"}})
	assert.Equal(t, 1, snapshot.Len())

	_, ok := snapshot.Get("u1")
	assert.False(t, ok)
	_, ok = snapshot.Get("u3")
	assert.True(t, ok)
}

func TestSnapshot_ListExcluding(t *testing.T) {
	snapshot := NewSnapshot()
	snapshot.Replace([]model.User{{UserID: "u1"}, {UserID: "u2"}, {UserID: "u3"}})

	users := snapshot.ListExcluding("u2")
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.NotEqual(t, "u2", u.UserID)
	}

	assert.Len(t, snapshot.ListExcluding(""), 3)
}

func TestSnapshot_ConcurrentAccess(t *testing.T) {
	snapshot := NewSnapshot()
	snapshot.Replace([]model.User{{UserID: "u1"}})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			snapshot.Replace([]model.User{{UserID: "u1"}, {UserID: "u2"}})
		}()
		go func() {
			defer wg.Done()
			// Readers must always see a complete snapshot, 1 or 2 users.
			n := len(snapshot.ListExcluding(""))
			assert.True(t, n == 1 || n == 2)
		}()
	}
	wg.Wait()
}
