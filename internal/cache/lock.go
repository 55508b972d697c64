package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// unlockScript deletes the lock key only when it still holds our token, so a
// holder whose lease expired cannot release a lock reacquired by someone else.
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// pollInterval is how often lock acquisition is reattempted while waiting.
const pollInterval = 50 * time.Millisecond

// Locker provides named mutual-exclusion locks with bounded wait and bounded
// hold duration, backed by redis SET NX with TTL.
type Locker struct {
	client *redis.Client
	logger *zap.SugaredLogger

	mu     sync.Mutex
	tokens map[string]string
}

// NewLocker creates a new distributed locker instance.
func NewLocker(client *redis.Client, logger *zap.SugaredLogger) *Locker {
	return &Locker{
		client: client,
		logger: logger,
		tokens: make(map[string]string),
	}
}

// TryLock attempts to acquire the named lock, retrying until wait elapses.
// An acquired lock is auto-released after hold even if Unlock is never called.
// Returns false when the lock could not be acquired within wait.
func (l *Locker) TryLock(ctx context.Context, name string, wait, hold time.Duration) (bool, error) {
	token := uuid.NewString()
	deadline := time.Now().Add(wait)

	for {
		ok, err := l.client.SetNX(ctx, name, token, hold).Result()
		if err != nil {
			return false, fmt.Errorf("failed to acquire lock %s: %w", name, err)
		}
		if ok {
			l.mu.Lock()
			l.tokens[name] = token
			l.mu.Unlock()
			return true, nil
		}

		if time.Now().After(deadline) {
			return false, nil
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// Unlock releases the named lock if it is still held with our token.
// Releasing a lock that already expired is not an error.
func (l *Locker) Unlock(ctx context.Context, name string) error {
	l.mu.Lock()
	token, ok := l.tokens[name]
	delete(l.tokens, name)
	l.mu.Unlock()

	if !ok {
		return nil
	}

	released, err := unlockScript.Run(ctx, l.client, []string{name}, token).Int()
	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", name, err)
	}
	if released == 0 {
		l.logger.Warnw("lock already expired before release", "lock", name)
	}
	return nil
}
