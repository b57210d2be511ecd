// Package synclock guards against overlapping reconciliation passes. With
// redis configured the guard holds across replicas; without it a process-local
// guard covers single-binary deployments.
package synclock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/studiolane/studiolane/internal/config"
)

const lockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// Locker acquires a platform-wide lock for the duration of one pass.
type Locker struct {
	client *redis.Client
	script *redis.Script

	mu   sync.Mutex
	held map[string]string
}

// NewClient builds the redis client, nil when no address is configured.
func NewClient(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// NewLocker builds the locker. A nil client selects the process-local guard.
func NewLocker(client *redis.Client) *Locker {
	return &Locker{
		client: client,
		script: redis.NewScript(lockReleaseScript),
		held:   make(map[string]string),
	}
}

// TryLock attempts to acquire the named lock. It returns a release token and
// whether the lock was acquired; it never blocks waiting for the holder.
func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	if key == "" {
		return "", false, errors.New("lock key is empty")
	}
	if ttl <= 0 {
		return "", false, errors.New("lock ttl must be positive")
	}

	if l.client == nil {
		l.mu.Lock()
		defer l.mu.Unlock()
		if _, taken := l.held[key]; taken {
			return "", false, nil
		}
		token := uuid.NewString()
		l.held[key] = token
		return token, true, nil
	}

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

// Release frees the named lock when the token matches the holder's.
func (l *Locker) Release(ctx context.Context, key, token string) error {
	if key == "" || token == "" {
		return nil
	}

	if l.client == nil {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.held[key] == token {
			delete(l.held, key)
		}
		return nil
	}

	return l.script.Run(ctx, l.client, []string{key}, token).Err()
}
