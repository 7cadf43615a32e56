// Package redis provides a Locker shared by every service instance that
// talks to the same Redis.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mcoot/rconstore/internal/locking"
)

// unlockScript deletes the key only if it still holds our token
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a Redis-backed implementation of locking.Locker using SET NX PX
type Locker struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis locker and verifies the connection
func New(cfg Config) (*Locker, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Locker{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis locker with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Locker {
	return &Locker{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (l *Locker) Close() error {
	return l.client.Close()
}

// Ensure Locker implements the interface
var _ locking.Locker = (*Locker)(nil)

func (l *Locker) Lock(ctx context.Context, name string) (func(), error) {
	key := lockKey(name)
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.cfg.LockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", name, err)
		}
		if ok {
			break
		}

		timer := time.NewTimer(l.cfg.RetryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %s: %w", locking.ErrNotAcquired, name, ctx.Err())
		case <-timer.C:
		}
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		// The caller's context may already be done; release on a fresh one
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = unlockScript.Run(releaseCtx, l.client, []string{key}, token).Err()
	}, nil
}
