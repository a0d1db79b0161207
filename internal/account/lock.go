package account

import (
	"context"
	"errors"
	"sync"
	"time"

	pkgerrors "github.com/angelmondragon/firstcredit-backend/pkg/errors"
	"github.com/angelmondragon/firstcredit-backend/pkg/redis"
	"github.com/google/uuid"
)

// Locker serializes commands against one storage key.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// LocalLocker queues commands per key inside this process.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]chan struct{})}
}

func (l *LocalLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

// Lock waits for the key or for ctx to end.
func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	ch := l.slot(key)
	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-ch }) }, nil
	case <-ctx.Done():
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, ctx.Err(), "waiting for account lock")
	}
}

type redisLockClient interface {
	AcquireLock(ctx context.Context, accountKey, token string, ttl time.Duration) error
	ReleaseLock(ctx context.Context, accountKey, token string) error
}

// RedisLocker shares the per-key lock across processes. A held lock is
// reported as a conflict instead of waiting.
type RedisLocker struct {
	client redisLockClient
	ttl    time.Duration
}

func NewRedisLocker(client redisLockClient, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &RedisLocker{client: client, ttl: ttl}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	if err := l.client.AcquireLock(ctx, key, token, l.ttl); err != nil {
		if errors.Is(err, redis.ErrLockHeld) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "account is busy")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire account lock")
	}
	return func() {
		_ = l.client.ReleaseLock(context.WithoutCancel(ctx), key, token)
	}, nil
}
