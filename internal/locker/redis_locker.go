package locker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	ErrLockTimeout  = errors.New("lock wait timeout")
	ErrLockNotOwned = errors.New("lock not owned by this client")
)

// Снимаем блокировку, только если она всё ещё наша.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker — распределённая блокировка через SET NX PX.
// Нужна, когда несколько реплик без общей памяти бронируют слоты одного врача.
type RedisLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
	log    *zap.Logger
}

type RedisLockerOption func(*RedisLocker)

// WithRetryInterval задаёт паузу между попытками захвата.
func WithRetryInterval(d time.Duration) RedisLockerOption {
	return func(l *RedisLocker) {
		if d > 0 {
			l.retry = d
		}
	}
}

func NewRedisLocker(client redis.UniversalClient, ttl, wait time.Duration, log *zap.Logger, opts ...RedisLockerOption) *RedisLocker {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	l := &RedisLocker{
		client: client,
		ttl:    ttl,
		wait:   wait,
		retry:  50 * time.Millisecond,
		log:    log,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// TryLock делает одну попытку; возвращает токен владельца при успехе.
func (l *RedisLocker) TryLock(ctx context.Context, key string) (bool, string, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return false, "", fmt.Errorf("redis setnx %s: %w", key, err)
	}
	if !ok {
		return false, "", nil
	}
	return true, token, nil
}

// Unlock удаляет ключ, если значение совпадает с токеном.
func (l *RedisLocker) Unlock(ctx context.Context, key, token string) error {
	n, err := unlockScript.Run(ctx, l.client, []string{key}, token).Int64()
	if err != nil {
		return fmt.Errorf("redis unlock %s: %w", key, err)
	}
	if n == 0 {
		l.log.Warn("lock already expired or taken over", zap.String("key", key))
		return ErrLockNotOwned
	}
	return nil
}

// Lock ждёт блокировку не дольше wait (0 — пока жив контекст).
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(context.Context) error, error) {
	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, token, err := l.TryLock(ctx, key)
		if err != nil {
			if ctx.Err() != nil {
				return nil, l.waitError(ctx, key)
			}
			return nil, err
		}
		if ok {
			l.log.Debug("lock acquired", zap.String("key", key))
			return func(ctx context.Context) error {
				return l.Unlock(ctx, key, token)
			}, nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, l.waitError(ctx, key)
		}
	}
}

func (l *RedisLocker) waitError(ctx context.Context, key string) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrLockTimeout, key)
	}
	return ctx.Err()
}
