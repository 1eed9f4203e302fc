package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"readyToHelp/pkg/e"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// OccurrenceLock is a SET NX PX lock shared by every instance. The TTL bounds
// how long a crashed holder can block others.
type OccurrenceLock struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	retry  time.Duration
	logger *slog.Logger
}

func NewOccurrenceLock(client *redis.Client, ttl time.Duration, logger *slog.Logger) *OccurrenceLock {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &OccurrenceLock{
		client: client,
		prefix: "lock:",
		ttl:    ttl,
		retry:  25 * time.Millisecond,
		logger: logger,
	}
}

func (l *OccurrenceLock) Lock(ctx context.Context, key string) (func(), error) {
	const op = "redis.OccurrenceLock.Lock"

	k := l.prefix + key
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%s: %w: %w", op, e.ErrLockNotAcquired, ctx.Err())
			}
			return nil, fmt.Errorf("%s: %w: %w", op, e.ErrDependency, err)
		}
		if ok {
			return func() { l.release(k, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%s: %w: %s: %w", op, e.ErrLockNotAcquired, key, ctx.Err())
		case <-time.After(l.retry):
		}
	}
}

func (l *OccurrenceLock) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		l.logger.Warn("lock release failed", slog.String("key", key), slog.Any("error", err))
	}
}
