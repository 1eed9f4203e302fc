package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"readyToHelp/internal/domain"
	"readyToHelp/pkg/e"

	"github.com/redis/go-redis/v9"
)

// NotificationQueue is a Redis list of pending notifications. Send pushes,
// the relay worker pops.
type NotificationQueue struct {
	client *redis.Client
	key    string
}

func NewNotificationQueue(client *redis.Client, key string) *NotificationQueue {
	return &NotificationQueue{client: client, key: key}
}

func (q *NotificationQueue) Send(ctx context.Context, n domain.NotificationRequest) error {
	const op = "redis.NotificationQueue.Send"

	b, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}
	if err := q.client.LPush(ctx, q.key, b).Err(); err != nil {
		return fmt.Errorf("%s: %w: %w", op, e.ErrDependency, err)
	}
	return nil
}

// BRPop waits up to timeout for the oldest notification. An empty queue
// yields e.ErrQueueEmpty.
func (q *NotificationQueue) BRPop(ctx context.Context, timeout time.Duration) (domain.NotificationRequest, error) {
	var n domain.NotificationRequest

	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return n, e.ErrQueueEmpty
		}
		return n, err
	}
	if len(res) < 2 {
		return n, e.ErrQueueEmpty
	}
	if err := json.Unmarshal([]byte(res[1]), &n); err != nil {
		return n, err
	}
	return n, nil
}

func (q *NotificationQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}
