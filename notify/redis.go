package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const StatusChannel = "order-status"

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisNotifier publishes events on a pub/sub channel.
type RedisNotifier struct {
	rdb redisPublisher
}

func NewRedisNotifier(rdb redisPublisher) *RedisNotifier {
	return &RedisNotifier{rdb: rdb}
}

func (n *RedisNotifier) Name() string { return "redis" }

func (n *RedisNotifier) Notify(ctx context.Context, ev StatusEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return n.rdb.Publish(ctx, StatusChannel, payload).Err()
}
