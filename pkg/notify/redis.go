package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/gridqueue/gridbroker/pkg/models"
)

const defaultKeyPrefix = "gridbroker:messages:"

type RedisNotifierParams struct {
	Client    redis.UniversalClient
	KeyPrefix string
	Clock     clock.Clock
}

// RedisNotifier keeps one sorted set per host, scored by message expiry. Expired members
// are trimmed on every write and the key itself expires with its newest message.
type RedisNotifier struct {
	client redis.UniversalClient
	prefix string
	clock  clock.Clock
}

func NewRedisNotifier(params RedisNotifierParams) *RedisNotifier {
	prefix := params.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	c := params.Clock
	if c == nil {
		c = clock.New()
	}
	return &RedisNotifier{client: params.Client, prefix: prefix, clock: c}
}

func (r *RedisNotifier) key(host string) string {
	return r.prefix + host
}

func (r *RedisNotifier) Notify(ctx context.Context, msg models.Message) error {
	member, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "failed to encode message")
	}
	key := r.key(msg.Host)
	now := r.clock.Now()

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "-inf", score(now))
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(msg.Expires.UnixMilli()), Member: string(member)})
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "failed to queue message for %s", msg.Host)
	}

	newest, err := r.client.ZRevRangeWithScores(ctx, key, 0, 0).Result()
	if err != nil {
		return errors.Wrapf(err, "failed to read newest message of %s", msg.Host)
	}
	if len(newest) > 0 {
		expiry := time.UnixMilli(int64(newest[0].Score))
		if err = r.client.ExpireAt(ctx, key, expiry).Err(); err != nil {
			return errors.Wrapf(err, "failed to set expiry of %s", key)
		}
	}
	return nil
}

func (r *RedisNotifier) Pending(ctx context.Context, host string) ([]models.Message, error) {
	members, err := r.client.ZRangeByScore(ctx, r.key(host), &redis.ZRangeBy{
		Min: "(" + score(r.clock.Now()),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read messages of %s", host)
	}
	messages := make([]models.Message, 0, len(members))
	for _, member := range members {
		var msg models.Message
		if err = json.Unmarshal([]byte(member), &msg); err != nil {
			return nil, fmt.Errorf("failed to decode message of %s: %w", host, err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func score(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// compile-time check whether the RedisNotifier implementation satisfies the interface.
var _ Notifier = (*RedisNotifier)(nil)
