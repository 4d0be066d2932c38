package alert

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// RedisRecorder appends JSON entries to a capped Redis list.
type RedisRecorder struct {
	rdb *redis.Client
	key string
}

func NewRedisRecorder(rdb *redis.Client, prefix string) *RedisRecorder {
	return &RedisRecorder{rdb: rdb, key: prefix + ":alerts:low_stock"}
}

func (r *RedisRecorder) Record(ctx context.Context, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, r.key, data)
		pipe.LTrim(ctx, r.key, -maxEntries, -1)
		return nil
	})
	return err
}

func (r *RedisRecorder) Recent(ctx context.Context, limit int) ([]Entry, error) {
	items, err := r.rdb.LRange(ctx, r.key, int64(-limit), -1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		var e Entry
		if err := json.Unmarshal([]byte(items[i]), &e); err == nil {
			out = append(out, e)
		}
	}
	return out, nil
}
