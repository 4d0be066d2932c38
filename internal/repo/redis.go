package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const watchRetries = 50

// getter and mgetter are satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

type mgetter interface {
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

type redisKeys struct {
	prefix string
}

func (k redisKeys) product(id string) string     { return fmt.Sprintf("%s:product:%s", k.prefix, id) }
func (k redisKeys) products() string             { return k.prefix + ":products" }
func (k redisKeys) productNames() string         { return k.prefix + ":product:names" }
func (k redisKeys) transaction(id string) string { return fmt.Sprintf("%s:transaction:%s", k.prefix, id) }
func (k redisKeys) transactions() string         { return k.prefix + ":transactions" }
func (k redisKeys) users() string                { return k.prefix + ":users" }

// watch runs fn inside an optimistic WATCH transaction, retrying while another
// client modifies the watched keys.
func watch(ctx context.Context, rdb *redis.Client, fn func(tx *redis.Tx) error, keys ...string) error {
	for i := 0; i < watchRetries; i++ {
		err := rdb.Watch(ctx, fn, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("redis watch on %v: %w", keys, redis.TxFailedErr)
}

// loadAll fetches JSON documents for ids with a single MGET, skipping ids whose
// document vanished in between.
func loadAll[T any](ctx context.Context, rdb mgetter, keyOf func(string) string, ids []string) ([]T, error) {
	out := []T{}
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyOf(id)
	}

	values, err := rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var item T
		if err := json.Unmarshal([]byte(s), &item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func getJSON(ctx context.Context, rdb getter, key string, dest any) error {
	data, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
