package repo

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/kasir/internal/models"
)

type RedisTransactionRepository struct {
	rdb  *redis.Client
	keys redisKeys
}

func NewRedisTransactionRepository(rdb *redis.Client, prefix string) *RedisTransactionRepository {
	return &RedisTransactionRepository{rdb: rdb, keys: redisKeys{prefix: prefix}}
}

func (r *RedisTransactionRepository) Create(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	data, err := json.Marshal(t)
	if err != nil {
		return models.Transaction{}, err
	}
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.keys.transaction(t.ID), data, 0)
		pipe.ZAdd(ctx, r.keys.transactions(), redis.Z{Score: float64(t.CreatedAt.UnixMicro()), Member: t.ID})
		return nil
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return t, nil
}

func (r *RedisTransactionRepository) GetByID(ctx context.Context, id string) (models.Transaction, error) {
	var t models.Transaction
	err := getJSON(ctx, r.rdb, r.keys.transaction(id), &t)
	if errors.Is(err, redis.Nil) {
		return models.Transaction{}, ErrTransactionNotFound
	}
	return t, err
}

func (r *RedisTransactionRepository) UpdateStatus(ctx context.Context, id string, from, to models.TransactionStatus) (models.Transaction, error) {
	key := r.keys.transaction(id)
	var updated models.Transaction

	err := watch(ctx, r.rdb, func(tx *redis.Tx) error {
		var t models.Transaction
		if err := getJSON(ctx, tx, key, &t); err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrTransactionNotFound
			}
			return err
		}
		if t.Status != from {
			return ErrStatusConflict
		}

		t.Status = to
		t.UpdatedAt = time.Now().UTC()
		data, err := json.Marshal(t)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		if err == nil {
			updated = t
		}
		return err
	}, key)

	if err != nil {
		return models.Transaction{}, err
	}
	return updated, nil
}

// Filter narrows by creation time on the sorted set and applies the remaining
// criteria to the loaded documents.
func (r *RedisTransactionRepository) Filter(ctx context.Context, tf TransactionFilter) ([]models.Transaction, int, error) {
	rangeBy := &redis.ZRangeBy{Min: "-inf", Max: "+inf"}
	if tf.Since != nil {
		rangeBy.Min = strconv.FormatInt(tf.Since.UnixMicro(), 10)
	}
	if tf.Until != nil {
		rangeBy.Max = strconv.FormatInt(tf.Until.UnixMicro(), 10)
	}

	ids, err := r.rdb.ZRevRangeByScore(ctx, r.keys.transactions(), rangeBy).Result()
	if err != nil {
		return nil, 0, err
	}
	transactions, err := loadAll[models.Transaction](ctx, r.rdb, r.keys.transaction, ids)
	if err != nil {
		return nil, 0, err
	}

	filtered := []models.Transaction{}
	for _, t := range transactions {
		if matchesTransactionFilter(t, tf) {
			filtered = append(filtered, t)
		}
	}
	return paginate(filtered, tf.Offset, tf.Limit), len(filtered), nil
}
