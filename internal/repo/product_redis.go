package repo

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/kasir/internal/models"
)

// RedisProductRepository keeps each product as a JSON document, a sorted set
// ordered by creation time and a hash of lower-cased names for uniqueness.
type RedisProductRepository struct {
	rdb  *redis.Client
	keys redisKeys
}

func NewRedisProductRepository(rdb *redis.Client, prefix string) *RedisProductRepository {
	return &RedisProductRepository{rdb: rdb, keys: redisKeys{prefix: prefix}}
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *RedisProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	ok, err := r.rdb.HSetNX(ctx, r.keys.productNames(), nameKey(p.Name), p.ID).Result()
	if err != nil {
		return models.Product{}, err
	}
	if !ok {
		return models.Product{}, ErrDuplicatedValueUnique
	}

	data, err := json.Marshal(p)
	if err != nil {
		return models.Product{}, err
	}
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.keys.product(p.ID), data, 0)
		pipe.ZAdd(ctx, r.keys.products(), redis.Z{Score: float64(p.CreatedAt.UnixMicro()), Member: p.ID})
		return nil
	})
	if err != nil {
		r.rdb.HDel(ctx, r.keys.productNames(), nameKey(p.Name))
		return models.Product{}, err
	}
	return p, nil
}

func (r *RedisProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	ids, err := r.rdb.ZRange(ctx, r.keys.products(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return loadAll[models.Product](ctx, r.rdb, r.keys.product, ids)
}

func (r *RedisProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	var p models.Product
	err := getJSON(ctx, r.rdb, r.keys.product(id), &p)
	if errors.Is(err, redis.Nil) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *RedisProductRepository) GetByName(ctx context.Context, name string) (models.Product, error) {
	id, err := r.rdb.HGet(ctx, r.keys.productNames(), nameKey(name)).Result()
	if errors.Is(err, redis.Nil) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *RedisProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	key := r.keys.product(p.ID)
	var updated models.Product

	err := watch(ctx, r.rdb, func(tx *redis.Tx) error {
		var current models.Product
		if err := getJSON(ctx, tx, key, &current); err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrProductNotFound
			}
			return err
		}

		oldName, newName := nameKey(current.Name), nameKey(p.Name)
		if oldName != newName {
			owner, err := tx.HGet(ctx, r.keys.productNames(), newName).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}
			if owner != "" && owner != p.ID {
				return ErrDuplicatedValueUnique
			}
		}

		updated = p
		updated.CreatedAt = current.CreatedAt
		updated.UpdatedAt = time.Now().UTC()
		data, err := json.Marshal(updated)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if oldName != newName {
				pipe.HDel(ctx, r.keys.productNames(), oldName)
				pipe.HSet(ctx, r.keys.productNames(), newName, p.ID)
			}
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}, key, r.keys.productNames())

	if err != nil {
		return models.Product{}, err
	}
	return updated, nil
}

func (r *RedisProductRepository) Delete(ctx context.Context, id string) error {
	key := r.keys.product(id)
	return watch(ctx, r.rdb, func(tx *redis.Tx) error {
		var current models.Product
		if err := getJSON(ctx, tx, key, &current); err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrProductNotFound
			}
			return err
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.ZRem(ctx, r.keys.products(), id)
			pipe.HDel(ctx, r.keys.productNames(), nameKey(current.Name))
			return nil
		})
		return err
	}, key)
}

func (r *RedisProductRepository) Filter(ctx context.Context, pf ProductFilter) ([]models.Product, int, error) {
	products, err := r.GetAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	filtered, total := filterProducts(products, pf)
	return filtered, total, nil
}

// AdjustStock re-reads the product under WATCH so a concurrent sale either
// sees the new stock or retries.
func (r *RedisProductRepository) AdjustStock(ctx context.Context, id string, delta int) (models.Product, error) {
	key := r.keys.product(id)
	var updated models.Product

	err := watch(ctx, r.rdb, func(tx *redis.Tx) error {
		var p models.Product
		if err := getJSON(ctx, tx, key, &p); err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrProductNotFound
			}
			return err
		}
		if p.Stock+delta < 0 {
			return ErrInsufficientStock
		}

		p.Stock += delta
		p.UpdatedAt = time.Now().UTC()
		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		if err == nil {
			updated = p
		}
		return err
	}, key)

	if err != nil {
		return models.Product{}, err
	}
	return updated, nil
}
