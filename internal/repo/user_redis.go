package repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/kasir/internal/models"
)

// redisUser is the stored form of a user; models.User hides the hash from JSON.
type redisUser struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RedisUserRepository struct {
	rdb  *redis.Client
	keys redisKeys
}

func NewRedisUserRepository(rdb *redis.Client, prefix string) *RedisUserRepository {
	return &RedisUserRepository{rdb: rdb, keys: redisKeys{prefix: prefix}}
}

func (r *RedisUserRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	data, err := r.rdb.HGet(ctx, r.keys.users(), username).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}

	var u redisUser
	if err := json.Unmarshal(data, &u); err != nil {
		return models.User{}, err
	}
	return models.User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}, nil
}

func (r *RedisUserRepository) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	data, err := json.Marshal(redisUser{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	})
	if err != nil {
		return models.User{}, err
	}

	ok, err := r.rdb.HSetNX(ctx, r.keys.users(), u.Username, data).Result()
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, ErrDuplicatedValueUnique
	}
	return u, nil
}
