package refreshtokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "rt:"

type redisRecord struct {
	UserID    string `json:"uid"`
	ExpiresAt int64  `json:"exp"`
	CreatedAt int64  `json:"iat"`
}

// RedisRepository keeps refresh tokens as Redis strings whose TTL matches
// the token validity, so expired tokens disappear on their own.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func (r *RedisRepository) key(token string) string {
	return redisKeyPrefix + token
}

func (r *RedisRepository) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	now := time.Now()
	data, err := json.Marshal(redisRecord{
		UserID:    userID,
		ExpiresAt: now.Add(validity).UnixMilli(),
		CreatedAt: now.UnixMilli(),
	})
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(token), data, validity).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	return r.decode(token, r.client.Get(ctx, r.key(token)))
}

func (r *RedisRepository) Consume(ctx context.Context, token string) (*models.RefreshToken, error) {
	return r.decode(token, r.client.GetDel(ctx, r.key(token)))
}

func (r *RedisRepository) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, r.key(token)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) decode(token string, cmd *redis.StringCmd) (*models.RefreshToken, error) {
	data, err := cmd.Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	var rec redisRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("malformed refresh token record: %w", err)
	}
	return &models.RefreshToken{
		UserID:    rec.UserID,
		Token:     token,
		Expires:   time.UnixMilli(rec.ExpiresAt),
		CreatedAt: time.UnixMilli(rec.CreatedAt),
	}, nil
}
