package tokens

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/hireportal/internal/client/models"
	"github.com/dmitrijs2005/hireportal/internal/common"
)

// DefaultRedisKey is the hash that holds the pair when no key is configured.
const DefaultRedisKey = "hireportal:session"

// RedisRepository keeps the pair as two fields of one Redis hash, so a
// single HSET or DEL covers both tokens.
type RedisRepository struct {
	rdb redis.Cmdable
	key string
}

func NewRedisRepository(rdb redis.Cmdable, key string) *RedisRepository {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisRepository{rdb: rdb, key: key}
}

func (r *RedisRepository) Load(ctx context.Context) (models.TokenPair, bool, error) {
	vals, err := r.rdb.HMGet(ctx, r.key, common.AccessTokenKey, common.RefreshTokenKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return models.TokenPair{}, false, fmt.Errorf("%w: load tokens: %w", common.ErrStorage, err)
	}

	var access, refresh string
	if len(vals) == 2 {
		access, _ = vals[0].(string)
		refresh, _ = vals[1].(string)
	}
	pair := models.NewTokenPair(access, refresh)
	if !pair.Valid() {
		return models.TokenPair{}, false, nil
	}
	return pair, true, nil
}

func (r *RedisRepository) Save(ctx context.Context, pair models.TokenPair) error {
	if !pair.Valid() {
		return fmt.Errorf("%w: %w", common.ErrStorage, ErrIncompletePair)
	}
	err := r.rdb.HSet(ctx, r.key,
		common.AccessTokenKey, pair.AccessToken,
		common.RefreshTokenKey, pair.RefreshToken,
	).Err()
	if err != nil {
		return fmt.Errorf("%w: save tokens: %w", common.ErrStorage, err)
	}
	return nil
}

func (r *RedisRepository) Clear(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("%w: clear tokens: %w", common.ErrStorage, err)
	}
	return nil
}
