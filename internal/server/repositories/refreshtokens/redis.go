package refreshtokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const (
	redisAccountPrefix = "rt:acct:"
	redisTokenPrefix   = "rt:tok:"
)

// upsertScript replaces the account's token pointer and record in one
// server-side step. KEYS[1] is the account key, KEYS[2] the new token key.
// ARGV: token, record, ttl in ms (<= 0 means no expiry), token key prefix.
var upsertScript = redis.NewScript(`
local old = redis.call('GET', KEYS[1])
if old then
  redis.call('DEL', ARGV[4] .. old)
end
if tonumber(ARGV[3]) > 0 then
  redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
  redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
  redis.call('SET', KEYS[1], ARGV[1])
  redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

// RedisRepository keeps refresh tokens in Redis. Keys expire together with
// the token they describe.
type RedisRepository struct {
	client redis.UniversalClient
	now    func() time.Time
}

func NewRedisRepository(client redis.UniversalClient) *RedisRepository {
	return &RedisRepository{client: client, now: time.Now}
}

func (r *RedisRepository) Upsert(ctx context.Context, userID string, token string, expiresAt time.Time) error {
	now := r.now()
	data, err := json.Marshal(&models.RefreshToken{
		UserID:    userID,
		Token:     token,
		Expires:   expiresAt,
		CreatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal refresh token: %w", err)
	}

	ttl := expiresAt.Sub(now).Milliseconds()
	keys := []string{redisAccountPrefix + userID, redisTokenPrefix + token}
	if err := upsertScript.Run(ctx, r.client, keys, token, data, ttl, redisTokenPrefix).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) FindValid(ctx context.Context, token string, now time.Time) (*models.RefreshToken, error) {
	data, err := r.client.Get(ctx, redisTokenPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	var rt models.RefreshToken
	if err := json.Unmarshal(data, &rt); err != nil {
		return nil, fmt.Errorf("failed to unmarshal refresh token: %w", err)
	}
	if rt.Token != token || !rt.IsValidAt(now) {
		return nil, common.ErrorNotFound
	}
	return &rt, nil
}
