package repomanager

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/refreshtokens"
	"github.com/redis/go-redis/v9"
)

// redisOverlay serves accounts from the wrapped manager and refresh tokens
// from Redis.
type redisOverlay struct {
	RepositoryManager
	client redis.UniversalClient
}

// WithRedisRefreshTokens connects to addr and returns a manager whose
// RefreshTokens are Redis-backed.
func WithRedisRefreshTokens(ctx context.Context, m RepositoryManager, addr string) (RepositoryManager, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping error: %w", err)
	}
	return newRedisOverlay(m, client), nil
}

func newRedisOverlay(m RepositoryManager, client redis.UniversalClient) *redisOverlay {
	return &redisOverlay{RepositoryManager: m, client: client}
}

func (o *redisOverlay) RefreshTokens() refreshtokens.Repository {
	return refreshtokens.NewRedisRepository(o.client)
}

func (o *redisOverlay) Close() error {
	return errors.Join(o.client.Close(), o.RepositoryManager.Close())
}
