// Package repomanager opens the configured storage backend and vends the
// repositories the auth service needs.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	RefreshTokens() refreshtokens.Repository
	Close() error
}

// Open connects to the backend named by cfg.StorageBackend. When
// cfg.RedisAddr is set, refresh tokens are kept in Redis instead.
func Open(ctx context.Context, cfg *config.Config) (RepositoryManager, error) {
	var (
		m   RepositoryManager
		err error
	)

	switch cfg.StorageBackend {
	case config.BackendPostgres:
		m, err = OpenPostgres(ctx, cfg.DatabaseDSN)
	case config.BackendSQLite:
		m, err = OpenSQLite(ctx, cfg.DatabaseDSN)
	case config.BackendBolt:
		m, err = OpenBolt(cfg.BoltPath)
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.StorageBackend)
	}
	if err != nil {
		return nil, err
	}

	if cfg.RedisAddr != "" {
		overlay, err := WithRedisRefreshTokens(ctx, m, cfg.RedisAddr)
		if err != nil {
			_ = m.Close()
			return nil, err
		}
		return overlay, nil
	}

	return m, nil
}
