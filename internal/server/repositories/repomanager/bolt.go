package repomanager

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/filex"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
	"go.etcd.io/bbolt"
)

// BoltRepositoryManager vends repositories over a single bbolt file.
type BoltRepositoryManager struct {
	db *bbolt.DB
}

func OpenBolt(path string) (*BoltRepositoryManager, error) {
	path, err := filex.EnsureParentDir(path)
	if err != nil {
		return nil, fmt.Errorf("bolt path error: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt open error: %w", err)
	}
	return NewBoltRepositoryManager(db), nil
}

func NewBoltRepositoryManager(db *bbolt.DB) *BoltRepositoryManager {
	return &BoltRepositoryManager{db: db}
}

func (m *BoltRepositoryManager) Users() users.Repository {
	return users.NewBoltRepository(m.db)
}

func (m *BoltRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return refreshtokens.NewBoltRepository(m.db)
}

// RunMigrations creates the buckets; bbolt has no schema beyond them.
func (m *BoltRepositoryManager) RunMigrations(ctx context.Context) error {
	return m.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{
			users.BucketAccounts,
			refreshtokens.BucketRefreshTokens,
			refreshtokens.BucketRefreshIndex,
		} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
}

func (m *BoltRepositoryManager) Close() error {
	return m.db.Close()
}
