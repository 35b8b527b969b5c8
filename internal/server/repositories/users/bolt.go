package users

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"go.etcd.io/bbolt"
)

// BucketAccounts holds JSON-encoded accounts keyed by login key.
var BucketAccounts = []byte("accounts")

// BoltRepository stores accounts in a bbolt file. The bucket must exist;
// the repository manager creates it.
type BoltRepository struct {
	db *bbolt.DB
}

func NewBoltRepository(db *bbolt.DB) *BoltRepository {
	return &BoltRepository{db: db}
}

// Create checks and writes inside one update transaction, so duplicates are
// rejected atomically.
func (r *BoltRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	data, err := json.Marshal(account)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal account: %w", err)
	}

	err = r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(BucketAccounts)
		if bucket == nil {
			return fmt.Errorf("accounts bucket not found")
		}

		key := []byte(account.LoginKey)
		if bucket.Get(key) != nil {
			return common.ErrorAlreadyExists
		}

		return bucket.Put(key, data)
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

func (r *BoltRepository) GetByLoginKey(ctx context.Context, loginKey string) (*models.Account, error) {
	var account *models.Account

	err := r.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(BucketAccounts)
		if bucket == nil {
			return fmt.Errorf("accounts bucket not found")
		}

		data := bucket.Get([]byte(loginKey))
		if data == nil {
			return common.ErrorNotFound
		}

		account = &models.Account{}
		if err := json.Unmarshal(data, account); err != nil {
			return fmt.Errorf("failed to unmarshal account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}
