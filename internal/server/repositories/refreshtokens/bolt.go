package refreshtokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"go.etcd.io/bbolt"
)

var (
	// BucketRefreshTokens maps account id to the JSON-encoded record.
	BucketRefreshTokens = []byte("refresh_tokens")
	// BucketRefreshIndex maps token to account id.
	BucketRefreshIndex = []byte("refresh_index")
)

var errBucketMissing = errors.New("refresh token buckets not found")

type BoltRepository struct {
	db  *bbolt.DB
	now func() time.Time
}

func NewBoltRepository(db *bbolt.DB) *BoltRepository {
	return &BoltRepository{db: db, now: time.Now}
}

// Upsert swaps the record and its index entry in a single update
// transaction, so readers see either the old token or the new one.
func (r *BoltRepository) Upsert(ctx context.Context, userID string, token string, expiresAt time.Time) error {
	data, err := json.Marshal(&models.RefreshToken{
		UserID:    userID,
		Token:     token,
		Expires:   expiresAt,
		CreatedAt: r.now(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal refresh token: %w", err)
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		records := tx.Bucket(BucketRefreshTokens)
		index := tx.Bucket(BucketRefreshIndex)
		if records == nil || index == nil {
			return errBucketMissing
		}

		if prev := records.Get([]byte(userID)); prev != nil {
			var old models.RefreshToken
			if err := json.Unmarshal(prev, &old); err != nil {
				return fmt.Errorf("failed to unmarshal refresh token: %w", err)
			}
			if err := index.Delete([]byte(old.Token)); err != nil {
				return err
			}
		}

		if err := records.Put([]byte(userID), data); err != nil {
			return err
		}
		return index.Put([]byte(token), []byte(userID))
	})
}

func (r *BoltRepository) FindValid(ctx context.Context, token string, now time.Time) (*models.RefreshToken, error) {
	var rt models.RefreshToken

	err := r.db.View(func(tx *bbolt.Tx) error {
		records := tx.Bucket(BucketRefreshTokens)
		index := tx.Bucket(BucketRefreshIndex)
		if records == nil || index == nil {
			return errBucketMissing
		}

		userID := index.Get([]byte(token))
		if userID == nil {
			return common.ErrorNotFound
		}
		data := records.Get(userID)
		if data == nil {
			return common.ErrorNotFound
		}
		if err := json.Unmarshal(data, &rt); err != nil {
			return fmt.Errorf("failed to unmarshal refresh token: %w", err)
		}
		if rt.Token != token || !rt.IsValidAt(now) {
			return common.ErrorNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &rt, nil
}
