package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// SQLiteRepository stores refresh tokens in SQLite with unix millisecond
// timestamps.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

// Upsert deletes and inserts inside one transaction.
func (r *SQLiteRepository) Upsert(ctx context.Context, userID string, token string, expiresAt time.Time) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `delete from refresh_tokens where user_id = ?`, userID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`insert into refresh_tokens (user_id, token, expires_at, created_at) values (?, ?, ?, ?)`,
			userID, token, expiresAt.UnixMilli(), r.now().UnixMilli())
		return err
	})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) FindValid(ctx context.Context, token string, now time.Time) (*models.RefreshToken, error) {
	query := `select user_id, token, expires_at, created_at from refresh_tokens
			where token = ? and expires_at >= ?`

	var (
		rt               models.RefreshToken
		expires, created int64
	)
	err := r.db.QueryRowContext(ctx, query, token, now.UnixMilli()).Scan(&rt.UserID, &rt.Token, &expires, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	rt.Expires = time.UnixMilli(expires).UTC()
	rt.CreatedAt = time.UnixMilli(created).UTC()
	return &rt, nil
}
