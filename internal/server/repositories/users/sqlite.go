package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository stores accounts in SQLite. Timestamps are kept as unix
// milliseconds.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query := `insert into accounts (id, login_key, password_hash, created_at, updated_at)
			values (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		account.ID, account.LoginKey, account.PasswordHash,
		account.CreatedAt.UnixMilli(), account.UpdatedAt.UnixMilli())
	if err != nil {
		var se *sqlite.Error
		if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *SQLiteRepository) GetByLoginKey(ctx context.Context, loginKey string) (*models.Account, error) {
	query := `select id, login_key, password_hash, created_at, updated_at from accounts where login_key = ?`

	var (
		account            models.Account
		created, updated int64
	)
	err := r.db.QueryRowContext(ctx, query, loginKey).Scan(
		&account.ID, &account.LoginKey, &account.PasswordHash, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	account.CreatedAt = time.UnixMilli(created).UTC()
	account.UpdatedAt = time.UnixMilli(updated).UTC()
	return &account, nil
}
