package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

var sqlitePragmas = []string{
	"PRAGMA journal_mode = WAL;",
	"PRAGMA synchronous = NORMAL;",
	"PRAGMA busy_timeout = 5000;",
}

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct {
	db *sql.DB
}

// OpenSQLite opens the database at dsn with a single connection; SQLite
// allows one writer at a time.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteRepositoryManager, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range sqlitePragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	return NewSQLiteRepositoryManager(db), nil
}

func NewSQLiteRepositoryManager(db *sql.DB) *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{db: db}
}

func (m *SQLiteRepositoryManager) Users() users.Repository {
	return users.NewSQLiteRepository(m.db)
}

func (m *SQLiteRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return refreshtokens.NewSQLiteRepository(m.db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, m.db, migrations.DirSQLite)
}

func (m *SQLiteRepositoryManager) Close() error {
	return m.db.Close()
}
