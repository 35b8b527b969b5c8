package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const (
	insertAccountQuery = `(?s)^INSERT\s+INTO\s+accounts\s*\(id,\s*login_key,\s*password_hash,\s*created_at,\s*updated_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*$`
	selectAccountQuery = `(?s)^SELECT\s+id,\s*login_key,\s*password_hash,\s*created_at,\s*updated_at\s+FROM\s+accounts\s+WHERE\s+login_key\s*=\s*\$1\s*$`
)

func sampleAccount() *models.Account {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return &models.Account{
		ID:           "a-1",
		LoginKey:     "alice@example.com",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	a := sampleAccount()
	mock.ExpectExec(insertAccountQuery).
		WithArgs(a.ID, a.LoginKey, a.PasswordHash, a.CreatedAt, a.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Create(context.Background(), a)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "a-1" || got.LoginKey != "alice@example.com" {
		t.Fatalf("unexpected account: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	a := sampleAccount()
	mock.ExpectExec(insertAccountQuery).
		WithArgs(a.ID, a.LoginKey, a.PasswordHash, a.CreatedAt, a.UpdatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_login_key_key"})

	_, err := repo.Create(context.Background(), a)
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	a := sampleAccount()
	mock.ExpectExec(insertAccountQuery).
		WithArgs(a.ID, a.LoginKey, a.PasswordHash, a.CreatedAt, a.UpdatedAt).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), a)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	if errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("generic failure must not look like a duplicate")
	}
}

func TestGetByLoginKey_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	a := sampleAccount()
	rows := sqlmock.NewRows([]string{"id", "login_key", "password_hash", "created_at", "updated_at"}).
		AddRow(a.ID, a.LoginKey, a.PasswordHash, a.CreatedAt, a.UpdatedAt)
	mock.ExpectQuery(selectAccountQuery).
		WithArgs("alice@example.com").
		WillReturnRows(rows)

	got, err := repo.GetByLoginKey(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetByLoginKey error: %v", err)
	}
	if got.ID != "a-1" || got.PasswordHash != a.PasswordHash || !got.CreatedAt.Equal(a.CreatedAt) {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestGetByLoginKey_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectAccountQuery).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByLoginKey(context.Background(), "ghost@example.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByLoginKey_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectAccountQuery).
		WithArgs("alice@example.com").
		WillReturnError(errors.New("db err"))

	_, err := repo.GetByLoginKey(context.Background(), "alice@example.com")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
