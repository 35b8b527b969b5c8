package refreshtokens

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runContract exercises the behaviour every backend shares.
func runContract(t *testing.T, newRepo func(t *testing.T) Repository) {
	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)

	t.Run("find after upsert", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Upsert(ctx, "u1", "tok-1", now.Add(time.Hour)))

		got, err := repo.FindValid(ctx, "tok-1", now)
		require.NoError(t, err)
		assert.Equal(t, "u1", got.UserID)
		assert.Equal(t, "tok-1", got.Token)
		assert.True(t, got.Expires.Equal(now.Add(time.Hour)), "expires: %v", got.Expires)
	})

	t.Run("upsert replaces previous token", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Upsert(ctx, "u1", "old", now.Add(time.Hour)))
		require.NoError(t, repo.Upsert(ctx, "u1", "new", now.Add(time.Hour)))

		_, err := repo.FindValid(ctx, "old", now)
		require.ErrorIs(t, err, common.ErrorNotFound)

		got, err := repo.FindValid(ctx, "new", now)
		require.NoError(t, err)
		assert.Equal(t, "u1", got.UserID)
	})

	t.Run("accounts are independent", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Upsert(ctx, "u1", "t1", now.Add(time.Hour)))
		require.NoError(t, repo.Upsert(ctx, "u2", "t2", now.Add(time.Hour)))

		got, err := repo.FindValid(ctx, "t1", now)
		require.NoError(t, err)
		assert.Equal(t, "u1", got.UserID)
		got, err = repo.FindValid(ctx, "t2", now)
		require.NoError(t, err)
		assert.Equal(t, "u2", got.UserID)
	})

	t.Run("expired token is not found", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Upsert(ctx, "u1", "tok", now.Add(time.Minute)))

		_, err := repo.FindValid(ctx, "tok", now.Add(2*time.Minute))
		require.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("expiry boundary is inclusive", func(t *testing.T) {
		repo := newRepo(t)
		exp := now.Add(time.Minute)
		require.NoError(t, repo.Upsert(ctx, "u1", "tok", exp))

		_, err := repo.FindValid(ctx, "tok", exp)
		require.NoError(t, err)
	})

	t.Run("unknown token", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.FindValid(ctx, "missing", now)
		require.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("match is exact", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Upsert(ctx, "u1", "abcdef", now.Add(time.Hour)))

		_, err := repo.FindValid(ctx, "abcde", now)
		require.ErrorIs(t, err, common.ErrorNotFound)
		_, err = repo.FindValid(ctx, "ABCDEF", now)
		require.ErrorIs(t, err, common.ErrorNotFound)
	})
}
