// Package refreshtokens declares the refresh token store contract and its
// backends. Each account has at most one live refresh token.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// Repository keeps the current refresh token of every account.
type Repository interface {
	// Upsert atomically replaces whatever token userID had with token.
	// After it returns, only token is findable for userID.
	Upsert(ctx context.Context, userID string, token string, expiresAt time.Time) error

	// FindValid returns the record whose token matches exactly and whose
	// expiry is not before now. Absent and expired tokens both yield
	// common.ErrorNotFound.
	FindValid(ctx context.Context, token string, now time.Time) (*models.RefreshToken, error)
}
