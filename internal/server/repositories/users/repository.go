// Package users declares the credential store contract and its backends.
package users

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// Repository maps login keys to accounts.
type Repository interface {
	// Create stores a new account. It returns common.ErrorAlreadyExists when
	// the login key is taken; the backend's uniqueness constraint decides.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	// GetByLoginKey returns the account for loginKey or common.ErrorNotFound.
	GetByLoginKey(ctx context.Context, loginKey string) (*models.Account, error)
}
