// Package common defines shared constants and sentinel errors used across
// client and server layers of authkeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Account lifecycle errors.
	ErrDuplicateLoginKey  = errors.New("login key already in use")
	ErrInvalidCredentials = errors.New("invalid login key or password")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired                 = errors.New("token expired")
	ErrInvalidOrExpiredRefreshToken = errors.New("invalid or expired refresh token")
)
