// Package models defines server-side data models persisted by the stores.
package models

import "time"

// Account is a registered identity. LoginKey is unique across accounts and
// PasswordHash only ever holds output of the password hasher.
type Account struct {
	ID           string    `json:"id"`
	LoginKey     string    `json:"login_key"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
