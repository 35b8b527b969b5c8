package models

import "time"

// RefreshToken is the single live refresh token of an account. A record
// whose Expires is before now is treated as absent.
type RefreshToken struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	Expires   time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsValidAt reports whether the token may still be exchanged at now.
func (t *RefreshToken) IsValidAt(now time.Time) bool {
	return !t.Expires.Before(now)
}
