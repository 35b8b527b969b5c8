// Package api defines the AuthService wire contract: request and response
// messages, the gRPC service descriptor and a client stub. Messages travel
// as JSON through a registered gRPC codec.
package api

import "time"

type SignupRequest struct {
	LoginKey string `json:"login_key"`
	Password string `json:"password"`
}

type SignupResponse struct {
	AccountID string `json:"account_id"`
	LoginKey  string `json:"login_key"`
}

type LoginRequest struct {
	LoginKey string `json:"login_key"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse is returned by Login and Refresh.
type TokenResponse struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type WhoAmIRequest struct{}

type WhoAmIResponse struct {
	AccountID string `json:"account_id"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}
