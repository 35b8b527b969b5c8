// Package auth issues and verifies the tokens handed to authenticated
// callers: short-lived signed access tokens and opaque refresh tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims — the standard registered claims plus the account identifier.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// GenerateToken signs an HS256 access token for userID that expires after
// validityDuration. A non-positive duration yields an already-expired token.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserIDFromToken verifies signature, algorithm and expiry and returns the
// embedded account identifier. Every failure matches common.ErrInvalidToken;
// an expired token additionally matches common.ErrTokenExpired.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: %w", common.ErrInvalidToken, common.ErrTokenExpired)
		}
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}

// Issuer binds the signing secret and access-token lifetime.
type Issuer struct {
	secret    []byte
	accessTTL time.Duration
}

// NewIssuer constructs an Issuer.
func NewIssuer(secret []byte, accessTTL time.Duration) *Issuer {
	return &Issuer{secret: secret, accessTTL: accessTTL}
}

// IssueAccessToken returns a signed access token for accountID.
func (i *Issuer) IssueAccessToken(accountID string) (string, error) {
	return GenerateToken(accountID, i.secret, i.accessTTL)
}

// VerifyAccessToken returns the account the token was issued for.
func (i *Issuer) VerifyAccessToken(token string) (string, error) {
	return GetUserIDFromToken(token, i.secret)
}

// GenerateRefreshToken returns a random opaque refresh token. It carries no
// claims; its meaning comes entirely from the stored record.
func (i *Issuer) GenerateRefreshToken() string {
	return uuid.NewString()
}

// AccessTTL is the lifetime of tokens from IssueAccessToken.
func (i *Issuer) AccessTTL() time.Duration {
	return i.accessTTL
}
