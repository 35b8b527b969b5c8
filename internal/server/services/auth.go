// Package services contains server-side business logic. AuthService owns the
// account and token lifecycle: signup, login, session issuance and refresh
// token rotation.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/password"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
	"github.com/google/uuid"
)

// TokenPair is what a successful login or refresh hands back to the client.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenIssuer mints access tokens and opaque refresh tokens.
type TokenIssuer interface {
	IssueAccessToken(accountID string) (string, error)
	GenerateRefreshToken() string
	AccessTTL() time.Duration
}

// AuthService is safe for concurrent use; it keeps no per-request state.
type AuthService struct {
	users      users.Repository
	refresh    refreshtokens.Repository
	issuer     TokenIssuer
	hasher     password.Hasher
	logger     logging.Logger
	refreshTTL time.Duration
	now        func() time.Time

	// dummyHash is verified against on unknown login keys so that both
	// failure paths cost one bcrypt comparison.
	dummyHash string
}

// NewAuthService wires the service from its collaborators.
func NewAuthService(
	u users.Repository,
	r refreshtokens.Repository,
	issuer TokenIssuer,
	hasher password.Hasher,
	refreshTTL time.Duration,
	logger logging.Logger,
) *AuthService {
	s := &AuthService{
		users:      u,
		refresh:    r,
		issuer:     issuer,
		hasher:     hasher,
		logger:     logger.With("module", "auth_service"),
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	if h, err := hasher.Hash(uuid.NewString()); err == nil {
		s.dummyHash = h
	}
	return s
}

// Signup registers loginKey with a freshly hashed password. It issues no
// tokens; the caller logs in separately.
func (s *AuthService) Signup(ctx context.Context, loginKey, plaintext string) (*models.Account, error) {
	_, err := s.users.GetByLoginKey(ctx, loginKey)
	switch {
	case err == nil:
		return nil, common.ErrDuplicateLoginKey
	case !errors.Is(err, common.ErrorNotFound):
		s.logger.Error(ctx, "signup lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return nil, common.ErrorInternal
	}

	now := s.now().UTC()
	account, err := s.users.Create(ctx, &models.Account{
		ID:           uuid.NewString(),
		LoginKey:     loginKey,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// lost a race with a concurrent signup for the same key
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrDuplicateLoginKey
		}
		s.logger.Error(ctx, "account create failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "account created", "account_id", account.ID)
	return account, nil
}

// Login checks the credentials and opens a session. Unknown login keys and
// wrong passwords fail with the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, loginKey, plaintext string) (*TokenPair, error) {
	account, err := s.users.GetByLoginKey(ctx, loginKey)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(plaintext, s.dummyHash)
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "login lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	if !s.hasher.Verify(plaintext, account.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	return s.IssueSession(ctx, account.ID)
}

// IssueSession mints a token pair for accountID and makes the new refresh
// token the only valid one for the account.
func (s *AuthService) IssueSession(ctx context.Context, accountID string) (*TokenPair, error) {
	now := s.now()

	access, err := s.issuer.IssueAccessToken(accountID)
	if err != nil {
		s.logger.Error(ctx, "access token signing failed", "error", err)
		return nil, common.ErrorInternal
	}

	refresh := s.issuer.GenerateRefreshToken()
	refreshExpires := now.Add(s.refreshTTL)

	if err := s.refresh.Upsert(ctx, accountID, refresh, refreshExpires); err != nil {
		s.logger.Error(ctx, "refresh token store failed", "error", err, "account_id", accountID)
		return nil, common.ErrorInternal
	}

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  now.Add(s.issuer.AccessTTL()),
		RefreshExpiresAt: refreshExpires,
	}, nil
}

// Refresh exchanges a live refresh token for a new pair. The presented token
// stops working once this returns.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, common.ErrInvalidOrExpiredRefreshToken
	}

	rt, err := s.refresh.FindValid(ctx, refreshToken, s.now())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidOrExpiredRefreshToken
		}
		s.logger.Error(ctx, "refresh token lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	return s.IssueSession(ctx, rt.UserID)
}
