// Package guard authenticates inbound bearer tokens. It only verifies
// signatures and expiry; it never touches storage.
package guard

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
)

// Verifier checks an access token and returns the account it was issued to.
type Verifier interface {
	VerifyAccessToken(token string) (string, error)
}

type Guard struct {
	verifier Verifier
	logger   logging.Logger
}

func New(v Verifier, logger logging.Logger) *Guard {
	return &Guard{verifier: v, logger: logger.With("module", "guard")}
}

var (
	errMissingHeader = errors.New("missing authorization header")
	errBadScheme     = errors.New("authorization scheme is not bearer")
)

// ExtractBearer returns the token from an "Bearer <token>" header value.
// The scheme is matched case-insensitively.
func ExtractBearer(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errMissingHeader
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", errBadScheme
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errMissingHeader
	}
	return token, nil
}

// Authenticate resolves the account behind an authorization header value.
// Every failure is reported as common.ErrorUnauthorized; the cause is only
// logged.
func (g *Guard) Authenticate(ctx context.Context, header string) (string, error) {
	token, err := ExtractBearer(header)
	if err != nil {
		g.logger.Warn(ctx, "rejected request", "reason", err.Error())
		return "", common.ErrorUnauthorized
	}

	accountID, err := g.verifier.VerifyAccessToken(token)
	if err != nil {
		g.logger.Warn(ctx, "rejected request", "reason", err.Error())
		return "", common.ErrorUnauthorized
	}

	return accountID, nil
}

type ctxKey struct{}

// WithAccountID returns a copy of ctx carrying the verified account id.
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, accountID)
}

// AccountIDFromContext returns the account id set by WithAccountID.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
