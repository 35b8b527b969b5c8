package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/authkeeper/internal/api"
	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/guard"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/dmitrijs2005/authkeeper/internal/validation"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Signup(ctx context.Context, req *api.SignupRequest) (*api.SignupResponse, error) {

	if err := s.validator.Struct(validation.SignupInput{LoginKey: req.LoginKey, Password: req.Password}); err != nil {
		return nil, toStatus(err)
	}

	account, err := s.auth.Signup(ctx, req.LoginKey, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Registered", "account_id", account.ID)
	return &api.SignupResponse{AccountID: account.ID, LoginKey: account.LoginKey}, nil

}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.TokenResponse, error) {

	if err := s.validator.Struct(validation.LoginInput{LoginKey: req.LoginKey, Password: req.Password}); err != nil {
		return nil, toStatus(err)
	}

	tokens, err := s.auth.Login(ctx, req.LoginKey, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			s.logger.Warn(ctx, "login failed", "login_key", req.LoginKey)
		}
		return nil, toStatus(err)
	}

	return toTokenResponse(tokens), nil

}

func (s *GRPCServer) Refresh(ctx context.Context, req *api.RefreshRequest) (*api.TokenResponse, error) {

	if err := s.validator.Struct(validation.RefreshInput{RefreshToken: req.RefreshToken}); err != nil {
		return nil, toStatus(err)
	}

	tokens, err := s.auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return nil, toStatus(err)
	}

	return toTokenResponse(tokens), nil

}

func (s *GRPCServer) WhoAmI(ctx context.Context, req *api.WhoAmIRequest) (*api.WhoAmIResponse, error) {

	accountID, ok := guard.AccountIDFromContext(ctx)
	if !ok {
		return nil, toStatus(common.ErrorUnauthorized)
	}

	return &api.WhoAmIResponse{AccountID: accountID}, nil

}

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {

	return &api.PingResponse{Status: "OK"}, nil

}

func toTokenResponse(p *services.TokenPair) *api.TokenResponse {
	return &api.TokenResponse{
		AccessToken:      p.AccessToken,
		RefreshToken:     p.RefreshToken,
		AccessExpiresAt:  p.AccessExpiresAt,
		RefreshExpiresAt: p.RefreshExpiresAt,
	}
}

// toStatus maps domain errors onto gRPC codes. Anything unrecognised is
// reported as a bare internal error.
func toStatus(err error) error {
	switch {
	case errors.Is(err, validation.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrDuplicateLoginKey):
		return status.Error(codes.AlreadyExists, common.ErrDuplicateLoginKey.Error())
	case errors.Is(err, common.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, common.ErrInvalidCredentials.Error())
	case errors.Is(err, common.ErrInvalidOrExpiredRefreshToken):
		return status.Error(codes.Unauthenticated, common.ErrInvalidOrExpiredRefreshToken.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
