// Package grpc exposes the auth service over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/authkeeper/internal/api"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/dmitrijs2005/authkeeper/internal/validation"
	"google.golang.org/grpc"
)

// AuthService is the part of services.AuthService the handlers call.
type AuthService interface {
	Signup(ctx context.Context, loginKey, password string) (*models.Account, error)
	Login(ctx context.Context, loginKey, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

// Authenticator resolves an authorization header to an account id.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (string, error)
}

type GRPCServer struct {
	api.UnimplementedAuthServiceServer
	address   string
	auth      AuthService
	guard     Authenticator
	validator *validation.Validator
	logger    logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, as AuthService, g Authenticator, v *validation.Validator) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		auth:      as,
		guard:     g,
		validator: v,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))

	api.RegisterAuthServiceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
