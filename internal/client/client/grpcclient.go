package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/api"
	"github.com/dmitrijs2005/authkeeper/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// noRetry lists methods whose Unauthenticated answer is final.
var noRetry = map[string]bool{
	api.SignupFullMethodName:  true,
	api.LoginFullMethodName:   true,
	api.RefreshFullMethodName: true,
}

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      api.AuthServiceClient

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AuthorizationHeaderName)
	if token != "" {
		md.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken, s.refreshToken = access, refresh
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	access, refresh := s.tokens()
	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)

	if status.Code(err) != codes.Unauthenticated || noRetry[method] || refresh == "" {
		return err
	}

	// access token rejected; try once with a fresh pair
	resp, rerr := s.client.Refresh(ctx, &api.RefreshRequest{RefreshToken: refresh})
	if rerr != nil {
		if status.Code(rerr) == codes.Unauthenticated {
			s.setTokens("", "")
			return status.Error(codes.Unauthenticated, ErrSessionExpired.Error())
		}
		return rerr
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)

	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

// NewAuthKeeperClient dials endpointURL lazily; no traffic happens until the
// first call.
func NewAuthKeeperClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}
	if err := c.InitGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewAuthServiceClient(conn)
	return nil
}

func (s *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *GRPCClient) Signup(ctx context.Context, loginKey string, password []byte) (string, error) {

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Signup(ctx, &api.SignupRequest{LoginKey: loginKey, Password: string(password)})
	if err != nil {
		return "", s.mapError(err)
	}

	return resp.AccountID, nil

}

func (s *GRPCClient) Login(ctx context.Context, loginKey string, password []byte) error {

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Login(ctx, &api.LoginRequest{LoginKey: loginKey, Password: string(password)})
	if err != nil {
		return s.mapError(err)
	}

	s.setTokens(resp.AccessToken, resp.RefreshToken)

	return nil

}

// Refresh rotates the stored token pair explicitly.
func (s *GRPCClient) Refresh(ctx context.Context) error {

	_, refresh := s.tokens()
	if refresh == "" {
		return ErrUnauthorized
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Refresh(ctx, &api.RefreshRequest{RefreshToken: refresh})
	if err != nil {
		if status.Code(err) == codes.Unauthenticated {
			s.setTokens("", "")
			return ErrSessionExpired
		}
		return s.mapError(err)
	}

	s.setTokens(resp.AccessToken, resp.RefreshToken)
	return nil

}

func (s *GRPCClient) WhoAmI(ctx context.Context) (string, error) {

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.WhoAmI(ctx, &api.WhoAmIRequest{})
	if err != nil {
		return "", s.mapError(err)
	}

	return resp.AccountID, nil

}

func (s *GRPCClient) Ping(ctx context.Context) error {

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil

}

func (s *GRPCClient) LoggedIn() bool {
	_, refresh := s.tokens()
	return refresh != ""
}

// Logout forgets the local tokens. The server keeps the refresh token until
// it expires or is replaced by the next login.
func (s *GRPCClient) Logout() {
	s.setTokens("", "")
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		if st.Message() == ErrSessionExpired.Error() {
			return ErrSessionExpired
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidInput, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
