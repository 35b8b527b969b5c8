package grpc

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/api"
	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/guard"
	"github.com/dmitrijs2005/authkeeper/internal/server/password"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/dmitrijs2005/authkeeper/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func startInProcess(t *testing.T) api.AuthServiceClient {
	t.Helper()

	m, err := repomanager.OpenBolt(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	require.NoError(t, m.RunMigrations(context.Background()))

	issuer := auth.NewIssuer([]byte("e2e-secret"), time.Hour)
	svc := services.NewAuthService(m.Users(), m.RefreshTokens(), issuer,
		password.NewBcryptHasher(bcrypt.MinCost), 72*time.Hour, nopLogger{})
	srv := NewGRPCServer("bufnet", nopLogger{}, svc, guard.New(issuer, nopLogger{}), validation.New())

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return api.NewAuthServiceClient(conn)
}

func withBearer(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, common.AuthorizationHeaderName, common.BearerScheme+" "+token)
}

func TestEndToEnd(t *testing.T) {
	c := startInProcess(t)
	ctx := context.Background()

	ping, err := c.Ping(ctx, &api.PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", ping.Status)

	signup, err := c.Signup(ctx, &api.SignupRequest{LoginKey: "a@x.com", Password: "Secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, signup.AccountID)

	_, err = c.Signup(ctx, &api.SignupRequest{LoginKey: "a@x.com", Password: "Other2"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	_, err = c.Signup(ctx, &api.SignupRequest{LoginKey: "b@x.com", Password: "short"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = c.Login(ctx, &api.LoginRequest{LoginKey: "a@x.com", Password: "wrong"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	pair, err := c.Login(ctx, &api.LoginRequest{LoginKey: "a@x.com", Password: "Secret1"})
	require.NoError(t, err)
	assert.True(t, pair.AccessExpiresAt.After(time.Now()))

	_, err = c.WhoAmI(ctx, &api.WhoAmIRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	me, err := c.WhoAmI(withBearer(ctx, pair.AccessToken), &api.WhoAmIRequest{})
	require.NoError(t, err)
	assert.Equal(t, signup.AccountID, me.AccountID)

	next, err := c.Refresh(ctx, &api.RefreshRequest{RefreshToken: pair.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	_, err = c.Refresh(ctx, &api.RefreshRequest{RefreshToken: pair.RefreshToken})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	stale, err := auth.GenerateToken(signup.AccountID, []byte("e2e-secret"), -time.Minute)
	require.NoError(t, err)
	_, err = c.WhoAmI(withBearer(ctx, stale), &api.WhoAmIRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}
