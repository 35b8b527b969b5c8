package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
	"github.com/dmitrijs2005/authkeeper/internal/client/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	loggedIn bool
	closed   bool
	pings    int

	gotKey      string
	gotPassword string

	signupErr  error
	loginErr   error
	refreshErr error
	whoamiErr  error
	pingErr    error
}

func (f *fakeClient) Close() error { f.closed = true; return nil }
func (f *fakeClient) Signup(ctx context.Context, loginKey string, password []byte) (string, error) {
	f.gotKey, f.gotPassword = loginKey, string(password)
	if f.signupErr != nil {
		return "", f.signupErr
	}
	return "acct-1", nil
}
func (f *fakeClient) Login(ctx context.Context, loginKey string, password []byte) error {
	f.gotKey, f.gotPassword = loginKey, string(password)
	if f.loginErr != nil {
		return f.loginErr
	}
	f.loggedIn = true
	return nil
}
func (f *fakeClient) Refresh(ctx context.Context) error {
	if f.refreshErr != nil {
		if errors.Is(f.refreshErr, client.ErrSessionExpired) {
			f.loggedIn = false
		}
		return f.refreshErr
	}
	return nil
}
func (f *fakeClient) WhoAmI(ctx context.Context) (string, error) {
	if f.whoamiErr != nil {
		return "", f.whoamiErr
	}
	return "acct-1", nil
}
func (f *fakeClient) Ping(ctx context.Context) error { f.pings++; return f.pingErr }
func (f *fakeClient) LoggedIn() bool                  { return f.loggedIn }
func (f *fakeClient) Logout()                         { f.loggedIn = false }

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	old := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = old })
}

func newTestApp(fc *fakeClient, input string) *App {
	return newApp(&config.Config{}, fc, strings.NewReader(input), io.Discard)
}

func TestSignup_PrintsAccountID(t *testing.T) {
	out := capturePrint(t)
	stubPassword(t, "s3cret1")

	fc := &fakeClient{}
	a := newTestApp(fc, "alice@example.com\n")

	require.NoError(t, a.Signup(context.Background()))
	assert.Equal(t, "alice@example.com", fc.gotKey)
	assert.Equal(t, "s3cret1", fc.gotPassword)
	assert.False(t, fc.loggedIn)
	assert.Contains(t, *out, "Account created: acct-1 - now log in")
}

func TestSignup_Failure(t *testing.T) {
	out := capturePrint(t)
	stubPassword(t, "s3cret1")

	fc := &fakeClient{signupErr: client.ErrAlreadyExists}
	a := newTestApp(fc, "alice@example.com\n")

	err := a.Signup(context.Background())
	require.ErrorIs(t, err, client.ErrAlreadyExists)
	assert.Contains(t, *out, "Signup failed: "+client.ErrAlreadyExists.Error())
}

func TestLogin_SetsStatus(t *testing.T) {
	capturePrint(t)
	stubPassword(t, "s3cret1")

	fc := &fakeClient{}
	a := newTestApp(fc, "alice@example.com\n")
	require.Equal(t, "(guest)", a.status())

	require.NoError(t, a.Login(context.Background()))
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "(alice@example.com)", a.status())
}

func TestLogin_Failure(t *testing.T) {
	out := capturePrint(t)
	stubPassword(t, "wrong")

	fc := &fakeClient{loginErr: client.ErrUnauthorized}
	a := newTestApp(fc, "alice@example.com\n")

	require.Error(t, a.Login(context.Background()))
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, "(guest)", a.status())
	assert.Contains(t, *out, "Login unsuccessful: "+client.ErrUnauthorized.Error())
}

func TestLogin_InputError(t *testing.T) {
	capturePrint(t)

	fc := &fakeClient{}
	a := newTestApp(fc, "")

	require.Error(t, a.Login(context.Background()))
	assert.Empty(t, fc.gotKey)
}

func TestWhoAmI(t *testing.T) {
	out := capturePrint(t)

	a := newTestApp(&fakeClient{loggedIn: true}, "")
	require.NoError(t, a.WhoAmI(context.Background()))
	assert.Contains(t, *out, "Account: acct-1")
}

func TestWhoAmI_SessionExpired(t *testing.T) {
	out := capturePrint(t)

	fc := &fakeClient{loggedIn: true, whoamiErr: client.ErrSessionExpired}
	a := newTestApp(fc, "")
	a.loginKey = "alice@example.com"

	err := a.WhoAmI(context.Background())
	require.ErrorIs(t, err, client.ErrSessionExpired)
	assert.Empty(t, a.loginKey)
	assert.Contains(t, *out, "Your session has expired. Please log in again.")
}

func TestRefresh(t *testing.T) {
	out := capturePrint(t)

	a := newTestApp(&fakeClient{loggedIn: true}, "")
	require.NoError(t, a.Refresh(context.Background()))
	assert.Contains(t, *out, "Tokens refreshed")
}

func TestRefresh_OtherError(t *testing.T) {
	out := capturePrint(t)

	boom := fmt.Errorf("%w: connection refused", client.ErrUnavailable)
	a := newTestApp(&fakeClient{loggedIn: true, refreshErr: boom}, "")
	a.loginKey = "alice@example.com"

	require.Error(t, a.Refresh(context.Background()))
	assert.Equal(t, "alice@example.com", a.loginKey)
	assert.Contains(t, *out, "error: "+boom.Error())
}

func TestLogout(t *testing.T) {
	capturePrint(t)

	fc := &fakeClient{loggedIn: true}
	a := newTestApp(fc, "")
	a.loginKey = "alice@example.com"

	require.NoError(t, a.Logout(context.Background()))
	assert.False(t, fc.loggedIn)
	assert.Equal(t, "(guest)", a.status())
}

func TestRun_FullSession(t *testing.T) {
	out := capturePrint(t)
	stubPassword(t, "s3cret1")

	fc := &fakeClient{}
	a := newTestApp(fc, "signup\nalice@example.com\nlogin\nalice@example.com\nwhoami\nexit\n")

	a.Run(context.Background())

	assert.Equal(t, 1, fc.pings)
	assert.True(t, fc.closed)
	assert.True(t, fc.loggedIn)
	assert.Contains(t, *out, "ak (alice@example.com) > ")
	assert.Contains(t, *out, "Account: acct-1")
}

func TestRun_PingWarning(t *testing.T) {
	out := capturePrint(t)

	fc := &fakeClient{pingErr: client.ErrUnavailable}
	a := newApp(&config.Config{}, fc, strings.NewReader("exit\n"), &bytes.Buffer{})

	a.Run(context.Background())

	assert.Contains(t, *out, "warning: server not reachable: "+client.ErrUnavailable.Error())
}
