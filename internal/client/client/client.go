package client

import (
	"context"
)

type Client interface {
	Close() error
	Signup(ctx context.Context, loginKey string, password []byte) (string, error)
	Login(ctx context.Context, loginKey string, password []byte) error
	Refresh(ctx context.Context) error
	WhoAmI(ctx context.Context) (string, error)
	Ping(ctx context.Context) error
	LoggedIn() bool
	Logout()
}
