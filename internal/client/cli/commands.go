package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
	"github.com/dmitrijs2005/authkeeper/internal/common"
)

func (a *App) readCredentials() (string, []byte, error) {
	loginKey, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	pw, err := GetPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return loginKey, pw, nil
}

func (a *App) Signup(ctx context.Context) error {
	loginKey, pw, err := a.readCredentials()
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}
	defer common.WipeByteArray(pw)

	id, err := a.client.Signup(ctx, loginKey, pw)
	if err != nil {
		printlnFn("Signup failed:", err.Error())
		return err
	}

	printlnFn("Account created:", id, "- now log in")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	loginKey, pw, err := a.readCredentials()
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}
	defer common.WipeByteArray(pw)

	if err := a.client.Login(ctx, loginKey, pw); err != nil {
		printlnFn("Login unsuccessful:", err.Error())
		return err
	}

	a.loginKey = loginKey
	printlnFn("Login successful")
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	if err := a.client.Refresh(ctx); err != nil {
		a.reportSession(err)
		return err
	}
	printlnFn("Tokens refreshed")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	id, err := a.client.WhoAmI(ctx)
	if err != nil {
		a.reportSession(err)
		return err
	}
	printlnFn("Account:", id)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.client.Logout()
	a.loginKey = ""
	printlnFn("Logged out")
	return nil
}

func (a *App) reportSession(err error) {
	if errors.Is(err, client.ErrSessionExpired) {
		a.loginKey = ""
		printlnFn("Your session has expired. Please log in again.")
		return
	}
	printlnFn("error:", err.Error())
}
