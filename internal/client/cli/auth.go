package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

func (a *App) credentials(username string) (string, []byte, error) {
	if username == "" {
		var err error
		username, err = GetSimpleText(a.reader, "Enter user name", a.out)
		if err != nil {
			return "", nil, err
		}
	}
	password, err := GetPassword(a.reader, a.out)
	if err != nil {
		return "", nil, err
	}
	return username, password, nil
}

func (a *App) Register(ctx context.Context, username string) error {
	username, password, err := a.credentials(username)
	if err != nil {
		return err
	}
	defer common.Wipe(password)

	if err := a.auth.Register(ctx, username, password); err != nil {
		return fmt.Errorf("registration failed: %s", describe(err))
	}
	fmt.Fprintf(a.out, "Registered %s\n", username)
	return nil
}

func (a *App) Login(ctx context.Context, username string) error {
	username, password, err := a.credentials(username)
	if err != nil {
		return err
	}
	defer common.Wipe(password)

	if err := a.auth.Login(ctx, username, password); err != nil {
		return fmt.Errorf("login failed: %s", describe(err))
	}
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Status(ctx context.Context) error {
	s, err := a.auth.Status(ctx)
	if err != nil {
		return err
	}
	if !s.LoggedIn {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", s.Subject)
	if !s.ExpiresAt.IsZero() {
		state := "valid"
		if s.Expired(time.Now()) {
			state = "expired"
		}
		fmt.Fprintf(a.out, "Access token %s until %s\n", state, s.ExpiresAt.Format(time.RFC3339))
	}
	fmt.Fprintf(a.out, "Refresh token stored: %t\n", s.CanRefresh)
	return nil
}
