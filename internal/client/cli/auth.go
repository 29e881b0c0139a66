package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/thonhub/thonhub/internal/client/api"
)

var ErrNotLoggedIn = errors.New("not logged in, type 'login' first")

func (a *App) Login(ctx context.Context) error {

	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	user, err := a.auth.Login(ctx, email, password)
	if err != nil {
		a.log.Warn(ctx, "login failed", "email", email, "error", err)
		return fmt.Errorf("login failed: %w", err)
	}

	name := email
	if user != nil {
		name = user.DisplayName()
	}
	a.setUser(name)
	a.println("Logged in as", name)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.setUser("")
	a.println("Logged out")
	return nil
}

func (a *App) Status(ctx context.Context) error {
	state := "logged out"
	if a.auth.IsAuthenticated(ctx) {
		state = "logged in"
	}
	base := ""
	if a.pipeline != nil {
		base = a.pipeline.BaseURL()
	}
	a.printf("API: %s\nSession: %s\n", base, state)
	return nil
}

func (a *App) Me(ctx context.Context) error {
	if !a.auth.IsAuthenticated(ctx) {
		return ErrNotLoggedIn
	}

	u, err := a.auth.Me(ctx)
	if err != nil {
		if errors.Is(err, api.ErrRefreshFailed) {
			a.setUser("")
		}
		return err
	}

	a.setUser(u.DisplayName())
	a.printf("ID:       %s\nName:     %s\nEmail:    %s\nUsername: %s\n", u.ID, u.DisplayName(), u.Email, u.Username)
	if len(u.Skills) > 0 {
		a.printf("Skills:   %v\n", u.Skills)
	}
	return nil
}
