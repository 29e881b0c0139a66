package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/thonhub/thonhub/internal/client/api"
	"github.com/thonhub/thonhub/internal/client/models"
	"github.com/thonhub/thonhub/internal/client/tokenstore"
	"github.com/thonhub/thonhub/internal/common"
)

var ErrEmptyLoginResponse = errors.New("login response has no access token")

// AuthService manages the session of the terminal client.
type AuthService interface {
	// Login exchanges credentials for a token pair and stores it.
	Login(ctx context.Context, email, password string) (*models.User, error)
	// Logout forgets the stored credentials.
	Logout(ctx context.Context) error
	IsAuthenticated(ctx context.Context) bool
	// Me returns the profile of the logged in user.
	Me(ctx context.Context) (*models.User, error)
}

type authService struct {
	api Requester
}

func NewAuthService(r Requester) AuthService {
	return &authService{api: r}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *authService) Login(ctx context.Context, email, password string) (*models.User, error) {

	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}

	// A 401 here means bad credentials, not an expired token.
	req := &api.Request{
		Method:    http.MethodPost,
		Path:      common.LoginPath,
		JSON:      loginRequest{Email: email, Password: password},
		NoRefresh: true,
	}

	var out models.TokenPair
	if err := a.api.DoJSON(ctx, req, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, ErrEmptyLoginResponse
	}

	pair := tokenstore.Pair{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken}
	if err := a.api.Store().SetPair(ctx, pair); err != nil {
		return nil, fmt.Errorf("store tokens: %w", err)
	}

	return out.User, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.api.Store().Clear(ctx)
}

func (a *authService) IsAuthenticated(ctx context.Context) bool {
	return tokenstore.IsAuthenticated(ctx, a.api.Store())
}

func (a *authService) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := a.api.DoJSON(ctx, &api.Request{Method: http.MethodGet, Path: common.MePath}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
