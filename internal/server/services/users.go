// Package services contains the business logic of the development backend.
// This file implements UserService, which handles accounts, login and the
// issuing and rotation of token pairs.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/thonhub/thonhub/internal/common"
	"github.com/thonhub/thonhub/internal/cryptox"
	"github.com/thonhub/thonhub/internal/dbx"
	"github.com/thonhub/thonhub/internal/logging"
	"github.com/thonhub/thonhub/internal/server/auth"
	"github.com/thonhub/thonhub/internal/server/config"
	"github.com/thonhub/thonhub/internal/server/models"
	"github.com/thonhub/thonhub/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterInput describes a new account.
type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
	Bio       string
	Skills    []string
}

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	now                          func() time.Time
	log                          logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *UserService {
	if log == nil {
		log = logging.Nop{}
	}
	return &UserService{
		db:                           db,
		repomanager:                  m,
		log:                          log,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidity,
		refreshTokenValidityDuration: cfg.RefreshTokenValidity,
		now:                          time.Now,
	}
}

// Register creates an account with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.TrimSpace(in.Email)
	username := strings.TrimSpace(in.Username)
	if email == "" || username == "" || in.Password == "" {
		return nil, common.Public(common.ErrValidation, "Email, username and password are required")
	}

	hash, err := cryptox.HashPassword([]byte(in.Password))
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Bio:          in.Bio,
		Skills:       in.Skills,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.Public(common.ErrAlreadyExists, "User with this email or username already exists")
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies the password and, on success, returns a new TokenPair.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, *models.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, nil, common.Public(common.ErrValidation, "Email and password are required")
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.Public(common.ErrInvalidCredentials, "Invalid email or password")
		}
		return nil, nil, fmt.Errorf("error loading user: %w", err)
	}

	if err := cryptox.CheckPassword(user.PasswordHash, []byte(password)); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return nil, nil, common.Public(common.ErrInvalidCredentials, "Invalid email or password")
		}
		return nil, nil, fmt.Errorf("error checking password: %w", err)
	}

	// Expired refresh tokens are purged lazily; failure here is not fatal.
	if _, err := s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, s.now()); err != nil {
		s.log.Warn(ctx, "purge expired refresh tokens", "error", err)
	}

	pair, err := s.generateTokenPair(ctx, user, s.db)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// RefreshToken redeems refreshToken and returns a fresh TokenPair. Each
// refresh token can be redeemed once; unknown or reused tokens yield
// common.ErrInvalidToken and expired ones common.ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, common.Public(common.ErrValidation, "Refresh token is required")
	}

	var pair *TokenPair
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		token, err := s.repomanager.RefreshTokens(tx).Consume(ctx, cryptox.Fingerprint(refreshToken))
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.Public(common.ErrInvalidToken, "Invalid refresh token")
			}
			return fmt.Errorf("error redeeming refresh token: %w", err)
		}
		if token.Expired(s.now()) {
			return common.Public(common.ErrRefreshTokenExpired, "Refresh token expired")
		}

		user, err := s.repomanager.Users(tx).GetByID(ctx, token.UserID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.Public(common.ErrInvalidToken, "Invalid refresh token")
			}
			return fmt.Errorf("error loading user: %w", err)
		}

		pair, err = s.generateTokenPair(ctx, user, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Authenticate validates an access token and returns the user id it was
// issued to.
func (s *UserService) Authenticate(accessToken string) (string, error) {
	return auth.GetUserIDFromToken(accessToken, s.jwtSecret)
}

func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Public(common.ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return u, nil
}

// --- helpers below ---

func (s *UserService) generateAccessToken(user *models.User) (string, error) {
	return auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateTokenPair(ctx context.Context, user *models.User, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh := uuid.NewString()
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, user.ID, cryptox.Fingerprint(refresh), s.refreshTokenValidityDuration); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
