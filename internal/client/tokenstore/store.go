// Package tokenstore persists the client's single active credential pair.
//
// Exactly one access/refresh pair exists at a time. A missing value means
// "logged out"; writing an empty value removes the key. Implementations must
// be safe for concurrent use because the request pipeline reads the access
// token on every send.
package tokenstore

import (
	"context"
	"net/http"

	"github.com/thonhub/thonhub/internal/common"
)

// Pair is the access/refresh credential pair.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Store is the persisted credential key/value store.
type Store interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	SetAccessToken(ctx context.Context, token string) error
	SetRefreshToken(ctx context.Context, token string) error
	// SetPair writes both tokens atomically.
	SetPair(ctx context.Context, p Pair) error
	// Clear removes both tokens.
	Clear(ctx context.Context) error
}

// IsAuthenticated reports whether an access token is present. Read errors
// count as logged out.
func IsAuthenticated(ctx context.Context, s Store) bool {
	tok, err := s.AccessToken(ctx)
	return err == nil && tok != ""
}

// AuthHeader returns an Authorization header for the stored access token,
// or an empty header when there is none.
func AuthHeader(ctx context.Context, s Store) http.Header {
	h := http.Header{}
	if tok, err := s.AccessToken(ctx); err == nil && tok != "" {
		h.Set(common.AuthorizationHeader, common.BearerPrefix+tok)
	}
	return h
}

// LoadPair reads both tokens.
func LoadPair(ctx context.Context, s Store) (Pair, error) {
	access, err := s.AccessToken(ctx)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := s.RefreshToken(ctx)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}
