// Package refreshtokens declares the server-side repository contract for
// managing refresh tokens in persistent storage.
package refreshtokens

import (
	"context"
	"time"

	"github.com/thonhub/thonhub/internal/server/models"
)

// Repository defines operations for issuing and redeeming refresh tokens.
// Tokens are addressed by their fingerprint, never by the opaque value.
type Repository interface {
	// Create stores a refresh token for userID with an expiry of now+validity.
	Create(ctx context.Context, userID string, fingerprint string, validity time.Duration) error

	// Consume atomically removes the token and returns its record, so a
	// token can be redeemed once. Absent tokens yield common.ErrNotFound.
	Consume(ctx context.Context, fingerprint string) (*models.RefreshToken, error)

	// DeleteExpired purges tokens that expired before now and reports how
	// many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
