package models

import "time"

// RefreshToken is a server-side record of an issued refresh token. Only the
// fingerprint of the opaque token is kept.
type RefreshToken struct {
	UserID      string
	Fingerprint string
	Expires     time.Time
	CreatedAt   time.Time
}

func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.Expires)
}
