package common

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnsupportedFile    = errors.New("unsupported file type")
	ErrForbidden          = errors.New("forbidden")

	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// PublicError pairs a sentinel kind with a message that is safe to return to
// API callers verbatim.
type PublicError struct {
	Kind    error
	Message string
}

func (e *PublicError) Error() string { return e.Message }

func (e *PublicError) Unwrap() error { return e.Kind }

// Public returns a *PublicError of kind with the given message.
func Public(kind error, message string) error {
	return &PublicError{Kind: kind, Message: message}
}
