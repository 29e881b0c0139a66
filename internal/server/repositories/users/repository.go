// Package users declares the repository contract for backend user accounts
// and its SQLite implementation.
package users

import (
	"context"

	"github.com/thonhub/thonhub/internal/server/models"
)

type Repository interface {
	// Create inserts user, assigning an id when it has none. A clashing
	// email or username yields common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
