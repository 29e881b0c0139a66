// Package orgs stores hackathon organizing bodies.
package orgs

import (
	"context"

	"github.com/thonhub/thonhub/internal/server/models"
)

type Repository interface {
	// Create inserts org. A clashing name, slug or email yields
	// common.ErrAlreadyExists.
	Create(ctx context.Context, org *models.Organization) (*models.Organization, error)
	// List returns organizations newest first.
	List(ctx context.Context, filter models.OrgFilter) ([]*models.Organization, error)
	GetByID(ctx context.Context, id string) (*models.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*models.Organization, error)
	// Update overwrites every mutable column of the organization with
	// org.ID. Missing rows yield common.ErrNotFound and clashes
	// common.ErrAlreadyExists.
	Update(ctx context.Context, org *models.Organization) error
	// Delete removes the organization and, through the schema, its
	// memberships.
	Delete(ctx context.Context, id string) error
}
