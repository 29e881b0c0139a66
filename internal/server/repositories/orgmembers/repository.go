// Package orgmembers stores the admin and member roles users hold in an
// organization. Ownership stays on the organization row.
package orgmembers

import (
	"context"

	"github.com/thonhub/thonhub/internal/server/models"
)

type Repository interface {
	// Get returns the membership of userID in orgID, or common.ErrNotFound.
	Get(ctx context.Context, orgID, userID string) (*models.OrgMember, error)
	// Put inserts the membership or replaces the role of an existing one.
	Put(ctx context.Context, m *models.OrgMember) error
	// Remove deletes the membership. Absent memberships yield
	// common.ErrNotFound.
	Remove(ctx context.Context, orgID, userID string) error
	// List returns the memberships of orgID oldest first, with Name set
	// from the user record.
	List(ctx context.Context, orgID string) ([]*models.OrgMember, error)
}
