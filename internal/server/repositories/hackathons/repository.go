// Package hackathons stores the hackathon catalogue.
package hackathons

import (
	"context"

	"github.com/thonhub/thonhub/internal/server/models"
)

type Repository interface {
	// Upsert inserts h or replaces the row with the same slug.
	Upsert(ctx context.Context, h *models.Hackathon) error
	// List returns hackathons ordered by start date.
	List(ctx context.Context) ([]*models.Hackathon, error)
}
