package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thonhub/thonhub/internal/server/models"
	"github.com/thonhub/thonhub/internal/server/repositories/repomanager"
)

type HackathonService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewHackathonService(db *sql.DB, m repomanager.RepositoryManager) *HackathonService {
	return &HackathonService{db: db, repomanager: m}
}

func (s *HackathonService) List(ctx context.Context) ([]*models.Hackathon, error) {
	hs, err := s.repomanager.Hackathons(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing hackathons: %w", err)
	}
	return hs, nil
}

// Put inserts or replaces hackathons by slug.
func (s *HackathonService) Put(ctx context.Context, hs ...*models.Hackathon) error {
	repo := s.repomanager.Hackathons(s.db)
	for _, h := range hs {
		if err := repo.Upsert(ctx, h); err != nil {
			return fmt.Errorf("error storing hackathon %s: %w", h.Slug, err)
		}
	}
	return nil
}
