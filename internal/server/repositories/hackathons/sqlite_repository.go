package hackathons

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/thonhub/thonhub/internal/dbx"
	"github.com/thonhub/thonhub/internal/server/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, h *models.Hackathon) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}

	tracks, err := json.Marshal(h.Tracks)
	if err != nil {
		return fmt.Errorf("encode tracks: %w", err)
	}
	prizes, err := json.Marshal(h.Prizes)
	if err != nil {
		return fmt.Errorf("encode prizes: %w", err)
	}

	query :=
		`INSERT INTO hackathons (id, name, slug, tagline, theme, mode, location, organization, tracks, prizes, starts_at, ends_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (slug) DO UPDATE SET
		   name = excluded.name, tagline = excluded.tagline, theme = excluded.theme, mode = excluded.mode,
		   location = excluded.location, organization = excluded.organization, tracks = excluded.tracks,
		   prizes = excluded.prizes, starts_at = excluded.starts_at, ends_at = excluded.ends_at`

	_, err = r.db.ExecContext(ctx, query, h.ID, h.Name, h.Slug, h.Tagline, h.Theme, h.Mode, h.Location,
		h.Organization, string(tracks), string(prizes), h.StartsAt.UnixMilli(), h.EndsAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.Hackathon, error) {
	query :=
		`SELECT id, name, slug, tagline, theme, mode, location, organization, tracks, prizes, starts_at, ends_at
		 FROM hackathons ORDER BY starts_at ASC, name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Hackathon, 0)
	for rows.Next() {
		var (
			h              models.Hackathon
			tracks, prizes string
			starts, ends   int64
		)
		if err := rows.Scan(&h.ID, &h.Name, &h.Slug, &h.Tagline, &h.Theme, &h.Mode, &h.Location,
			&h.Organization, &tracks, &prizes, &starts, &ends); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if err := json.Unmarshal([]byte(tracks), &h.Tracks); err != nil {
			return nil, fmt.Errorf("decode tracks: %w", err)
		}
		if err := json.Unmarshal([]byte(prizes), &h.Prizes); err != nil {
			return nil, fmt.Errorf("decode prizes: %w", err)
		}
		h.StartsAt = time.UnixMilli(starts).UTC()
		h.EndsAt = time.UnixMilli(ends).UTC()
		out = append(out, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
