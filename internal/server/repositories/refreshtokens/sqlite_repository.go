package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/thonhub/thonhub/internal/common"
	"github.com/thonhub/thonhub/internal/dbx"
	"github.com/thonhub/thonhub/internal/server/models"
)

var now = time.Now

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, userID string, fingerprint string, validity time.Duration) error {
	issued := now()

	query :=
		`INSERT INTO refresh_tokens (fingerprint, user_id, expires_at, created_at)
		 VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, fingerprint, userID, issued.Add(validity).UnixMilli(), issued.UnixMilli())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) Consume(ctx context.Context, fingerprint string) (*models.RefreshToken, error) {
	query :=
		`DELETE FROM refresh_tokens WHERE fingerprint = ?
		 RETURNING user_id, fingerprint, expires_at, created_at`

	var (
		t                models.RefreshToken
		expires, created int64
	)
	err := r.db.QueryRowContext(ctx, query, fingerprint).Scan(&t.UserID, &t.Fingerprint, &expires, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	t.Expires = time.UnixMilli(expires).UTC()
	t.CreatedAt = time.UnixMilli(created).UTC()
	return &t, nil
}

func (r *SQLiteRepository) DeleteExpired(ctx context.Context, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= ?`, at.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}
