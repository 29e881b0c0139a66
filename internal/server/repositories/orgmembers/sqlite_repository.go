package orgmembers

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

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, orgID, userID string) (*models.OrgMember, error) {
	var (
		m       models.OrgMember
		created int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT org_id, user_id, role, created_at FROM org_members WHERE org_id = ? AND user_id = ?`,
		orgID, userID).Scan(&m.OrgID, &m.UserID, &m.Role, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	m.CreatedAt = time.UnixMilli(created).UTC()
	return &m, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, m *models.OrgMember) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO org_members (org_id, user_id, role, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (org_id, user_id) DO UPDATE SET role = excluded.role`

	if _, err := r.db.ExecContext(ctx, query, m.OrgID, m.UserID, m.Role, m.CreatedAt.UnixMilli()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, orgID, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM org_members WHERE org_id = ? AND user_id = ?`, orgID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, orgID string) ([]*models.OrgMember, error) {
	query := `SELECT m.org_id, m.user_id, m.role, m.created_at, u.first_name, u.last_name, u.username
		FROM org_members m JOIN users u ON u.id = m.user_id
		WHERE m.org_id = ?
		ORDER BY m.created_at ASC, u.username ASC`

	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]*models.OrgMember, 0)
	for rows.Next() {
		var (
			m                     models.OrgMember
			created               int64
			first, last, username string
		)
		if err := rows.Scan(&m.OrgID, &m.UserID, &m.Role, &created, &first, &last, &username); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		m.CreatedAt = time.UnixMilli(created).UTC()
		m.Name = models.DisplayName(first, last, username)
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
