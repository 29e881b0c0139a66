package orgs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
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

const orgColumns = `id, name, slug, email, description, logo_url, phone, website, address, city, state, country,
	postal_code, social_links, is_verified, is_active, hackathons_count, owner_id, created_at, updated_at`

func (r *SQLiteRepository) Create(ctx context.Context, org *models.Organization) (*models.Organization, error) {

	if org.ID == "" {
		org.ID = uuid.NewString()
	}
	if org.CreatedAt.IsZero() {
		org.CreatedAt = time.Now().UTC()
	}
	if org.UpdatedAt.IsZero() {
		org.UpdatedAt = org.CreatedAt
	}

	links := org.SocialLinks
	if links == nil {
		links = map[string]string{}
	}
	encoded, err := json.Marshal(links)
	if err != nil {
		return nil, fmt.Errorf("encode social links: %w", err)
	}

	query := `INSERT INTO organizations (` + orgColumns + `)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		org.ID, org.Name, org.Slug, org.Email, org.Description, org.LogoURL, org.Phone, org.Website,
		org.Address, org.City, org.State, org.Country, org.PostalCode, string(encoded),
		org.IsVerified, org.IsActive, org.HackathonsCount, org.OwnerID,
		org.CreatedAt.UnixMilli(), org.UpdatedAt.UnixMilli())
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return org, nil
}

func (r *SQLiteRepository) List(ctx context.Context, filter models.OrgFilter) ([]*models.Organization, error) {
	var (
		where []string
		args  []any
	)
	if filter.Verified != nil {
		where = append(where, "is_verified = ?")
		args = append(args, *filter.Verified)
	}

	query := `SELECT ` + orgColumns + ` FROM organizations`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, name ASC LIMIT ? OFFSET ?`

	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit, max(filter.Skip, 0))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Organization, 0)
	for rows.Next() {
		org, err := scanOrg(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	return r.getOne(ctx, `SELECT `+orgColumns+` FROM organizations WHERE id = ?`, id)
}

func (r *SQLiteRepository) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	return r.getOne(ctx, `SELECT `+orgColumns+` FROM organizations WHERE slug = ?`, slug)
}

func (r *SQLiteRepository) Update(ctx context.Context, org *models.Organization) error {

	links := org.SocialLinks
	if links == nil {
		links = map[string]string{}
	}
	encoded, err := json.Marshal(links)
	if err != nil {
		return fmt.Errorf("encode social links: %w", err)
	}

	query := `UPDATE organizations SET name = ?, slug = ?, email = ?, description = ?, logo_url = ?, phone = ?,
		website = ?, address = ?, city = ?, state = ?, country = ?, postal_code = ?, social_links = ?,
		is_verified = ?, is_active = ?, updated_at = ?
		WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query,
		org.Name, org.Slug, org.Email, org.Description, org.LogoURL, org.Phone, org.Website,
		org.Address, org.City, org.State, org.Country, org.PostalCode, string(encoded),
		org.IsVerified, org.IsActive, org.UpdatedAt.UnixMilli(), org.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return affectedOne(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM organizations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return affectedOne(res)
}

func affectedOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) getOne(ctx context.Context, query, arg string) (*models.Organization, error) {
	org, err := scanOrg(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	return org, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrg(s scanner) (*models.Organization, error) {
	var (
		o                models.Organization
		links            string
		created, updated int64
	)
	err := s.Scan(&o.ID, &o.Name, &o.Slug, &o.Email, &o.Description, &o.LogoURL, &o.Phone, &o.Website,
		&o.Address, &o.City, &o.State, &o.Country, &o.PostalCode, &links,
		&o.IsVerified, &o.IsActive, &o.HackathonsCount, &o.OwnerID, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal([]byte(links), &o.SocialLinks); err != nil {
		return nil, fmt.Errorf("decode social links: %w", err)
	}
	if len(o.SocialLinks) == 0 {
		o.SocialLinks = nil
	}
	o.CreatedAt = time.UnixMilli(created).UTC()
	o.UpdatedAt = time.UnixMilli(updated).UTC()

	return &o, nil
}
