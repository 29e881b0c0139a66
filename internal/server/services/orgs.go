package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/thonhub/thonhub/internal/common"
	"github.com/thonhub/thonhub/internal/dbx"
	"github.com/thonhub/thonhub/internal/server/models"
	"github.com/thonhub/thonhub/internal/server/repositories/repomanager"
)

// DefaultOrgLimit applies when a listing does not specify a limit.
const DefaultOrgLimit = 50

// CreateOrgInput is the accepted body of an organization create request.
type CreateOrgInput struct {
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Description string            `json:"description"`
	LogoURL     string            `json:"logo_url"`
	Phone       string            `json:"phone"`
	Website     string            `json:"website"`
	Address     string            `json:"address"`
	City        string            `json:"city"`
	State       string            `json:"state"`
	Country     string            `json:"country"`
	PostalCode  string            `json:"postal_code"`
	SocialLinks map[string]string `json:"social_links"`
}

// UpdateOrgInput is a partial update; nil fields are left unchanged.
type UpdateOrgInput struct {
	Name        *string            `json:"name"`
	Email       *string            `json:"email"`
	Description *string            `json:"description"`
	LogoURL     *string            `json:"logo_url"`
	Phone       *string            `json:"phone"`
	Website     *string            `json:"website"`
	Address     *string            `json:"address"`
	City        *string            `json:"city"`
	State       *string            `json:"state"`
	Country     *string            `json:"country"`
	PostalCode  *string            `json:"postal_code"`
	SocialLinks *map[string]string `json:"social_links"`
}

// AddMemberInput grants UserID a role. Any role other than "admin" adds a
// plain member.
type AddMemberInput struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type OrgService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewOrgService(db *sql.DB, m repomanager.RepositoryManager) *OrgService {
	return &OrgService{db: db, repomanager: m, now: time.Now}
}

func (s *OrgService) List(ctx context.Context, filter models.OrgFilter) ([]*models.Organization, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultOrgLimit
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	orgs, err := s.repomanager.Orgs(s.db).List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing organizations: %w", err)
	}
	return orgs, nil
}

func (s *OrgService) Get(ctx context.Context, id string) (*models.Organization, error) {
	return s.found(s.repomanager.Orgs(s.db).GetByID(ctx, id))
}

func (s *OrgService) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	return s.found(s.repomanager.Orgs(s.db).GetBySlug(ctx, slug))
}

func (s *OrgService) found(org *models.Organization, err error) (*models.Organization, error) {
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Public(common.ErrNotFound, "Organization not found")
		}
		return nil, fmt.Errorf("error loading organization: %w", err)
	}
	return org, nil
}

// Create validates in, derives the slug from the name and stores a new,
// unverified and active organization owned by ownerID.
func (s *OrgService) Create(ctx context.Context, ownerID string, in CreateOrgInput) (*models.Organization, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" {
		return nil, common.Public(common.ErrValidation, "Organization name is required")
	}
	if email == "" {
		return nil, common.Public(common.ErrValidation, "Organization email is required")
	}
	slug := Slugify(name)
	if slug == "" {
		return nil, common.Public(common.ErrValidation, "Organization name must contain letters or digits")
	}

	at := s.now().UTC()
	org := &models.Organization{
		Name:        name,
		Slug:        slug,
		Email:       email,
		Description: in.Description,
		LogoURL:     in.LogoURL,
		Phone:       in.Phone,
		Website:     in.Website,
		Address:     in.Address,
		City:        in.City,
		State:       in.State,
		Country:     in.Country,
		PostalCode:  in.PostalCode,
		SocialLinks: in.SocialLinks,
		IsActive:    true,
		OwnerID:     ownerID,
		CreatedAt:   at,
		UpdatedAt:   at,
	}

	created, err := s.repomanager.Orgs(s.db).Create(ctx, org)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.Public(common.ErrAlreadyExists, "Organization with this name or email already exists")
		}
		return nil, fmt.Errorf("error creating organization: %w", err)
	}
	return created, nil
}

// Update applies in to the organization. Only its owner and admins may
// update it; a new name also renames the slug.
func (s *OrgService) Update(ctx context.Context, actorID, id string, in UpdateOrgInput) (*models.Organization, error) {
	var org *models.Organization
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		org, err = s.found(s.repomanager.Orgs(tx).GetByID(ctx, id))
		if err != nil {
			return err
		}
		admin, err := s.isAdmin(ctx, tx, org, actorID)
		if err != nil {
			return err
		}
		if !admin {
			return common.Public(common.ErrForbidden, "You do not have permission to update this organization")
		}

		if err := applyUpdate(org, in); err != nil {
			return err
		}
		org.UpdatedAt = s.now().UTC()

		if err := s.repomanager.Orgs(tx).Update(ctx, org); err != nil {
			if errors.Is(err, common.ErrAlreadyExists) {
				return common.Public(common.ErrAlreadyExists, "Organization with this name or email already exists")
			}
			return fmt.Errorf("error updating organization: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return org, nil
}

func applyUpdate(org *models.Organization, in UpdateOrgInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return common.Public(common.ErrValidation, "Organization name is required")
		}
		slug := Slugify(name)
		if slug == "" {
			return common.Public(common.ErrValidation, "Organization name must contain letters or digits")
		}
		org.Name, org.Slug = name, slug
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email == "" {
			return common.Public(common.ErrValidation, "Organization email is required")
		}
		org.Email = email
	}

	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&org.Description, in.Description)
	set(&org.LogoURL, in.LogoURL)
	set(&org.Phone, in.Phone)
	set(&org.Website, in.Website)
	set(&org.Address, in.Address)
	set(&org.City, in.City)
	set(&org.State, in.State)
	set(&org.Country, in.Country)
	set(&org.PostalCode, in.PostalCode)
	if in.SocialLinks != nil {
		org.SocialLinks = *in.SocialLinks
	}
	return nil
}

// Delete removes the organization and its memberships. Only the owner may
// delete it.
func (s *OrgService) Delete(ctx context.Context, actorID, id string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		org, err := s.found(s.repomanager.Orgs(tx).GetByID(ctx, id))
		if err != nil {
			return err
		}
		if org.OwnerID == "" || org.OwnerID != actorID {
			return common.Public(common.ErrForbidden, "Only the owner can delete this organization")
		}
		if err := s.repomanager.Orgs(tx).Delete(ctx, id); err != nil {
			return fmt.Errorf("error deleting organization: %w", err)
		}
		return nil
	})
}

// Members returns the owner, admins and members of the organization.
func (s *OrgService) Members(ctx context.Context, id string) (*models.OrgMembers, error) {
	org, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &models.OrgMembers{Admins: []models.MemberRef{}, Members: []models.MemberRef{}}
	if org.OwnerID != "" {
		out.Owner = &models.MemberRef{ID: org.OwnerID, Name: "N/A"}
		owner, err := s.repomanager.Users(s.db).GetByID(ctx, org.OwnerID)
		switch {
		case err == nil:
			out.Owner.Name = owner.DisplayName()
		case !errors.Is(err, common.ErrNotFound):
			return nil, fmt.Errorf("error loading owner: %w", err)
		}
	}

	list, err := s.repomanager.OrgMembers(s.db).List(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error listing members: %w", err)
	}
	for _, m := range list {
		ref := models.MemberRef{ID: m.UserID, Name: m.Name}
		if m.Role == models.RoleAdmin {
			out.Admins = append(out.Admins, ref)
		} else {
			out.Members = append(out.Members, ref)
		}
	}
	return out, nil
}

// AddMember grants a role to a user and returns the role granted. An admin
// may be added over an existing member; adding a member requires the user
// to hold no role yet.
func (s *OrgService) AddMember(ctx context.Context, actorID, orgID string, in AddMemberInput) (string, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return "", common.Public(common.ErrValidation, "user_id is required")
	}
	role := models.RoleMember
	if in.Role == models.RoleAdmin {
		role = models.RoleAdmin
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		org, err := s.orgAndUser(ctx, tx, orgID, userID)
		if err != nil {
			return err
		}
		admin, err := s.isAdmin(ctx, tx, org, actorID)
		if err != nil {
			return err
		}
		if !admin {
			return common.Public(common.ErrForbidden, "You do not have permission to add members")
		}

		existing, err := s.repomanager.OrgMembers(tx).Get(ctx, orgID, userID)
		switch {
		case errors.Is(err, common.ErrNotFound):
		case err != nil:
			return fmt.Errorf("error loading membership: %w", err)
		case role == models.RoleMember || existing.Role == models.RoleAdmin:
			return common.Public(common.ErrValidation, "User already has this role")
		}

		m := &models.OrgMember{OrgID: orgID, UserID: userID, Role: role, CreatedAt: s.now().UTC()}
		if existing != nil {
			m.CreatedAt = existing.CreatedAt
		}
		if err := s.repomanager.OrgMembers(tx).Put(ctx, m); err != nil {
			return fmt.Errorf("error adding member: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return role, nil
}

// RemoveMember drops whatever role userID holds in the organization.
func (s *OrgService) RemoveMember(ctx context.Context, actorID, orgID, userID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		org, err := s.orgAndUser(ctx, tx, orgID, userID)
		if err != nil {
			return err
		}
		admin, err := s.isAdmin(ctx, tx, org, actorID)
		if err != nil {
			return err
		}
		if !admin {
			return common.Public(common.ErrForbidden, "You do not have permission to remove members")
		}

		if err := s.repomanager.OrgMembers(tx).Remove(ctx, orgID, userID); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.Public(common.ErrValidation, "User is not a member of this organization")
			}
			return fmt.Errorf("error removing member: %w", err)
		}
		return nil
	})
}

func (s *OrgService) orgAndUser(ctx context.Context, tx dbx.DBTX, orgID, userID string) (*models.Organization, error) {
	org, err := s.repomanager.Orgs(tx).GetByID(ctx, orgID)
	if err == nil {
		_, err = s.repomanager.Users(tx).GetByID(ctx, userID)
	}
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Public(common.ErrNotFound, "Organization or user not found")
		}
		return nil, fmt.Errorf("error loading organization or user: %w", err)
	}
	return org, nil
}

// isAdmin reports whether userID owns the organization or is one of its
// admins.
func (s *OrgService) isAdmin(ctx context.Context, tx dbx.DBTX, org *models.Organization, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	if org.OwnerID == userID {
		return true, nil
	}
	m, err := s.repomanager.OrgMembers(tx).Get(ctx, org.ID, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("error loading membership: %w", err)
	}
	return m.Role == models.RoleAdmin, nil
}

// Slugify lowercases s, collapses every run of characters outside [a-z0-9]
// into a single '-' and trims dashes from both ends.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			dash = true
			continue
		}
		if dash && b.Len() > 0 {
			b.WriteByte('-')
		}
		dash = false
		b.WriteRune(r)
	}
	return b.String()
}

// Import stores org as given, deriving the slug when it is empty. Existing
// organizations with the same name, slug or email are left untouched.
func (s *OrgService) Import(ctx context.Context, org *models.Organization) error {
	if org.Slug == "" {
		org.Slug = Slugify(org.Name)
	}
	if _, err := s.repomanager.Orgs(s.db).Create(ctx, org); err != nil && !errors.Is(err, common.ErrAlreadyExists) {
		return fmt.Errorf("error importing organization %s: %w", org.Slug, err)
	}
	return nil
}
