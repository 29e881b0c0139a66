package models

import "time"

type Organization struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Slug            string            `json:"slug"`
	Description     string            `json:"description,omitempty"`
	LogoURL         string            `json:"logo_url,omitempty"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone,omitempty"`
	Website         string            `json:"website,omitempty"`
	City            string            `json:"city,omitempty"`
	Country         string            `json:"country,omitempty"`
	SocialLinks     map[string]string `json:"social_links,omitempty"`
	IsVerified      bool              `json:"is_verified"`
	IsActive        bool              `json:"is_active"`
	HackathonsCount int               `json:"hackathons_count"`
	OwnerID         string            `json:"owner_id,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// OrganizationList is the body of GET /api/orgs.
type OrganizationList struct {
	Count         int             `json:"count"`
	Organizations []*Organization `json:"organizations"`
}

// CreateOrganization is the body of POST /api/orgs. Name and Email are
// required.
type CreateOrganization struct {
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Description string            `json:"description,omitempty"`
	Phone       string            `json:"phone,omitempty"`
	Website     string            `json:"website,omitempty"`
	City        string            `json:"city,omitempty"`
	Country     string            `json:"country,omitempty"`
	SocialLinks map[string]string `json:"social_links,omitempty"`
}

// OrganizationCreated is the body returned by POST /api/orgs.
type OrganizationCreated struct {
	Message      string        `json:"message"`
	Organization *Organization `json:"organization"`
}

// UpdateOrganization is the body of PUT and PATCH /api/orgs/{id}. Only the
// fields that are set are sent.
type UpdateOrganization struct {
	Name        *string           `json:"name,omitempty"`
	Email       *string           `json:"email,omitempty"`
	Description *string           `json:"description,omitempty"`
	Phone       *string           `json:"phone,omitempty"`
	Website     *string           `json:"website,omitempty"`
	City        *string           `json:"city,omitempty"`
	Country     *string           `json:"country,omitempty"`
	SocialLinks map[string]string `json:"social_links,omitempty"`
}

// OrganizationUpdated is the body returned by PUT and PATCH /api/orgs/{id}.
type OrganizationUpdated struct {
	Message      string        `json:"message"`
	Organization *Organization `json:"organization"`
}

type MemberRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OrgMembers is the body of GET /api/orgs/{id}/members. Owner is nil for
// organizations without one.
type OrgMembers struct {
	Owner   *MemberRef  `json:"owner"`
	Admins  []MemberRef `json:"admins"`
	Members []MemberRef `json:"members"`
}

// AddMember is the body of POST /api/orgs/{id}/members.
type AddMember struct {
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
}

// Message is the {"message": ...} body of mutations without a payload.
type Message struct {
	Message string `json:"message"`
}
