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
	Address         string            `json:"address,omitempty"`
	City            string            `json:"city,omitempty"`
	State           string            `json:"state,omitempty"`
	Country         string            `json:"country,omitempty"`
	PostalCode      string            `json:"postal_code,omitempty"`
	SocialLinks     map[string]string `json:"social_links,omitempty"`
	IsVerified      bool              `json:"is_verified"`
	IsActive        bool              `json:"is_active"`
	HackathonsCount int               `json:"hackathons_count"`
	OwnerID         string            `json:"owner_id,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// OrgFilter narrows an organization listing. A nil Verified matches both.
type OrgFilter struct {
	Verified *bool
	Limit    int
	Skip     int
}

// Organization roles besides the owner, who is kept on the organization.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// OrgMember is a user's role in an organization. Name is filled in from
// the user record when memberships are listed.
type OrgMember struct {
	OrgID     string
	UserID    string
	Role      string
	Name      string
	CreatedAt time.Time
}

type MemberRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OrgMembers is the public roster of an organization.
type OrgMembers struct {
	Owner   *MemberRef  `json:"owner"`
	Admins  []MemberRef `json:"admins"`
	Members []MemberRef `json:"members"`
}
