package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thonhub/thonhub/internal/common"
	"github.com/thonhub/thonhub/internal/server/models"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"ThonHub Community":     "thonhub-community",
		"  --Open   Source!! ":  "open-source",
		"C++ & Go Meetup 2025":  "c-go-meetup-2025",
		"Café Tech":             "caf-tech",
		"!!!":                   "",
		"already-a-slug":        "already-a-slug",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestOrgService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	org, err := f.orgs.Create(ctx, "u1", CreateOrgInput{Name: "  Acme Labs ", Email: "hi@acme.io", City: "Riga"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Labs", org.Name)
	assert.Equal(t, "acme-labs", org.Slug)
	assert.True(t, org.IsActive)
	assert.False(t, org.IsVerified)
	assert.Equal(t, "u1", org.OwnerID)

	got, err := f.orgs.GetBySlug(ctx, "acme-labs")
	require.NoError(t, err)
	assert.Equal(t, org.ID, got.ID)

	got, err = f.orgs.Get(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, "Riga", got.City)

	tests := []struct {
		name string
		in   CreateOrgInput
		want error
		msg  string
	}{
		{"no name", CreateOrgInput{Email: "a@b.c"}, common.ErrValidation, "Organization name is required"},
		{"no email", CreateOrgInput{Name: "X"}, common.ErrValidation, "Organization email is required"},
		{"symbols only", CreateOrgInput{Name: "???", Email: "a@b.c"}, common.ErrValidation, "Organization name must contain letters or digits"},
		{"duplicate name", CreateOrgInput{Name: "acme labs", Email: "other@acme.io"}, common.ErrAlreadyExists, "Organization with this name or email already exists"},
		{"duplicate email", CreateOrgInput{Name: "Acme 2", Email: "HI@acme.io"}, common.ErrAlreadyExists, "Organization with this name or email already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.orgs.Create(ctx, "u1", tt.in)
			require.ErrorIs(t, err, tt.want)
			assert.EqualError(t, err, tt.msg)
		})
	}
}

func TestOrgService_ListAndImport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, o := range demoOrgs() {
		require.NoError(t, f.orgs.Import(ctx, o))
	}
	require.NoError(t, f.orgs.Import(ctx, demoOrgs()[0]))

	all, err := f.orgs.List(ctx, models.OrgFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	verified := true
	v, err := f.orgs.List(ctx, models.OrgFilter{Verified: &verified})
	require.NoError(t, err)
	require.Len(t, v, 1)
	assert.Equal(t, "thonhub-community", v[0].Slug)

	page, err := f.orgs.List(ctx, models.OrgFilter{Limit: 1, Skip: 1})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	_, err = f.orgs.Get(ctx, "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.EqualError(t, err, "Organization not found")
}

func TestSeed_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, Seed(ctx, f.users, f.orgs, f.hackathons))
	require.NoError(t, Seed(ctx, f.users, f.orgs, f.hackathons))

	hs, err := f.hackathons.List(ctx)
	require.NoError(t, err)
	require.Len(t, hs, 3)
	assert.Equal(t, "thonhub-global-2025", hs[0].Slug)

	_, _, err = f.users.Login(ctx, "grace@thonhub.dev", DemoPassword)
	require.NoError(t, err)

	org, err := f.orgs.GetBySlug(ctx, "thonhub-community")
	require.NoError(t, err)
	members, err := f.orgs.Members(ctx, org.ID)
	require.NoError(t, err)
	require.NotNil(t, members.Owner)
	assert.Equal(t, "Ada Lovelace", members.Owner.Name)
}

type orgCast struct {
	org                 *models.Organization
	owner, admin, other string
}

// newOrgCast creates an organization owned by ada with grace as admin and
// linus without any role.
func newOrgCast(t *testing.T, f *fixture) orgCast {
	t.Helper()
	ctx := context.Background()

	ids := map[string]string{}
	for _, in := range []RegisterInput{
		{Email: "ada@thonhub.dev", Username: "ada", Password: "x", FirstName: "Ada", LastName: "Lovelace"},
		{Email: "grace@thonhub.dev", Username: "grace", Password: "x", FirstName: "Grace"},
		{Email: "linus@thonhub.dev", Username: "linus", Password: "x"},
	} {
		u, err := f.users.Register(ctx, in)
		require.NoError(t, err)
		ids[in.Username] = u.ID
	}

	org, err := f.orgs.Create(ctx, ids["ada"], CreateOrgInput{Name: "Acme Labs", Email: "hi@acme.io"})
	require.NoError(t, err)
	role, err := f.orgs.AddMember(ctx, ids["ada"], org.ID, AddMemberInput{UserID: ids["grace"], Role: "admin"})
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, role)

	return orgCast{org: org, owner: ids["ada"], admin: ids["grace"], other: ids["linus"]}
}

func ptr[T any](v T) *T { return &v }

func TestOrgService_Update(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := newOrgCast(t, f)
	f.orgs.now = func() time.Time { return c.org.CreatedAt.Add(time.Hour) }

	org, err := f.orgs.Update(ctx, c.admin, c.org.ID, UpdateOrgInput{
		Name: ptr("Acme Research"), City: ptr("Tartu"), SocialLinks: &map[string]string{"x": "acme"},
	})
	require.NoError(t, err)
	assert.Equal(t, "acme-research", org.Slug)
	assert.Equal(t, "hi@acme.io", org.Email)
	assert.Equal(t, c.org.CreatedAt.Add(time.Hour), org.UpdatedAt)

	got, err := f.orgs.GetBySlug(ctx, "acme-research")
	require.NoError(t, err)
	assert.Equal(t, "Tartu", got.City)
	assert.Equal(t, "acme", got.SocialLinks["x"])
	assert.Equal(t, c.owner, got.OwnerID)

	_, err = f.orgs.Create(ctx, c.owner, CreateOrgInput{Name: "Other", Email: "other@acme.io"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		actor string
		id    string
		in    UpdateOrgInput
		want  error
		msg   string
	}{
		{"plain user", c.other, c.org.ID, UpdateOrgInput{City: ptr("x")}, common.ErrForbidden, "You do not have permission to update this organization"},
		{"anonymous", "", c.org.ID, UpdateOrgInput{}, common.ErrForbidden, "You do not have permission to update this organization"},
		{"missing org", c.owner, "missing", UpdateOrgInput{}, common.ErrNotFound, "Organization not found"},
		{"blank name", c.owner, c.org.ID, UpdateOrgInput{Name: ptr("  ")}, common.ErrValidation, "Organization name is required"},
		{"blank email", c.owner, c.org.ID, UpdateOrgInput{Email: ptr("")}, common.ErrValidation, "Organization email is required"},
		{"taken name", c.owner, c.org.ID, UpdateOrgInput{Name: ptr("other")}, common.ErrAlreadyExists, "Organization with this name or email already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.orgs.Update(ctx, tt.actor, tt.id, tt.in)
			require.ErrorIs(t, err, tt.want)
			assert.EqualError(t, err, tt.msg)
		})
	}

	got, err = f.orgs.Get(ctx, c.org.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Research", got.Name)
}

func TestOrgService_DeleteOwnerOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := newOrgCast(t, f)

	err := f.orgs.Delete(ctx, c.admin, c.org.ID)
	require.ErrorIs(t, err, common.ErrForbidden)
	assert.EqualError(t, err, "Only the owner can delete this organization")

	require.NoError(t, f.orgs.Delete(ctx, c.owner, c.org.ID))

	_, err = f.orgs.Get(ctx, c.org.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
	require.ErrorIs(t, f.orgs.Delete(ctx, c.owner, c.org.ID), common.ErrNotFound)

	_, err = f.rm.OrgMembers(f.db).Get(ctx, c.org.ID, c.admin)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestOrgService_MemberRoles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := newOrgCast(t, f)

	_, err := f.orgs.AddMember(ctx, c.other, c.org.ID, AddMemberInput{UserID: c.other})
	require.ErrorIs(t, err, common.ErrForbidden)
	assert.EqualError(t, err, "You do not have permission to add members")

	role, err := f.orgs.AddMember(ctx, c.admin, c.org.ID, AddMemberInput{UserID: c.other, Role: "viewer"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, role)

	m, err := f.orgs.Members(ctx, c.org.ID)
	require.NoError(t, err)
	assert.Equal(t, &models.MemberRef{ID: c.owner, Name: "Ada Lovelace"}, m.Owner)
	assert.Equal(t, []models.MemberRef{{ID: c.admin, Name: "Grace"}}, m.Admins)
	assert.Equal(t, []models.MemberRef{{ID: c.other, Name: "linus"}}, m.Members)

	tests := []struct {
		name string
		in   AddMemberInput
		want error
		msg  string
	}{
		{"member again", AddMemberInput{UserID: c.other}, common.ErrValidation, "User already has this role"},
		{"admin as member", AddMemberInput{UserID: c.admin, Role: "member"}, common.ErrValidation, "User already has this role"},
		{"admin again", AddMemberInput{UserID: c.admin, Role: "admin"}, common.ErrValidation, "User already has this role"},
		{"unknown user", AddMemberInput{UserID: "ghost"}, common.ErrNotFound, "Organization or user not found"},
		{"no user", AddMemberInput{}, common.ErrValidation, "user_id is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.orgs.AddMember(ctx, c.owner, c.org.ID, tt.in)
			require.ErrorIs(t, err, tt.want)
			assert.EqualError(t, err, tt.msg)
		})
	}

	// Promoting a member keeps a single membership.
	_, err = f.orgs.AddMember(ctx, c.owner, c.org.ID, AddMemberInput{UserID: c.other, Role: "admin"})
	require.NoError(t, err)
	m, err = f.orgs.Members(ctx, c.org.ID)
	require.NoError(t, err)
	assert.Len(t, m.Admins, 2)
	assert.Empty(t, m.Members)

	err = f.orgs.RemoveMember(ctx, c.owner, "missing", c.other)
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.EqualError(t, err, "Organization or user not found")

	require.NoError(t, f.orgs.RemoveMember(ctx, c.admin, c.org.ID, c.other))
	err = f.orgs.RemoveMember(ctx, c.owner, c.org.ID, c.other)
	require.ErrorIs(t, err, common.ErrValidation)
	assert.EqualError(t, err, "User is not a member of this organization")

	// A removed admin loses the right to manage members.
	require.NoError(t, f.orgs.RemoveMember(ctx, c.owner, c.org.ID, c.admin))
	err = f.orgs.RemoveMember(ctx, c.admin, c.org.ID, c.owner)
	require.ErrorIs(t, err, common.ErrForbidden)
	assert.EqualError(t, err, "You do not have permission to remove members")
}

func TestOrgService_MembersOfUnownedOrg(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.orgs.Import(ctx, demoOrgs()[1]))

	org, err := f.orgs.GetBySlug(ctx, "open-source-guild")
	require.NoError(t, err)

	m, err := f.orgs.Members(ctx, org.ID)
	require.NoError(t, err)
	assert.Nil(t, m.Owner)
	assert.NotNil(t, m.Admins)
	assert.Empty(t, m.Members)

	_, err = f.orgs.Members(ctx, "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}
