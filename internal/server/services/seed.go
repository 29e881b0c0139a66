package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/thonhub/thonhub/internal/common"
	"github.com/thonhub/thonhub/internal/server/models"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "hackathon"

// DemoUsers are created on start so the terminal client can log in.
var DemoUsers = []RegisterInput{
	{Email: "ada@thonhub.dev", Username: "ada", Password: DemoPassword, FirstName: "Ada", LastName: "Lovelace",
		Bio: "Analytical engines and hackathons.", Skills: []string{"Python", "Machine Learning"}},
	{Email: "grace@thonhub.dev", Username: "grace", Password: DemoPassword, FirstName: "Grace", LastName: "Hopper",
		Skills: []string{"Java", "SQL", "Docker"}},
}

func demoOrgs() []*models.Organization {
	return []*models.Organization{
		{Name: "ThonHub Community", Email: "hello@thonhub.dev", Description: "Runs the ThonHub flagship events.",
			Website: "https://thonhub.dev", City: "Riga", Country: "Latvia", IsVerified: true, IsActive: true,
			HackathonsCount: 2, SocialLinks: map[string]string{"github": "https://github.com/thonhub"}},
		{Name: "Open Source Guild", Email: "guild@example.org", Description: "Weekend hack nights for OSS maintainers.",
			City: "Berlin", Country: "Germany", IsActive: true, HackathonsCount: 1},
	}
}

// demoOwners maps seeded organizations to the email of their owner.
var demoOwners = map[string]string{
	"ThonHub Community": "ada@thonhub.dev",
	"Open Source Guild": "grace@thonhub.dev",
}

func demoHackathons(base time.Time) []*models.Hackathon {
	day := 24 * time.Hour
	return []*models.Hackathon{
		{Name: "ThonHub Global 2025", Slug: "thonhub-global-2025", Tagline: "48 hours, one planet",
			Theme: "Climate", Mode: "hybrid", Location: "Riga", Organization: "ThonHub Community",
			Tracks: []string{"AI", "Sustainability", "Open Data"},
			Prizes: []models.Prize{
				{Position: "1st", Title: "Grand Prize", Amount: 5000, Currency: "USD"},
				{Position: "2nd", Title: "Runner Up", Amount: 2000, Currency: "USD"},
			},
			StartsAt: base.Add(14 * day), EndsAt: base.Add(16 * day)},
		{Name: "Hack the Guild", Slug: "hack-the-guild", Tagline: "Ship a patch upstream",
			Mode: "online", Organization: "Open Source Guild", Tracks: []string{"Tooling"},
			StartsAt: base.Add(30 * day), EndsAt: base.Add(31 * day)},
		{Name: "Campus Sprint", Slug: "campus-sprint", Mode: "offline", Location: "Tartu",
			Organization: "ThonHub Community",
			Prizes:       []models.Prize{{Position: "1st", Title: "Best Demo", Amount: 500, Currency: "EUR"}},
			StartsAt:     base.Add(45 * day), EndsAt: base.Add(46 * day)},
	}
}

// Seed loads the demo accounts, organizations and hackathons. It is safe
// to call on a database that already holds them.
func Seed(ctx context.Context, users *UserService, orgs *OrgService, hackathons *HackathonService) error {
	for _, in := range DemoUsers {
		if _, err := users.Register(ctx, in); err != nil && !errors.Is(err, common.ErrAlreadyExists) {
			return fmt.Errorf("seed user %s: %w", in.Email, err)
		}
	}
	for _, o := range demoOrgs() {
		if email, ok := demoOwners[o.Name]; ok {
			owner, err := users.repomanager.Users(users.db).GetByEmail(ctx, email)
			if err != nil {
				return fmt.Errorf("seed owner %s: %w", email, err)
			}
			o.OwnerID = owner.ID
		}
		if err := orgs.Import(ctx, o); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	base := time.Now().UTC().Truncate(24 * time.Hour)
	if err := hackathons.Put(ctx, demoHackathons(base)...); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}
