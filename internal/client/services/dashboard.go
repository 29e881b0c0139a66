package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/thonhub/thonhub/internal/client/models"
)

// Dashboard is everything the landing screen shows after login.
type Dashboard struct {
	User          *models.User
	Organizations []*models.Organization
	Hackathons    []*models.Hackathon
}

type DashboardService struct {
	auth       AuthService
	orgs       OrgService
	hackathons HackathonService
}

func NewDashboardService(auth AuthService, orgs OrgService, hackathons HackathonService) *DashboardService {
	return &DashboardService{auth: auth, orgs: orgs, hackathons: hackathons}
}

// Load fetches the three sections concurrently. With an expired access
// token all three requests are served by a single refresh.
func (s *DashboardService) Load(ctx context.Context) (*Dashboard, error) {
	var d Dashboard

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		u, err := s.auth.Me(ctx)
		d.User = u
		return err
	})
	g.Go(func() error {
		list, err := s.orgs.List(ctx, ListOrgsParams{Limit: 10})
		if err != nil {
			return err
		}
		d.Organizations = list.Organizations
		return nil
	})
	g.Go(func() error {
		hs, err := s.hackathons.List(ctx)
		d.Hackathons = hs
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
