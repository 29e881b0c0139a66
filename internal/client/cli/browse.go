package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/thonhub/thonhub/internal/client/models"
	"github.com/thonhub/thonhub/internal/client/services"
)

func (a *App) Orgs(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("orgs", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	verified := fs.Bool("verified", false, "only verified organizations")
	limit := fs.Int("limit", 20, "page size")
	skip := fs.Int("skip", 0, "offset")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("usage: orgs [-verified] [-limit N] [-skip N]: %w", err)
	}

	params := services.ListOrgsParams{Limit: *limit, Skip: *skip}
	if *verified {
		params.Verified = verified
	}

	list, err := a.orgs.List(ctx, params)
	if err != nil {
		return err
	}

	if len(list.Organizations) == 0 {
		a.println("No organizations found")
		return nil
	}

	a.writeTable(func(w io.Writer) {
		fmt.Fprintln(w, "ID\tNAME\tSLUG\tVERIFIED\tCITY")
		for _, o := range list.Organizations {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n", o.ID, o.Name, o.Slug, o.IsVerified, o.City)
		}
	})
	return nil
}

// Org looks an organization up by id when the argument is a UUID and by
// slug otherwise.
func (a *App) Org(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: org <id|slug>")
	}

	var (
		org *models.Organization
		err error
	)
	if _, perr := uuid.Parse(args[0]); perr == nil {
		org, err = a.orgs.Get(ctx, args[0])
	} else {
		org, err = a.orgs.GetBySlug(ctx, args[0])
	}
	if err != nil {
		return err
	}

	a.printf("%s (%s)\n", org.Name, org.Slug)
	a.printf("ID:       %s\nEmail:    %s\nVerified: %t\nEvents:   %d\n", org.ID, org.Email, org.IsVerified, org.HackathonsCount)
	if org.Website != "" {
		a.printf("Website:  %s\n", org.Website)
	}
	if org.Description != "" {
		a.printf("\n%s\n", org.Description)
	}
	return nil
}

func (a *App) Hackathons(ctx context.Context) error {
	list, err := a.hackathons.List(ctx)
	if err != nil {
		return err
	}
	a.printHackathons(list)
	return nil
}

func (a *App) printHackathons(list []*models.Hackathon) {
	if len(list) == 0 {
		a.println("No hackathons found")
		return
	}
	a.writeTable(func(w io.Writer) {
		fmt.Fprintln(w, "NAME\tMODE\tSTARTS\tPRIZES")
		for _, h := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\n", h.Name, h.Mode, h.StartsAt.Format("2006-01-02"), h.TotalPrize())
		}
	})
}

func (a *App) Dashboard(ctx context.Context) error {
	if !a.auth.IsAuthenticated(ctx) {
		return ErrNotLoggedIn
	}

	d, err := a.dashboard.Load(ctx)
	if err != nil {
		return err
	}

	a.setUser(d.User.DisplayName())
	a.printf("Welcome back, %s!\n\n", d.User.DisplayName())
	a.printf("Organizations (%d):\n", len(d.Organizations))
	for _, o := range d.Organizations {
		a.printf("  - %s\n", o.Name)
	}
	a.printf("\nUpcoming hackathons (%d):\n", len(d.Hackathons))
	a.printHackathons(d.Hackathons)
	return nil
}

// Get issues an authenticated GET and pretty-prints the JSON response.
func (a *App) Get(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: get <path>")
	}

	resp, err := a.pipeline.Get(ctx, args[0], nil)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, resp.Body, "", "  "); err != nil {
		a.println(string(resp.Body))
		return nil
	}
	a.println(buf.String())
	return nil
}

func (a *App) writeTable(fn func(w io.Writer)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fn(tw)
	_ = tw.Flush()
}
