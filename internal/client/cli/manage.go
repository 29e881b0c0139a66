package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/thonhub/thonhub/internal/client/models"
)

// orgID resolves a UUID or a slug to an organization id.
func (a *App) orgID(ctx context.Context, ref string) (string, error) {
	if _, err := uuid.Parse(ref); err == nil {
		return ref, nil
	}
	org, err := a.orgs.GetBySlug(ctx, ref)
	if err != nil {
		return "", err
	}
	return org.ID, nil
}

// parseOrgUpdate turns key=value pairs into an update body.
func parseOrgUpdate(pairs []string) (models.UpdateOrganization, error) {
	var in models.UpdateOrganization
	if len(pairs) == 0 {
		return in, errors.New("nothing to update")
	}
	for _, kv := range pairs {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return in, fmt.Errorf("expected key=value, got %q", kv)
		}
		v := value
		switch key {
		case "name":
			in.Name = &v
		case "email":
			in.Email = &v
		case "description":
			in.Description = &v
		case "phone":
			in.Phone = &v
		case "website":
			in.Website = &v
		case "city":
			in.City = &v
		case "country":
			in.Country = &v
		default:
			return in, fmt.Errorf("unknown field %q", key)
		}
	}
	return in, nil
}

// OrgUpdate patches an organization, or replaces the given fields with PUT
// when -put is set.
func (a *App) OrgUpdate(ctx context.Context, args []string) error {
	const usage = "usage: org-update [-put] <id|slug> field=value..."

	fs := flag.NewFlagSet("org-update", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	put := fs.Bool("put", false, "send PUT instead of PATCH")
	if err := fs.Parse(args); err != nil || fs.NArg() < 2 {
		return errors.New(usage)
	}
	if !a.auth.IsAuthenticated(ctx) {
		return ErrNotLoggedIn
	}

	in, err := parseOrgUpdate(fs.Args()[1:])
	if err != nil {
		return fmt.Errorf("%s: %w", usage, err)
	}
	id, err := a.orgID(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	update := a.orgs.Update
	if *put {
		update = a.orgs.Replace
	}
	org, err := update(ctx, id, in)
	if err != nil {
		return err
	}
	a.printf("Updated %s (%s)\n", org.Name, org.Slug)
	return nil
}

func (a *App) OrgDelete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: org-delete <id|slug>")
	}
	if !a.auth.IsAuthenticated(ctx) {
		return ErrNotLoggedIn
	}

	id, err := a.orgID(ctx, args[0])
	if err != nil {
		return err
	}
	msg, err := a.orgs.Delete(ctx, id)
	if err != nil {
		return err
	}
	a.println(msg)
	return nil
}

func (a *App) Members(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: members <id|slug>")
	}

	id, err := a.orgID(ctx, args[0])
	if err != nil {
		return err
	}
	m, err := a.orgs.Members(ctx, id)
	if err != nil {
		return err
	}

	a.writeTable(func(w io.Writer) {
		fmt.Fprintln(w, "ROLE\tNAME\tID")
		if m.Owner != nil {
			fmt.Fprintf(w, "owner\t%s\t%s\n", m.Owner.Name, m.Owner.ID)
		}
		for _, r := range m.Admins {
			fmt.Fprintf(w, "admin\t%s\t%s\n", r.Name, r.ID)
		}
		for _, r := range m.Members {
			fmt.Fprintf(w, "member\t%s\t%s\n", r.Name, r.ID)
		}
	})
	return nil
}

func (a *App) MemberAdd(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return errors.New("usage: member-add <org> <user-id> [admin|member]")
	}
	if !a.auth.IsAuthenticated(ctx) {
		return ErrNotLoggedIn
	}

	in := models.AddMember{UserID: args[1]}
	if len(args) == 3 {
		in.Role = args[2]
	}

	id, err := a.orgID(ctx, args[0])
	if err != nil {
		return err
	}
	msg, err := a.orgs.AddMember(ctx, id, in)
	if err != nil {
		return err
	}
	a.println(msg)
	return nil
}

func (a *App) MemberRemove(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: member-rm <org> <user-id>")
	}
	if !a.auth.IsAuthenticated(ctx) {
		return ErrNotLoggedIn
	}

	id, err := a.orgID(ctx, args[0])
	if err != nil {
		return err
	}
	msg, err := a.orgs.RemoveMember(ctx, id, args[1])
	if err != nil {
		return err
	}
	a.println(msg)
	return nil
}
