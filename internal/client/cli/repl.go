package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests use a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Me(ctx context.Context) error
	Orgs(ctx context.Context, args []string) error
	Org(ctx context.Context, args []string) error
	OrgUpdate(ctx context.Context, args []string) error
	OrgDelete(ctx context.Context, args []string) error
	Members(ctx context.Context, args []string) error
	MemberAdd(ctx context.Context, args []string) error
	MemberRemove(ctx context.Context, args []string) error
	Hackathons(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Upload(ctx context.Context, args []string) error
	Analyze(ctx context.Context) error
	Get(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: login, status, orgs, org <id|slug>, members <org>, hackathons, analyze, get <path>, exit"
	helpLoggedIn  = "Available commands: me, dashboard, orgs [-verified] [-limit N] [-skip N], org <id|slug>, " +
		"org-update [-put] <org> field=value..., org-delete <org>, members <org>, " +
		"member-add <org> <user-id> [admin|member], member-rm <org> <user-id>, " +
		"hackathons, upload <file>, analyze, get <path>, status, logout, exit"
)

// runREPL reads commands line by line and dispatches them to a. Command
// errors are reported to the user and never end the loop; EOF, "exit" and
// "quit" do.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, printf func(string, ...any)) {
	for {
		printf("thonhub%s> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			printf("\n")
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printf("%s\n", helpLoggedIn)
			} else {
				printf("%s\n", helpLoggedOut)
			}
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "status":
			cmdErr = a.Status(ctx)
		case "me":
			cmdErr = a.Me(ctx)
		case "orgs":
			cmdErr = a.Orgs(ctx, args)
		case "org":
			cmdErr = a.Org(ctx, args)
		case "org-update":
			cmdErr = a.OrgUpdate(ctx, args)
		case "org-delete":
			cmdErr = a.OrgDelete(ctx, args)
		case "members":
			cmdErr = a.Members(ctx, args)
		case "member-add":
			cmdErr = a.MemberAdd(ctx, args)
		case "member-rm":
			cmdErr = a.MemberRemove(ctx, args)
		case "hackathons", "h":
			cmdErr = a.Hackathons(ctx)
		case "dashboard", "d":
			cmdErr = a.Dashboard(ctx)
		case "upload":
			cmdErr = a.Upload(ctx, args)
		case "analyze":
			cmdErr = a.Analyze(ctx)
		case "get":
			cmdErr = a.Get(ctx, args)
		case "exit", "quit":
			printf("Bye!\n")
			return
		default:
			printf("Unknown command: %s\n", cmd)
		}

		if cmdErr != nil {
			printf("error: %s\n", cmdErr)
		}
	}
}
