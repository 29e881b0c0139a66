package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/thonhub/thonhub/internal/client/api"
	"github.com/thonhub/thonhub/internal/client/config"
	"github.com/thonhub/thonhub/internal/client/services"
	"github.com/thonhub/thonhub/internal/client/tokenstore"
	"github.com/thonhub/thonhub/internal/logging"
)

type App struct {
	config     *config.Config
	log        logging.Logger
	pipeline   *api.Pipeline
	auth       services.AuthService
	orgs       services.OrgService
	hackathons services.HackathonService
	resume     services.ResumeService
	dashboard  *services.DashboardService

	reader *bufio.Reader
	out    io.Writer

	mu       sync.Mutex
	userName string

	closeFn func() error
}

// NewApp opens the credential database named in c and builds the pipeline
// and services on top of it. Call Close when done.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {

	store, db, err := tokenstore.Open(ctx, c.CredentialsDB)
	if err != nil {
		log.Error(ctx, "error initializing credential store", "path", c.CredentialsDB, "error", err)
		return nil, err
	}

	p := api.New(api.Config{BaseURL: c.APIBaseURL, Timeout: c.RequestTimeout}, store, api.WithLogger(log))

	a := newApp(p, bufio.NewReader(os.Stdin), os.Stdout, log)
	a.config = c
	a.closeFn = db.Close
	return a, nil
}

func newApp(p *api.Pipeline, in *bufio.Reader, out io.Writer, log logging.Logger) *App {
	auth := services.NewAuthService(p)
	orgs := services.NewOrgService(p)
	hackathons := services.NewHackathonService(p)

	return &App{
		log:        log,
		pipeline:   p,
		auth:       auth,
		orgs:       orgs,
		hackathons: hackathons,
		resume:     services.NewResumeService(p),
		dashboard:  services.NewDashboardService(auth, orgs, hackathons),
		reader:     in,
		out:        out,
	}
}

func (a *App) Close() error {
	if a.closeFn == nil {
		return nil
	}
	return a.closeFn()
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.auth.IsAuthenticated(context.Background())
}

func (a *App) setUser(name string) {
	a.mu.Lock()
	a.userName = name
	a.mu.Unlock()
}

func (a *App) getStatus() string {
	a.mu.Lock()
	name := a.userName
	a.mu.Unlock()

	switch {
	case name != "":
		return "(" + name + ")"
	case a.isLoggedIn():
		return "(logged in)"
	}
	return ""
}

// printf serialises output between the REPL and the session watcher.
func (a *App) printf(format string, args ...any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintln(a.out, args...)
}

// WatchSession prints a notice every time the pipeline gives up on the
// stored credentials.
func (a *App) WatchSession(ctx context.Context, events <-chan api.SessionEvent) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			a.setUser("")
			a.log.Info(ctx, "session expired", "reason", ev.Reason)
			a.println()
			a.println("Your session has expired (" + ev.Reason + "). Please log in again.")
		case <-ctx.Done():
			return
		}
	}
}
