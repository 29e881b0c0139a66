// Package httpapi exposes the development backend over REST/JSON.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/thonhub/thonhub/internal/common"
	"github.com/thonhub/thonhub/internal/logging"
	"github.com/thonhub/thonhub/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

// Services groups the business logic the handlers call into.
type Services struct {
	Users      *services.UserService
	Orgs       *services.OrgService
	Hackathons *services.HackathonService
	Resume     *services.ResumeService
}

type Server struct {
	address    string
	users      *services.UserService
	orgs       *services.OrgService
	hackathons *services.HackathonService
	resume     *services.ResumeService
	logger     logging.Logger
	metrics    *Metrics
	maxUpload  int64
}

func NewServer(address string, l logging.Logger, svc Services, maxUpload int64) *Server {
	return &Server{
		address:    address,
		users:      svc.Users,
		orgs:       svc.Orgs,
		hackathons: svc.Hackathons,
		resume:     svc.Resume,
		logger:     l.With("module", "http_server"),
		metrics:    NewMetrics(),
		maxUpload:  maxUpload,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Post(common.LoginPath, s.login)
	r.Post(common.RefreshPath, s.refresh)
	r.Post("/api/auth/register", s.register)

	r.Get(common.OrgsPath, s.listOrgs)
	r.Get(common.OrgsPath+"/{id}", s.getOrg)
	r.Get(common.OrgsPath+"/slug/{slug}", s.getOrgBySlug)
	r.Get(common.OrgsPath+"/{id}/members", s.listOrgMembers)
	r.Get(common.HackathonsPath, s.listHackathons)

	r.Group(func(authed chi.Router) {
		authed.Use(s.requireUser)
		authed.Get(common.MePath, s.me)
		authed.Post(common.OrgsPath, s.createOrg)
		authed.Put(common.OrgsPath+"/{id}", s.updateOrg)
		authed.Patch(common.OrgsPath+"/{id}", s.updateOrg)
		authed.Delete(common.OrgsPath+"/{id}", s.deleteOrg)
		authed.Post(common.OrgsPath+"/{id}/members", s.addOrgMember)
		authed.Delete(common.OrgsPath+"/{id}/members/{userID}", s.removeOrgMember)
		authed.Post(common.ResumeUploadPath, s.uploadResume)
		authed.Post(common.ResumeAnalyzePath, s.analyzeResume)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve is Run over an existing listener.
func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
