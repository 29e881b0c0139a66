// Package server wires the development backend: it opens the in-memory
// database, seeds demo data, picks a resume blob store and runs the HTTP
// API until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/thonhub/thonhub/internal/logging"
	"github.com/thonhub/thonhub/internal/server/blob"
	"github.com/thonhub/thonhub/internal/server/config"
	"github.com/thonhub/thonhub/internal/server/httpapi"
	"github.com/thonhub/thonhub/internal/server/repositories/repomanager"
	"github.com/thonhub/thonhub/internal/server/services"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	services httpapi.Services
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, c.LogLevel, true)

	rm := repomanager.NewSQLiteRepositoryManager()
	db, err := repomanager.OpenSQLite(ctx, c.DatabaseDSN, rm)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	store, err := newBlobStore(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	svc := httpapi.Services{
		Users:      services.NewUserService(db, rm, c, logger),
		Orgs:       services.NewOrgService(db, rm),
		Hackathons: services.NewHackathonService(db, rm),
		Resume:     services.NewResumeService(store, c.MaxUploadSize),
	}

	if err := services.Seed(ctx, svc.Users, svc.Orgs, svc.Hackathons); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{config: c, logger: logger, db: db, services: svc}, nil
}

func newBlobStore(ctx context.Context, c *config.Config) (blob.Store, error) {
	if !c.UseS3() {
		return blob.NewFSStore(c.UploadDir)
	}

	s, err := blob.NewS3Store(ctx, blob.S3Config{
		User:         c.S3RootUser,
		Password:     c.S3RootPassword,
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
	})
	if err != nil {
		return nil, err
	}
	if err := s.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run blocks until the server stops. A signal triggers graceful shutdown.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.db.Close()

	app.initSignalHandler(cancelFunc)

	store := "fs"
	if app.config.UseS3() {
		store = "s3"
	}
	app.logger.Info(ctx, "Starting devserver...", "addr", app.config.HTTPAddr, "dsn", app.config.DatabaseDSN, "blob", store)

	s := httpapi.NewServer(app.config.HTTPAddr, app.logger, app.services, app.config.MaxUploadSize)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
		return err
	}

	app.logger.Info(ctx, "devserver stopped")
	return nil
}
