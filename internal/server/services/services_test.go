package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/thonhub/thonhub/internal/logging"
	"github.com/thonhub/thonhub/internal/server/config"
	"github.com/thonhub/thonhub/internal/server/repositories/repomanager"
)

type fixture struct {
	db         *sql.DB
	cfg        *config.Config
	rm         *repomanager.SQLiteRepositoryManager
	users      *UserService
	orgs       *OrgService
	hackathons *HackathonService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rm := repomanager.NewSQLiteRepositoryManager()
	db, err := repomanager.OpenSQLite(context.Background(), ":memory:", rm)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.AccessTokenValidity = time.Minute
	cfg.RefreshTokenValidity = time.Hour

	return &fixture{
		db:         db,
		cfg:        cfg,
		rm:         rm,
		users:      NewUserService(db, rm, cfg, logging.Nop{}),
		orgs:       NewOrgService(db, rm),
		hackathons: NewHackathonService(db, rm),
	}
}
