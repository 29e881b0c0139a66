package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/thonhub/thonhub/internal/dbx"
	"github.com/thonhub/thonhub/internal/server/migrations"
	"github.com/thonhub/thonhub/internal/server/repositories/hackathons"
	"github.com/thonhub/thonhub/internal/server/repositories/orgmembers"
	"github.com/thonhub/thonhub/internal/server/repositories/orgs"
	"github.com/thonhub/thonhub/internal/server/repositories/refreshtokens"
	"github.com/thonhub/thonhub/internal/server/repositories/users"

	_ "modernc.org/sqlite"
)

type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Orgs(db dbx.DBTX) orgs.Repository {
	return orgs.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) OrgMembers(db dbx.DBTX) orgmembers.Repository {
	return orgmembers.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Hackathons(db dbx.DBTX) hackathons.Repository {
	return hackathons.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}

// OpenSQLite opens dsn with the pure-Go driver, enables foreign keys and
// migrates the schema. The single connection keeps ":memory:" coherent.
func OpenSQLite(ctx context.Context, dsn string, m RepositoryManager) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}
