// Package repomanager hands out repositories bound to either the database
// handle or an open transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/thonhub/thonhub/internal/dbx"
	"github.com/thonhub/thonhub/internal/server/repositories/hackathons"
	"github.com/thonhub/thonhub/internal/server/repositories/orgmembers"
	"github.com/thonhub/thonhub/internal/server/repositories/orgs"
	"github.com/thonhub/thonhub/internal/server/repositories/refreshtokens"
	"github.com/thonhub/thonhub/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Orgs(db dbx.DBTX) orgs.Repository
	OrgMembers(db dbx.DBTX) orgmembers.Repository
	Hackathons(db dbx.DBTX) hackathons.Repository
}
