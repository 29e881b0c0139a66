package orgmembers

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thonhub/thonhub/internal/common"
	"github.com/thonhub/thonhub/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*SQLiteRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db), mock
}

func TestGet(t *testing.T) {
	at := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(`FROM org_members WHERE org_id = \? AND user_id = \?`).WithArgs("o1", "u1").
			WillReturnRows(sqlmock.NewRows([]string{"org_id", "user_id", "role", "created_at"}).
				AddRow("o1", "u1", models.RoleAdmin, at.UnixMilli()))

		m, err := repo.Get(context.Background(), "o1", "u1")
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, m.Role)
		assert.Equal(t, at, m.CreatedAt)
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(`FROM org_members`).WithArgs("o1", "ghost").WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(context.Background(), "o1", "ghost")
		require.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestPut_Upserts(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	at := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`(?s)INSERT INTO org_members .*ON CONFLICT \(org_id, user_id\) DO UPDATE SET role = excluded.role`).
		WithArgs("o1", "u1", models.RoleMember, at.UnixMilli()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO org_members`).WillReturnError(errors.New("readonly"))

	require.NoError(t, repo.Put(context.Background(), &models.OrgMember{OrgID: "o1", UserID: "u1", Role: models.RoleMember, CreatedAt: at}))
	require.ErrorContains(t, repo.Put(context.Background(), &models.OrgMember{OrgID: "o1", UserID: "u2", Role: models.RoleAdmin}), "db error: readonly")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemove(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`DELETE FROM org_members WHERE org_id = \? AND user_id = \?`).WithArgs("o1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM org_members`).WithArgs("o1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Remove(context.Background(), "o1", "u1"))
	require.ErrorIs(t, repo.Remove(context.Background(), "o1", "u1"), common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_NamesFromUsers(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	at := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"org_id", "user_id", "role", "created_at", "first_name", "last_name", "username"}).
		AddRow("o1", "u1", models.RoleAdmin, at.UnixMilli(), "Grace", "Hopper", "grace").
		AddRow("o1", "u2", models.RoleMember, at.Add(time.Minute).UnixMilli(), "", "", "linus")
	mock.ExpectQuery(`(?s)FROM org_members m JOIN users u .*WHERE m.org_id = \?`).WithArgs("o1").WillReturnRows(rows)

	got, err := repo.List(context.Background(), "o1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Grace Hopper", got[0].Name)
	assert.Equal(t, "linus", got[1].Name)
	assert.Equal(t, models.RoleMember, got[1].Role)
}
