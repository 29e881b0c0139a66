package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thonhub/thonhub/internal/common"
	"github.com/thonhub/thonhub/internal/dbx"
	"github.com/thonhub/thonhub/internal/logging"
	"github.com/thonhub/thonhub/internal/server/repositories/refreshtokens"
	"github.com/thonhub/thonhub/internal/server/repositories/repomanager"
)

func register(t *testing.T, f *fixture) {
	t.Helper()
	_, err := f.users.Register(context.Background(), RegisterInput{
		Email: "ada@thonhub.dev", Username: "ada", Password: "s3cret", FirstName: "Ada",
	})
	require.NoError(t, err)
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	register(t, f)

	_, err := f.users.Register(ctx, RegisterInput{Email: "ADA@thonhub.dev", Username: "other", Password: "x"})
	require.ErrorIs(t, err, common.ErrAlreadyExists)

	_, err = f.users.Register(ctx, RegisterInput{Email: "x@y.z", Username: " ", Password: "x"})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	register(t, f)

	pair, user, err := f.users.Login(ctx, " ada@thonhub.dev ", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Len(t, pair.RefreshToken, 36)

	id, err := f.users.Authenticate(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	me, err := f.users.Me(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ada", me.FirstName)

	tests := []struct {
		name, email, password string
		want                  error
	}{
		{"wrong password", "ada@thonhub.dev", "nope", common.ErrInvalidCredentials},
		{"unknown email", "bob@thonhub.dev", "s3cret", common.ErrInvalidCredentials},
		{"missing password", "ada@thonhub.dev", "", common.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.users.Login(ctx, tt.email, tt.password)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUserService_RefreshRotates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	register(t, f)

	first, _, err := f.users.Login(ctx, "ada@thonhub.dev", "s3cret")
	require.NoError(t, err)

	second, err := f.users.RefreshToken(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = f.users.RefreshToken(ctx, first.RefreshToken)
	require.ErrorIs(t, err, common.ErrInvalidToken, "a redeemed token must not be accepted twice")

	third, err := f.users.RefreshToken(ctx, second.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, third.AccessToken)

	_, err = f.users.RefreshToken(ctx, "")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestUserService_RefreshExpired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	register(t, f)

	pair, _, err := f.users.Login(ctx, "ada@thonhub.dev", "s3cret")
	require.NoError(t, err)

	f.users.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = f.users.RefreshToken(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, common.ErrRefreshTokenExpired)
}

func TestUserService_MeNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.Me(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUserService_AuthenticateRejectsGarbage(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.Authenticate("garbage")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

type warnRecorder struct {
	logging.Nop
	mu    sync.Mutex
	warns []string
}

func (w *warnRecorder) Warn(_ context.Context, msg string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.warns = append(w.warns, fmt.Sprint(append([]any{msg}, args...)...))
}

func (w *warnRecorder) With(...any) logging.Logger { return w }

type failingPurge struct {
	refreshtokens.Repository
}

func (failingPurge) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, errors.New("disk I/O error")
}

type purgeFailsManager struct {
	*repomanager.SQLiteRepositoryManager
}

func (m purgeFailsManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return failingPurge{Repository: m.SQLiteRepositoryManager.RefreshTokens(db)}
}

func TestUserService_LoginLogsPurgeFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	register(t, f)

	rec := &warnRecorder{}
	svc := NewUserService(f.db, purgeFailsManager{f.rm}, f.cfg, rec)

	pair, _, err := svc.Login(ctx, "ada@thonhub.dev", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.RefreshToken)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.warns, 1)
	assert.Contains(t, rec.warns[0], "purge expired refresh tokens")
	assert.Contains(t, rec.warns[0], "disk I/O error")
}
