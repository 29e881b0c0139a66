package tokenstore

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thonhub/thonhub/internal/common"
)

func newSQLite(t *testing.T) Store {
	t.Helper()
	s, db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return s
}

// storeFactories runs every contract test against both implementations.
var storeFactories = map[string]func(t *testing.T) Store{
	"memory": func(*testing.T) Store { return NewMemoryStore() },
	"sqlite": newSQLite,
}

func TestStore_EmptyMeansLoggedOut(t *testing.T) {
	for name, mk := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := mk(t)
			ctx := context.Background()

			access, err := s.AccessToken(ctx)
			require.NoError(t, err)
			assert.Empty(t, access)

			refresh, err := s.RefreshToken(ctx)
			require.NoError(t, err)
			assert.Empty(t, refresh)

			assert.False(t, IsAuthenticated(ctx, s))
			assert.Empty(t, AuthHeader(ctx, s))
		})
	}
}

func TestStore_SetAndGet(t *testing.T) {
	for name, mk := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := mk(t)
			ctx := context.Background()

			require.NoError(t, s.SetAccessToken(ctx, "A1"))
			require.NoError(t, s.SetRefreshToken(ctx, "R1"))

			p, err := LoadPair(ctx, s)
			require.NoError(t, err)
			assert.Equal(t, Pair{AccessToken: "A1", RefreshToken: "R1"}, p)

			assert.True(t, IsAuthenticated(ctx, s))
			assert.Equal(t, "Bearer A1", AuthHeader(ctx, s).Get(common.AuthorizationHeader))
		})
	}
}

func TestStore_EmptyValueDeletesKey(t *testing.T) {
	for name, mk := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := mk(t)
			ctx := context.Background()

			require.NoError(t, s.SetPair(ctx, Pair{AccessToken: "A", RefreshToken: "R"}))
			require.NoError(t, s.SetAccessToken(ctx, ""))

			p, err := LoadPair(ctx, s)
			require.NoError(t, err)
			assert.Equal(t, Pair{RefreshToken: "R"}, p)
			assert.False(t, IsAuthenticated(ctx, s))
		})
	}
}

func TestStore_SetPairOverwrites(t *testing.T) {
	for name, mk := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := mk(t)
			ctx := context.Background()

			require.NoError(t, s.SetPair(ctx, Pair{AccessToken: "A1", RefreshToken: "R1"}))
			require.NoError(t, s.SetPair(ctx, Pair{AccessToken: "A2", RefreshToken: "R2"}))

			p, err := LoadPair(ctx, s)
			require.NoError(t, err)
			assert.Equal(t, Pair{AccessToken: "A2", RefreshToken: "R2"}, p)
		})
	}
}

func TestStore_Clear(t *testing.T) {
	for name, mk := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := mk(t)
			ctx := context.Background()

			require.NoError(t, s.SetPair(ctx, Pair{AccessToken: "A", RefreshToken: "R"}))
			require.NoError(t, s.Clear(ctx))
			require.NoError(t, s.Clear(ctx))

			p, err := LoadPair(ctx, s)
			require.NoError(t, err)
			assert.Equal(t, Pair{}, p)
		})
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	for name, mk := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := mk(t)
			ctx := context.Background()

			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					assert.NoError(t, s.SetPair(ctx, Pair{AccessToken: "A", RefreshToken: "R"}))
				}()
				go func() {
					defer wg.Done()
					_, err := s.AccessToken(ctx)
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			p, err := LoadPair(ctx, s)
			require.NoError(t, err)
			assert.Equal(t, Pair{AccessToken: "A", RefreshToken: "R"}, p)
		})
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "creds.db")

	s1, db1, err := Open(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, s1.SetPair(ctx, Pair{AccessToken: "A", RefreshToken: "R"}))
	require.NoError(t, db1.Close())

	s2, db2, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db2.Close() })

	p, err := LoadPair(ctx, s2)
	require.NoError(t, err)
	assert.Equal(t, Pair{AccessToken: "A", RefreshToken: "R"}, p)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	ctx := context.Background()
	_, db, err := Open(ctx, filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(ctx, db))

	var n int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='credentials'`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSQLiteStore_ClosedDBErrorsWrapped(t *testing.T) {
	ctx := context.Background()
	s, db, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = s.AccessToken(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get credential[thonhub.accessToken]")

	err = s.SetRefreshToken(ctx, "R")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set credential[thonhub.refreshToken]")

	assert.False(t, IsAuthenticated(ctx, s))
}
