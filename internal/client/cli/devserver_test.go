package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/thonhub/thonhub/internal/client/api"
	"github.com/thonhub/thonhub/internal/client/tokenstore"
	"github.com/thonhub/thonhub/internal/logging"
	"github.com/thonhub/thonhub/internal/server/blob"
	"github.com/thonhub/thonhub/internal/server/config"
	"github.com/thonhub/thonhub/internal/server/httpapi"
	"github.com/thonhub/thonhub/internal/server/repositories/repomanager"
	"github.com/thonhub/thonhub/internal/server/services"
)

// startDevserver runs the real backend over an in-memory database.
func startDevserver(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	rm := repomanager.NewSQLiteRepositoryManager()
	db, err := repomanager.OpenSQLite(ctx, ":memory:", rm)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()

	store, err := blob.NewFSStore(t.TempDir())
	require.NoError(t, err)

	svc := httpapi.Services{
		Users:      services.NewUserService(db, rm, cfg, logging.Nop{}),
		Orgs:       services.NewOrgService(db, rm),
		Hackathons: services.NewHackathonService(db, rm),
		Resume:     services.NewResumeService(store, cfg.MaxUploadSize),
	}
	require.NoError(t, services.Seed(ctx, svc.Users, svc.Orgs, svc.Hackathons))

	ts := httptest.NewServer(httpapi.NewServer("", logging.Nop{}, svc, cfg.MaxUploadSize).Router())
	t.Cleanup(ts.Close)
	return ts
}

// syncBuffer lets the test read output the session watcher writes from
// another goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestApp(t *testing.T, baseURL, input string) (*App, *syncBuffer) {
	t.Helper()
	p := api.New(api.Config{BaseURL: baseURL, Timeout: 5 * time.Second}, tokenstore.NewMemoryStore())
	out := &syncBuffer{}
	return newApp(p, bufio.NewReader(strings.NewReader(input)), out, logging.Nop{}), out
}

func scrapeMetrics(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}
