package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thonhub/thonhub/internal/logging"
	"github.com/thonhub/thonhub/internal/server/auth"
	"github.com/thonhub/thonhub/internal/server/blob"
	"github.com/thonhub/thonhub/internal/server/config"
	"github.com/thonhub/thonhub/internal/server/repositories/repomanager"
	"github.com/thonhub/thonhub/internal/server/services"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) (*httptest.Server, *Server) {
	t.Helper()
	ctx := context.Background()

	rm := repomanager.NewSQLiteRepositoryManager()
	db, err := repomanager.OpenSQLite(ctx, ":memory:", rm)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = testSecret
	cfg.MaxUploadSize = 1 << 10

	store, err := blob.NewFSStore(t.TempDir())
	require.NoError(t, err)

	svc := Services{
		Users:      services.NewUserService(db, rm, cfg, logging.Nop{}),
		Orgs:       services.NewOrgService(db, rm),
		Hackathons: services.NewHackathonService(db, rm),
		Resume:     services.NewResumeService(store, cfg.MaxUploadSize),
	}
	require.NoError(t, services.Seed(ctx, svc.Users, svc.Orgs, svc.Hackathons))

	s := NewServer("127.0.0.1:0", logging.Nop{}, svc, cfg.MaxUploadSize)
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return ts, s
}

func do(t *testing.T, ts *httptest.Server, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, ts.URL+path, rdr)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func login(t *testing.T, ts *httptest.Server) (string, string) {
	t.Helper()
	status, body := do(t, ts, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "ada@thonhub.dev", "password": services.DemoPassword})
	require.Equal(t, http.StatusOK, status, body)
	return body["access_token"].(string), body["refresh_token"].(string)
}

func TestHealthzAndRequestID(t *testing.T) {
	ts, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "abc-123")
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-Id"))
}

func TestLogin(t *testing.T) {
	ts, _ := newTestServer(t)

	status, body := do(t, ts, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "ada@thonhub.dev", "password": services.DemoPassword})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["access_token"])
	assert.NotEmpty(t, body["refresh_token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "ada", user["username"])
	assert.NotContains(t, user, "password_hash")

	status, body = do(t, ts, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "ada@thonhub.dev", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid email or password", body["error"])

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/auth/login", strings.NewReader("{"))
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRefreshRotation(t *testing.T) {
	ts, _ := newTestServer(t)
	_, refresh := login(t, ts)

	status, body := do(t, ts, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, status)
	access := body["access_token"].(string)
	assert.NotEqual(t, refresh, body["refresh_token"])

	status, _ = do(t, ts, http.MethodGet, "/api/users/me", access, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = do(t, ts, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid refresh token", body["error"])
}

func TestMe(t *testing.T) {
	ts, _ := newTestServer(t)
	access, _ := login(t, ts)

	expired, err := auth.GenerateToken("someone", "", []byte(testSecret), -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		status int
		errMsg string
	}{
		{"ok", access, http.StatusOK, ""},
		{"missing", "", http.StatusUnauthorized, "Missing bearer token"},
		{"expired", expired, http.StatusUnauthorized, "Token expired"},
		{"garbage", "not-a-jwt", http.StatusUnauthorized, "Invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, ts, http.MethodGet, "/api/users/me", tt.token, nil)
			assert.Equal(t, tt.status, status)
			if tt.errMsg != "" {
				assert.Equal(t, tt.errMsg, body["error"])
			} else {
				assert.Equal(t, "ada@thonhub.dev", body["email"])
			}
		})
	}
}

func TestOrgs(t *testing.T) {
	ts, _ := newTestServer(t)
	access, _ := login(t, ts)

	status, body := do(t, ts, http.MethodGet, "/api/orgs", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["count"])

	status, body = do(t, ts, http.MethodGet, "/api/orgs/?is_verified=TRUE", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["count"])

	status, body = do(t, ts, http.MethodGet, "/api/orgs?limit=ten", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "limit must be an integer", body["error"])

	in := map[string]any{"name": "Hack Club Riga", "email": "riga@hackclub.dev", "city": "Riga"}
	status, _ = do(t, ts, http.MethodPost, "/api/orgs", "", in)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = do(t, ts, http.MethodPost, "/api/orgs", access, in)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "Organization created successfully", body["message"])
	org := body["organization"].(map[string]any)
	assert.Equal(t, "hack-club-riga", org["slug"])
	assert.NotEmpty(t, org["owner_id"])

	status, body = do(t, ts, http.MethodPost, "/api/orgs", access, in)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Organization with this name or email already exists", body["error"])

	status, body = do(t, ts, http.MethodPost, "/api/orgs", access, map[string]string{"email": "x@y.z"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Organization name is required", body["error"])

	status, body = do(t, ts, http.MethodGet, "/api/orgs/"+org["id"].(string), "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Hack Club Riga", body["name"])

	status, body = do(t, ts, http.MethodGet, "/api/orgs/slug/hack-club-riga", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, org["id"], body["id"])

	status, body = do(t, ts, http.MethodGet, "/api/orgs/slug/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Organization not found", body["error"])
}

func TestHackathons(t *testing.T) {
	ts, _ := newTestServer(t)

	status, body := do(t, ts, http.MethodGet, "/api/hackathons", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 3, body["count"])
	assert.Len(t, body["hackathons"], 3)
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "ignored"))
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = io.WriteString(fw, content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func upload(t *testing.T, ts *httptest.Server, token, field, filename, content string) (int, map[string]any) {
	t.Helper()
	body, ctype := multipartBody(t, field, filename, content)
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/resume/upload", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", ctype)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestResumeUpload(t *testing.T) {
	ts, _ := newTestServer(t)
	access, _ := login(t, ts)

	status, body := upload(t, ts, access, "file", "cv.txt", "Go, Docker and AWS. ada@thonhub.dev")
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "cv.txt", body["filename"])
	analysis := body["analysis"].(map[string]any)
	assert.Equal(t, []any{"AWS", "Docker"}, analysis["skills"])
	assert.EqualValues(t, 40, analysis["score"])
	assert.Equal(t, "ada@thonhub.dev", analysis["email"])
	assert.Nil(t, analysis["phone"])

	status, body = upload(t, ts, access, "file", "cv.exe", "x")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid file type", body["error"])

	status, body = upload(t, ts, access, "", "", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No file provided", body["error"])

	status, body = upload(t, ts, access, "file", "big.txt", strings.Repeat("x", 2<<10))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "File too large", body["error"])
}

func TestResumeAnalyze(t *testing.T) {
	ts, _ := newTestServer(t)
	access, _ := login(t, ts)

	status, body := do(t, ts, http.MethodPost, "/api/resume/analyze", access, map[string]string{"text": "Python Java"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 40, body["analysis"].(map[string]any)["score"])

	status, _ = do(t, ts, http.MethodPost, "/api/resume/analyze", "", map[string]string{"text": "x"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestMetrics(t *testing.T) {
	ts, _ := newTestServer(t)
	_, refresh := login(t, ts)
	do(t, ts, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh_token": refresh})
	do(t, ts, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh_token": refresh})

	resp, err := ts.Client().Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(raw)

	assert.Contains(t, text, `thonhub_http_requests_total{method="POST",route="/api/auth/login",status="200"} 1`)
	assert.Contains(t, text, `thonhub_token_refresh_total{result="ok"} 1`)
	assert.Contains(t, text, `thonhub_token_refresh_total{result="rejected"} 1`)
}

func TestNotFoundIsJSON(t *testing.T) {
	ts, _ := newTestServer(t)
	status, body := do(t, ts, http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Not found", body["error"])
}

func TestServe_GracefulShutdown(t *testing.T) {
	_, s := newTestServer(t)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, l) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + l.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func loginAs(t *testing.T, ts *httptest.Server, email string) (token, userID string) {
	t.Helper()
	status, body := do(t, ts, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": email, "password": services.DemoPassword})
	require.Equal(t, http.StatusOK, status, body)
	return body["access_token"].(string), body["user"].(map[string]any)["id"].(string)
}

func TestOrgManagement(t *testing.T) {
	ts, _ := newTestServer(t)
	ada, adaID := loginAs(t, ts, "ada@thonhub.dev")
	grace, graceID := loginAs(t, ts, "grace@thonhub.dev")

	status, body := do(t, ts, http.MethodGet, "/api/orgs/slug/thonhub-community", "", nil)
	require.Equal(t, http.StatusOK, status)
	id := body["id"].(string)
	orgPath := "/api/orgs/" + id

	status, body = do(t, ts, http.MethodPatch, orgPath, "", map[string]string{"city": "Tallinn"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = do(t, ts, http.MethodPatch, orgPath, grace, map[string]string{"city": "Tallinn"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "You do not have permission to update this organization", body["error"])

	status, body = do(t, ts, http.MethodPost, orgPath+"/members", grace, map[string]string{"user_id": graceID})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "You do not have permission to add members", body["error"])

	status, body = do(t, ts, http.MethodPost, orgPath+"/members", ada, map[string]string{"user_id": graceID, "role": "admin"})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "User added as admin successfully", body["message"])

	status, body = do(t, ts, http.MethodPost, orgPath+"/members", ada, map[string]string{"user_id": graceID, "role": "admin"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "User already has this role", body["error"])

	status, body = do(t, ts, http.MethodPost, orgPath+"/members", ada, map[string]string{"user_id": "ghost"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Organization or user not found", body["error"])

	status, body = do(t, ts, http.MethodGet, orgPath+"/members", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"id": adaID, "name": "Ada Lovelace"}, body["owner"])
	assert.Equal(t, []any{map[string]any{"id": graceID, "name": "Grace Hopper"}}, body["admins"])
	assert.Equal(t, []any{}, body["members"])

	status, body = do(t, ts, http.MethodPatch, orgPath, grace, map[string]string{"city": "Tallinn"})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Organization updated successfully", body["message"])
	assert.Equal(t, "Tallinn", body["organization"].(map[string]any)["city"])

	status, body = do(t, ts, http.MethodPut, orgPath, grace, map[string]string{"name": "ThonHub Collective"})
	require.Equal(t, http.StatusOK, status, body)
	org := body["organization"].(map[string]any)
	assert.Equal(t, "thonhub-collective", org["slug"])
	assert.Equal(t, "Tallinn", org["city"])

	status, body = do(t, ts, http.MethodDelete, orgPath, grace, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Only the owner can delete this organization", body["error"])

	status, body = do(t, ts, http.MethodDelete, orgPath+"/members/"+graceID, ada, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User removed successfully", body["message"])

	status, body = do(t, ts, http.MethodDelete, orgPath+"/members/"+graceID, ada, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "User is not a member of this organization", body["error"])

	status, body = do(t, ts, http.MethodDelete, orgPath, ada, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Organization deleted successfully", body["message"])

	status, _ = do(t, ts, http.MethodGet, orgPath, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = do(t, ts, http.MethodGet, orgPath+"/members", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
