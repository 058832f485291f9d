package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()

	users := NewTestMemStore()
	_, err := EnsureAdmin(context.Background(), users, "admin@forge.test", "hunter22", "u_admin")
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), "viewer@forge.test", "hunter22", "viewer", "u_viewer"))

	s := &Server{
		Log:      zap.NewNop(),
		Users:    users,
		Sessions: NewMemSessions(),
		JWT:      NewTokenMaker("test-secret"),
		TTL:      time.Hour,
	}
	r := chi.NewRouter()
	s.Mount(r)
	return s, r
}

func doJSON(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := doJSON(h, http.MethodPost, "/auth/login", `{"email":"Admin@Forge.test","password":"hunter22"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp loginResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestLogin_SessionAndLogout(t *testing.T) {
	_, h := newTestServer(t)
	tok := login(t, h)

	rec := doJSON(h, http.MethodGet, "/auth/session", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"email":"admin@forge.test"`)

	rec = doJSON(h, http.MethodPost, "/auth/logout", "", tok)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(h, http.MethodGet, "/auth/session", "", tok)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_Rejections(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(h, http.MethodPost, "/auth/login", `{"email":"admin@forge.test","password":"wrong"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), ErrInvalidCredentials.Error())

	rec = doJSON(h, http.MethodPost, "/auth/login", `{"email":"not-an-email","password":"x"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(h, http.MethodPost, "/auth/login", `{"email":"viewer@forge.test","password":"hunter22"}`, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireSession_MissingToken(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(h, http.MethodGet, "/auth/session", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(h, http.MethodGet, "/auth/session", "", "garbage")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_RateLimited(t *testing.T) {
	_, h := newTestServer(t)

	var last int
	for i := 0; i < loginLimitPerMin+1; i++ {
		last = doJSON(h, http.MethodPost, "/auth/login", `{"email":"admin@forge.test","password":"wrong"}`, "").Code
	}
	require.Equal(t, http.StatusTooManyRequests, last)
}
