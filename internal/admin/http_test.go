package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ForgeStore/internal/auth"
	"ForgeStore/internal/catalog"
)

func newTestHandler(t *testing.T) (http.Handler, *failingStore) {
	t.Helper()

	users := auth.NewTestMemStore()
	_, err := auth.EnsureAdmin(context.Background(), users, "owner@forge.test", "forge-pass", "u_owner")
	require.NoError(t, err)

	a := &auth.Server{
		Log:      zap.NewNop(),
		Users:    users,
		Sessions: auth.NewMemSessions(),
		JWT:      auth.NewTokenMaker("test-secret"),
		TTL:      time.Hour,
	}
	store := &failingStore{MemStore: catalog.NewSeededMemStore()}
	s := &Server{Log: zap.NewNop(), Panel: NewPanel(store, nil)}

	h := NewHandler(a, s, HTTPDeps{
		Log:            zap.NewNop(),
		Service:        "admin",
		Registry:       prometheus.NewRegistry(),
		Store:          store,
		MetricsEnabled: true,
		MetricsToken:   "m",
	})
	return h, store
}

func call(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func signIn(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := call(h, http.MethodPost, "/auth/login", `{"email":"owner@forge.test","password":"forge-pass"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.AccessToken
}

func TestAdminRoutes_RequireSession(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := call(h, http.MethodGet, "/admin/items", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	tok := signIn(t, h)
	rec = call(h, http.MethodGet, "/admin/items", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)

	var v View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	require.Len(t, v.Gamepasses, 2)

	require.Equal(t, http.StatusNoContent, call(h, http.MethodPost, "/auth/logout", "", tok).Code)
	require.Equal(t, http.StatusUnauthorized, call(h, http.MethodGet, "/admin/items", "", tok).Code)
}

func TestAdminRoutes_Edits(t *testing.T) {
	h, store := newTestHandler(t)
	tok := signIn(t, h)

	rec := call(h, http.MethodPatch, "/admin/service/2/price", `{"price":"Rp 12.000"}`, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Contains(t, rec.Body.String(), `"price":"Rp 12.000"`)

	rec = call(h, http.MethodPost, "/admin/gamepasses/1/stock/toggle", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"stock":"Kosong"`)

	rec = call(h, http.MethodPatch, "/admin/orders/1/price", `{"price":"1"}`, tok)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(h, http.MethodPatch, "/admin/service/abc/price", `{"price":"1"}`, tok)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(h, http.MethodPatch, "/admin/service/1/price", `{}`, tok)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	store.failWrites = true
	rec = call(h, http.MethodPut, "/admin/status", `{"is_online":false}`, tok)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), `"label":"Online"`)
}

func TestAdminRoutes_StatusToggle(t *testing.T) {
	h, store := newTestHandler(t)
	tok := signIn(t, h)

	rec := call(h, http.MethodPut, "/admin/status", `{"is_online":false}`, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"label":"Offline"`)

	st, ok, err := store.GetStatus(context.Background(), catalog.DefaultStatusID)
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, st.IsOnline)
}

func TestAdminRoutes_StatusFailureBeforeItemsLoad(t *testing.T) {
	h, store := newTestHandler(t)
	tok := signIn(t, h)
	store.failWrites = true

	rec := call(h, http.MethodPut, "/admin/status", `{"is_online":false}`, tok)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), `"label":"Online"`)

	store.failWrites = false
	rec = call(h, http.MethodGet, "/admin/items", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"is_online":true`)
}

func TestAdminProbes(t *testing.T) {
	h, _ := newTestHandler(t)

	require.Equal(t, http.StatusOK, call(h, http.MethodGet, "/healthz", "", "").Code)
	require.Equal(t, http.StatusOK, call(h, http.MethodGet, "/readyz", "", "").Code)
	require.Equal(t, http.StatusForbidden, call(h, http.MethodGet, "/metrics", "", "").Code)
	require.Equal(t, http.StatusOK, call(h, http.MethodGet, "/metrics", "", "m").Code)
}
