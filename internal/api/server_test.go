package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rennerdo30/proxy-toggle/internal/manager"
	"github.com/rennerdo30/proxy-toggle/internal/metrics"
	"github.com/rennerdo30/proxy-toggle/internal/profile"
	"github.com/rennerdo30/proxy-toggle/internal/sysproxy"
)

func newTestAPI(t *testing.T, token string) (*API, *sysproxy.Memory) {
	t.Helper()

	store := profile.NewStore(filepath.Join(t.TempDir(), "profiles.json"))
	require.NoError(t, store.Save([]profile.Profile{
		{Name: "Office", Server: "http://proxy.corp.example:912"},
		{Name: "VPN", Server: "http://vpn.example:8080"},
	}))

	mem := sysproxy.NewMemory()
	m := metrics.New()
	mgr, err := manager.New(store, mem, manager.WithMetrics(m))
	require.NoError(t, err)

	return New(Config{Manager: mgr, Metrics: m, Token: token}), mem
}

func doRequest(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeProfiles(t *testing.T, rec *httptest.ResponseRecorder) profilesResponse {
	t.Helper()
	var resp profilesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleHealth(t *testing.T) {
	a, _ := newTestAPI(t, "")
	rec := doRequest(t, a.Handler(), http.MethodGet, "/api/v1/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestHandleVersion(t *testing.T) {
	a, _ := newTestAPI(t, "")
	rec := doRequest(t, a.Handler(), http.MethodGet, "/api/v1/version")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "version")
}

func TestHandleGetProfiles(t *testing.T) {
	a, _ := newTestAPI(t, "")
	rec := doRequest(t, a.Handler(), http.MethodGet, "/api/v1/profiles")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeProfiles(t, rec)
	require.Len(t, resp.Profiles, 2)
	assert.Equal(t, -1, resp.ActiveIndex)
}

func TestHandleToggle(t *testing.T) {
	a, mem := newTestAPI(t, "")
	h := a.Handler()

	rec := doRequest(t, h, http.MethodPost, "/api/v1/profiles/0/toggle")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeProfiles(t, rec)
	assert.True(t, resp.Profiles[0].Enabled)
	assert.Equal(t, 0, resp.ActiveIndex)

	server, enabled, err := mem.Active()
	require.NoError(t, err)
	assert.True(t, enabled)
	assert.Equal(t, "http://proxy.corp.example:912", server)

	// Toggling again turns the proxy off.
	rec = doRequest(t, h, http.MethodPost, "/api/v1/profiles/0/toggle")
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeProfiles(t, rec)
	assert.False(t, resp.Profiles[0].Enabled)
	assert.Equal(t, -1, resp.ActiveIndex)
}

func TestHandleToggle_UnknownIndex(t *testing.T) {
	a, _ := newTestAPI(t, "")
	rec := doRequest(t, a.Handler(), http.MethodPost, "/api/v1/profiles/9/toggle")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleToggle_BadIndex(t *testing.T) {
	a, _ := newTestAPI(t, "")
	rec := doRequest(t, a.Handler(), http.MethodPost, "/api/v1/profiles/office/toggle")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleToggle_WriteFailure(t *testing.T) {
	a, mem := newTestAPI(t, "")
	mem.FailWrites(errors.New("access denied"))

	rec := doRequest(t, a.Handler(), http.MethodPost, "/api/v1/profiles/0/toggle")
	require.Equal(t, http.StatusBadGateway, rec.Code)

	resp := decodeProfiles(t, rec)
	assert.NotEmpty(t, resp.Error)
	assert.False(t, resp.Profiles[0].Enabled, "response carries the rolled-back snapshot")
	assert.Equal(t, -1, resp.ActiveIndex)
}

func TestHandleRefresh(t *testing.T) {
	a, mem := newTestAPI(t, "")
	mem.SetExternal("http://vpn.example:8080", true)

	rec := doRequest(t, a.Handler(), http.MethodPost, "/api/v1/refresh")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeProfiles(t, rec)
	assert.Equal(t, 1, resp.ActiveIndex)
	assert.True(t, resp.Profiles[1].Enabled)
}

func TestHandleDeactivate(t *testing.T) {
	a, mem := newTestAPI(t, "")
	doRequest(t, a.Handler(), http.MethodPost, "/api/v1/profiles/0/toggle")

	rec := doRequest(t, a.Handler(), http.MethodPost, "/api/v1/deactivate")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeProfiles(t, rec)
	assert.Equal(t, -1, resp.ActiveIndex)

	_, enabled, err := mem.Active()
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestMetricsEndpoint(t *testing.T) {
	a, _ := newTestAPI(t, "")
	doRequest(t, a.Handler(), http.MethodPost, "/api/v1/profiles/0/toggle")

	rec := doRequest(t, a.Handler(), http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "proxytoggle_activations_total")
	assert.Contains(t, rec.Body.String(), "proxytoggle_active_profile")
}

func TestAuthMiddleware(t *testing.T) {
	a, _ := newTestAPI(t, "secret")
	h := a.Handler()

	rec := doRequest(t, h, http.MethodGet, "/api/v1/profiles")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/profiles", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	a, _ := newTestAPI(t, "")
	rec := doRequest(t, a.Handler(), http.MethodGet, "/api/v1/health")

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
