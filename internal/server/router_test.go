package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consulthub/internal/auth"
	"consulthub/internal/content"
	"consulthub/internal/notify"
	"consulthub/pkg/database"
	"consulthub/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *utils.Config {
	return &utils.Config{
		Server:  utils.ServerConfig{TrustedProxies: []string{"127.0.0.1"}},
		Auth:    utils.AuthConfig{JWTSecret: "router-secret", JWTIssuer: "consulthub", JWTTTLHours: 1},
		CORS:    utils.CORSConfig{AllowedOrigins: []string{"https://example.com"}},
		Booking: utils.BookingConfig{RatePerMinute: 60, Burst: 2},
		Site:    utils.SiteConfig{DefaultLocale: "en", Currency: "USD"},
	}
}

func newTestAPI(t *testing.T) (http.Handler, *notify.Hub) {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		content.ProjectsFile: `[{"id": "solar", "name": "Solar Farm", "country": "Egypt", "sector": "Energy"}]`,
		content.ServicesFile: `[{"id": "feasibility", "title": "Feasibility Studies"}]`,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	snap, err := content.Load(dir, nil)
	require.NoError(t, err)

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "api.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	_, err = auth.CreateAdmin(context.Background(), auth.NewRepo(db), "admin", "admin@example.com", "s3cret-pass")
	require.NoError(t, err)

	hub := notify.NewHub(10)
	t.Cleanup(hub.Close)

	h, err := NewRouter(Deps{Config: testConfig(), DB: db, Content: content.NewHolder(snap), Hub: hub})
	require.NoError(t, err)
	return h, hub
}

func call(h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "192.0.2.10:5555"
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthAndReady(t *testing.T) {
	h, _ := newTestAPI(t)

	assert.Equal(t, http.StatusOK, call(h, http.MethodGet, "/health", "", nil).Code)

	w := call(h, http.MethodGet, "/ready", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ready map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ready))
	assert.Equal(t, "ready", ready["status"])
	assert.Equal(t, float64(1), ready["projects"])
}

func TestPublicCatalogRoutes(t *testing.T) {
	h, _ := newTestAPI(t)

	assert.Equal(t, http.StatusOK, call(h, http.MethodGet, "/projects?q=solar", "", nil).Code)
	assert.Equal(t, http.StatusOK, call(h, http.MethodGet, "/projects/solar", "", nil).Code)
	assert.Equal(t, http.StatusOK, call(h, http.MethodGet, "/country/egypt", "", nil).Code)
	assert.Equal(t, http.StatusOK, call(h, http.MethodGet, "/services/feasibility", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, call(h, http.MethodGet, "/investments/solar", "", nil).Code)
}

func TestBookingToAdminFlow(t *testing.T) {
	h, hub := newTestAPI(t)

	w := call(h, http.MethodPost, "/bookings", "", gin.H{
		"name": "Nour", "email": "nour@example.com", "service_id": "feasibility",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 1, hub.Stats().Broadcast)

	w = call(h, http.MethodPost, "/bookings", "", gin.H{"name": "Nour", "email": "nour@example.com", "service_id": "ghost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(h, http.MethodPost, "/bookings", "", gin.H{"name": "Nour", "email": "nour@example.com"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "burst of two per client")

	assert.Equal(t, http.StatusUnauthorized, call(h, http.MethodGet, "/admin/bookings", "", nil).Code)

	w = call(h, http.MethodPost, "/admin/auth/login", "", gin.H{"login": "admin", "password": "s3cret-pass"})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	w = call(h, http.MethodGet, "/admin/bookings", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)

	assert.Equal(t, http.StatusOK, call(h, http.MethodGet, "/admin/me", login.Token, nil).Code)
}

func TestCORS(t *testing.T) {
	h, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodOptions, "/projects", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
