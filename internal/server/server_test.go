package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-admin/internal/config"
	custommiddleware "storefront-admin/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "server-secret"

func newTestServer(t *testing.T, limit int) (*Server, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{
		Server:    config.ServerConfig{Port: "0", Env: "test"},
		Auth:      config.AuthConfig{Secret: testSecret},
		RateLimit: config.RateLimitConfig{Requests: limit, Window: time.Minute},
	}
	verifier, err := custommiddleware.NewTokenVerifier(cfg.Auth, zap.NewNop())
	require.NoError(t, err)

	srv := NewServer(cfg, zap.NewNop(), Dependencies{DB: mock, Redis: rdb, Verifier: verifier})
	t.Cleanup(func() { srv.Close() })
	return srv, mock
}

func TestHealth(t *testing.T) {
	srv, mock := newTestServer(t, 10)
	mock.ExpectPing()

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status   string            `json:"status"`
		Database map[string]string `json:"database"`
		Redis    map[string]string `json:"redis"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "up", body.Database["status"])
	assert.Equal(t, "up", body.Redis["status"])
}

func TestPublicCategoryList(t *testing.T) {
	srv, mock := newTestServer(t, 10)
	mock.ExpectQuery("SELECT .* FROM categories ORDER BY updated_at DESC").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "url", "image", "featured", "created_at", "updated_at"}))

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminWritesAreGatedAndLimited(t *testing.T) {
	srv, _ := newTestServer(t, 1)

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/admin/categories", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user_admin", "role": "ADMIN"}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	send := func() int {
		req := httptest.NewRequest(http.MethodPut, "/api/admin/categories", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		srv.Handler.ServeHTTP(w, req)
		return w.Code
	}
	// the empty body fails decoding; the second request is throttled first
	assert.Equal(t, http.StatusBadRequest, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, 10)

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "storefront_http_requests_in_flight")
}
