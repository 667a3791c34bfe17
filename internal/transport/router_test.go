package transport

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-admin/internal/config"
	"storefront-admin/internal/domain"
	"storefront-admin/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "transport-secret"

type routeRegistrar interface {
	RegisterRoutes(r chi.Router, g Gates)
}

// newTestRouter wires handlers behind the same identity and role gates the
// server uses.
func newTestRouter(t *testing.T, handlers ...routeRegistrar) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	verifier, err := middleware.NewTokenVerifier(config.AuthConfig{Secret: testSecret}, logger)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(middleware.Authenticate(verifier, logger))
	g := Gates{
		Authenticated: middleware.RequireAuth(logger),
		Admin:         middleware.RequireRole(logger, domain.RoleAdmin),
		Seller:        middleware.RequireRole(logger, domain.RoleSeller),
	}
	for _, h := range handlers {
		h.RegisterRoutes(r, g)
	}
	return r
}

func tokenFor(t *testing.T, id *domain.Identity) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  id.UserID,
		"role": string(id.Role),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func do(t *testing.T, h http.Handler, method, path string, caller *domain.Identity, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if caller != nil {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, caller))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			ValidationErrors []middleware.ValidationError `json:"validation_errors"`
		} `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

var (
	admin  = &domain.Identity{UserID: "user_admin", Role: domain.RoleAdmin}
	seller = &domain.Identity{UserID: "user_seller", Role: domain.RoleSeller}
	buyer  = &domain.Identity{UserID: "user_buyer", Role: domain.RoleUser}
)
