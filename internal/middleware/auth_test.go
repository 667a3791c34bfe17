package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-admin/internal/config"
	"storefront-admin/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func hmacVerifier(t *testing.T) *TokenVerifier {
	t.Helper()
	v, err := NewTokenVerifier(config.AuthConfig{Secret: testSecret, RoleClaim: "metadata.role"}, zap.NewNop())
	require.NoError(t, err)
	return v
}

func signHMAC(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

// captures the identity seen by the next handler
func identityRecorder(seen **domain.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_MissingHeaderIsAnonymous(t *testing.T) {
	var seen *domain.Identity
	handler := Authenticate(hmacVerifier(t), zap.NewNop())(identityRecorder(&seen))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/categories", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, seen)
}

func TestAuthenticate_ResolvesNestedRoleClaim(t *testing.T) {
	var seen *domain.Identity
	handler := Authenticate(hmacVerifier(t), zap.NewNop())(identityRecorder(&seen))

	token := signHMAC(t, jwt.MapClaims{
		"sub":      "user_2abc",
		"metadata": map[string]interface{}{"role": "admin"},
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "user_2abc", seen.UserID)
	assert.Equal(t, domain.RoleAdmin, seen.Role)
}

func TestAuthenticate_MissingRoleDefaultsToUser(t *testing.T) {
	identity, err := hmacVerifier(t).Verify(signHMAC(t, jwt.MapClaims{"sub": "user_3def"}))
	require.NoError(t, err)
	assert.Equal(t, "user_3def", identity.UserID)
	assert.Equal(t, domain.RoleUser, identity.Role)
}

func TestVerify_RequiresSubjectClaim(t *testing.T) {
	_, err := hmacVerifier(t).Verify(signHMAC(t, jwt.MapClaims{"user_id": "user_3def"}))
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func TestAuthenticate_RejectsBadTokens(t *testing.T) {
	verifier := hmacVerifier(t)
	otherKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString([]byte("other"))
	require.NoError(t, err)

	tests := map[string]string{
		"malformed header": "Token abc",
		"garbage token":    "Bearer not.a.jwt",
		"wrong key":        "Bearer " + otherKey,
		"no subject":       "Bearer " + signHMAC(t, jwt.MapClaims{"metadata": map[string]interface{}{"role": "ADMIN"}}),
		"expired":          "Bearer " + signHMAC(t, jwt.MapClaims{"sub": "x", "exp": time.Now().Add(-time.Hour).Unix()}),
	}
	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			called := false
			handler := Authenticate(verifier, zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", header)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.False(t, called)
		})
	}
}

func TestAuthenticate_RejectsWrongIssuer(t *testing.T) {
	v, err := NewTokenVerifier(config.AuthConfig{Secret: testSecret, Issuer: "https://clerk.example"}, zap.NewNop())
	require.NoError(t, err)

	_, err = v.Verify(signHMAC(t, jwt.MapClaims{"sub": "x", "iss": "https://evil.example"}))
	assert.Error(t, err)

	_, err = v.Verify(signHMAC(t, jwt.MapClaims{"sub": "x", "iss": "https://clerk.example"}))
	assert.NoError(t, err)
}

func TestNewTokenVerifier_RequiresKeySource(t *testing.T) {
	_, err := NewTokenVerifier(config.AuthConfig{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrNoKeySource)
}

func TestTokenVerifier_JWKS(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	jwksServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"keys": []map[string]string{{
				"kty": "RSA",
				"kid": "test-key",
				"alg": "RS256",
				"use": "sig",
				"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
			}},
		})
	}))
	defer jwksServer.Close()

	v, err := NewTokenVerifier(config.AuthConfig{JWKSURL: jwksServer.URL, RoleClaim: "role", RefreshTTL: time.Hour}, zap.NewNop())
	require.NoError(t, err)
	defer v.Close()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{"sub": "user_jwks", "role": "seller"})
	token.Header["kid"] = "test-key"
	signed, err := token.SignedString(key)
	require.NoError(t, err)

	identity, err := v.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSeller, identity.Role)

	// HMAC tokens must not be accepted once a JWKS is configured
	_, err = v.Verify(signHMAC(t, jwt.MapClaims{"sub": "x"}))
	assert.Error(t, err)
}

// Property: any valid token yields an identity with its subject
func TestProperty_ValidTokensResolveIdentity(t *testing.T) {
	verifier := hmacVerifier(t)
	properties := gopter.NewProperties(nil)

	properties.Property("subject and role survive verification", prop.ForAll(
		func(subject string, role string) bool {
			token := signHMAC(t, jwt.MapClaims{
				"sub":      subject,
				"metadata": map[string]interface{}{"role": role},
				"exp":      time.Now().Add(time.Hour).Unix(),
			})
			identity, err := verifier.Verify(token)
			if err != nil {
				return false
			}
			return identity.UserID == subject && string(identity.Role) == role
		},
		gen.Identifier(),
		gen.OneConstOf("ADMIN", "SELLER", "USER"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), &domain.Identity{UserID: "u", Role: domain.RoleUser}))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
