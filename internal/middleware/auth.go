package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storefront-admin/internal/config"
	"storefront-admin/internal/domain"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const identityKey contextKey = "identity"

var (
	ErrMissingSubject = errors.New("token has no subject")
	ErrNoKeySource    = errors.New("either a JWKS url or a shared secret is required")
)

// TokenVerifier turns identity provider tokens into identities. Tokens are
// checked against the provider's JWKS when configured, otherwise against a
// shared HMAC secret.
type TokenVerifier struct {
	keyfunc   jwt.Keyfunc
	jwks      *keyfunc.JWKS
	options   []jwt.ParserOption
	roleClaim string
}

// NewTokenVerifier builds a verifier from the auth configuration. The JWKS is
// fetched once here and refreshed in the background.
func NewTokenVerifier(cfg config.AuthConfig, logger *zap.Logger) (*TokenVerifier, error) {
	v := &TokenVerifier{roleClaim: cfg.RoleClaim}
	if v.roleClaim == "" {
		v.roleClaim = "role"
	}
	if cfg.Issuer != "" {
		v.options = append(v.options, jwt.WithIssuer(cfg.Issuer))
	}

	switch {
	case cfg.JWKSURL != "":
		jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
			RefreshInterval:   cfg.RefreshTTL,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				logger.Warn("Failed to refresh JWKS", zap.Error(err))
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
		}
		v.jwks = jwks
		v.keyfunc = jwks.Keyfunc
		v.options = append(v.options, jwt.WithValidMethods([]string{"RS256", "ES256"}))
	case cfg.Secret != "":
		secret := []byte(cfg.Secret)
		v.keyfunc = func(*jwt.Token) (interface{}, error) { return secret, nil }
		v.options = append(v.options, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	default:
		return nil, ErrNoKeySource
	}
	return v, nil
}

// Verify parses tokenString and extracts the subject and role claim. A token
// without a role yields a USER identity.
func (v *TokenVerifier) Verify(tokenString string) (*domain.Identity, error) {
	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(tokenString, claims, v.keyfunc, v.options...); err != nil {
		return nil, err
	}

	subject, _ := claims.GetSubject()
	if subject == "" {
		return nil, ErrMissingSubject
	}

	role := domain.RoleUser
	if r, ok := lookupClaim(claims, v.roleClaim).(string); ok && r != "" {
		role = domain.Role(strings.ToUpper(r))
	}
	return &domain.Identity{UserID: subject, Role: role}, nil
}

// Close stops the background JWKS refresh
func (v *TokenVerifier) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}

// lookupClaim resolves dotted paths such as "metadata.role"
func lookupClaim(claims map[string]interface{}, path string) interface{} {
	var current interface{} = claims
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current = m[part]
	}
	return current
}

// Authenticate resolves the caller from the bearer token. Requests without an
// Authorization header continue anonymously; malformed or invalid tokens are
// rejected with 401.
func Authenticate(verifier *TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Debug("Invalid authorization header format")
				RespondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			identity, err := verifier.Verify(parts[1])
			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				if errors.Is(err, jwt.ErrTokenExpired) {
					RespondWithError(w, http.StatusUnauthorized, "token expired")
				} else {
					RespondWithError(w, http.StatusUnauthorized, "invalid token")
				}
				return
			}

			logger.Debug("User authenticated",
				zap.String("user_id", identity.UserID),
				zap.String("role", string(identity.Role)),
			)
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireAuth rejects anonymous callers with 401
func RequireAuth(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IdentityFromContext(r.Context()) == nil {
				logger.Debug("Anonymous request to protected endpoint", zap.String("path", r.URL.Path))
				RespondWithError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithIdentity(ctx context.Context, identity *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the caller, or nil for anonymous requests
func IdentityFromContext(ctx context.Context) *domain.Identity {
	identity, _ := ctx.Value(identityKey).(*domain.Identity)
	return identity
}
