package middleware

import (
	"context"
	"net/http"
	"strings"

	"pdv-backend/internal/auth"
	"pdv-backend/internal/policy"
	"pdv-backend/pkg/utils"
)

type contextKey string

const ClaimsKey contextKey = "claims"

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
}

func NewAuthMiddleware(jwtManager *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// Authenticate validates the bearer token. A missing token is 401; a token that is
// present but unusable is 403.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			utils.Error(w, http.StatusUnauthorized, "Token d'authentification requis")
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			utils.Error(w, http.StatusForbidden, "Token invalide ou expiré")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// GetClaimsFromContext extracts the token claims stored by Authenticate
func GetClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*auth.Claims)
	return claims, ok
}

// ActorFromContext returns the authenticated user as seen by the permission policy.
func ActorFromContext(ctx context.Context) (policy.Actor, bool) {
	claims, ok := GetClaimsFromContext(ctx)
	if !ok {
		return policy.Actor{}, false
	}
	return policy.Actor{ID: claims.ID, Role: claims.Role}, true
}

// WithClaims stores validated claims in ctx.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}
