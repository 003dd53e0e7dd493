package http

import (
	"context"
	"net/http"
	"strings"

	"innsync-backend/internal/domain"
	"innsync-backend/internal/security"
)

type contextKey string

const actorContextKey contextKey = "actor"

// AuthMiddleware validates the bearer token and puts the resulting actor on
// the request context.
type AuthMiddleware struct {
	tokens *security.TokenManager
}

func NewAuthMiddleware(tokens *security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			return
		}

		claims, err := m.tokens.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
			return
		}

		actor := claims.Actor()
		ctx := context.WithValue(r.Context(), actorContextKey, &actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// actorFrom returns the authenticated actor, or an anonymous actor if the
// route was mounted without the middleware.
func actorFrom(r *http.Request) *domain.Actor {
	if actor, ok := r.Context().Value(actorContextKey).(*domain.Actor); ok {
		return actor
	}
	return &domain.Actor{}
}
