package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/rconstore/internal/api/apierr"
	"github.com/mcoot/rconstore/internal/services/auth"
)

type contextKey string

const sessionContextKey contextKey = "session"

// Auth creates authentication middleware
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := authService.ValidateSession(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken extracts the bearer token from the request
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// EventSource cannot set headers
	if r.Method == http.MethodGet {
		return r.URL.Query().Get("access_token")
	}

	return ""
}

// GetSession returns the session from the request context
func GetSession(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return session
}

// GetOperator returns the authenticated operator name, or ""
func GetOperator(ctx context.Context) string {
	if session := GetSession(ctx); session != nil {
		return session.Operator
	}
	return ""
}

// MustGetOperator returns the authenticated operator or panics
func MustGetOperator(ctx context.Context) string {
	operator := GetOperator(ctx)
	if operator == "" {
		panic("no operator in context - auth middleware not applied?")
	}
	return operator
}
