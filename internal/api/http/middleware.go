package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/security"
)

type contextKey string

const userIDKey contextKey = "user_id"

// AuthMiddleware validates the bearer token and stores the caller's user id
// on the request context. Only access tokens pass; refresh tokens are
// rejected even though they carry the same claims shape.
func AuthMiddleware(tokens security.TokenManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
				return
			}

			claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				respondJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
				return
			}
			if claims.Type != security.TokenTypeAccess {
				respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "wrong token type"})
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoggingMiddleware logs every request with its duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("Handled request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func userIDFrom(r *http.Request) int32 {
	id, _ := r.Context().Value(userIDKey).(int32)
	return id
}
