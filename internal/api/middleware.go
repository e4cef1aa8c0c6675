package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/bmcallister/trade-journal/internal/auth"
)

type contextKey string

const userIDKey contextKey = "user_id"

// RequireAuth resolves the bearer token to a user id and stores it on
// the request context for the wrapped handler.
func (h *Handler) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			http.Error(w, "missing authorization token", http.StatusUnauthorized)
			return
		}

		userID, err := h.sessions.Get(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrSessionNotFound) {
				http.Error(w, "invalid or expired session", http.StatusUnauthorized)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token
	}
	return ""
}

// userIDFrom returns the authenticated user id set by RequireAuth.
func userIDFrom(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}
