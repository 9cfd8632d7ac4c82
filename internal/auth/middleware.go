package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Vinith1801/Growfinix-Tech/internal/httputil"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	UserIDContextKey ContextKey = "user_id"
)

// Middleware handles authentication for protected routes
type Middleware struct {
	tokenService TokenService
}

func NewMiddleware(tokenService TokenService) *Middleware {
	return &Middleware{tokenService: tokenService}
}

// RequireAuth validates the session token and stores the resolved user id in
// the request context. Downstream handlers never see an unauthenticated
// request.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Priority 1: session cookie (browser clients)
		token, err := GetSessionTokenFromCookie(r)
		if err != nil || token == "" {
			// Priority 2: Authorization header (non-browser clients)
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.RespondError(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				httputil.RespondError(w, "invalid authorization header format", httputil.CodeInvalidAuthHeader, http.StatusUnauthorized)
				return
			}
			token = parts[1]
		}

		claims, err := m.tokenService.VerifyToken(token)
		if err != nil {
			if err == ErrExpiredToken {
				httputil.RespondError(w, "token has expired", httputil.CodeTokenExpired, http.StatusUnauthorized)
				return
			}
			httputil.RespondError(w, "invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			httputil.RespondError(w, "invalid user ID in token", httputil.CodeInvalidTokenUserID, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDContextKey, userID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext extracts the authenticated user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(uuid.UUID)
	return userID, ok
}
