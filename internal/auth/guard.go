package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dakshcoder1/Capstone-project-Final/internal/models"
)

// userContextKey is the context key for the authenticated user.
type contextKey string

const userContextKey = contextKey("currentUser")

// UserFinder resolves a user id from verified claims to a stored account.
type UserFinder interface {
	GetUserByID(id int64) (models.User, error)
}

// Guard is the single choke point for authentication and authorization.
// Every protected route passes through RequireUser, and admin routes
// additionally through RequireAdmin, before any other work happens.
type Guard struct {
	tokens *TokenManager
	users  UserFinder
}

// NewGuard creates a Guard backed by the given token manager and user lookup.
func NewGuard(tokens *TokenManager, users UserFinder) *Guard {
	return &Guard{tokens: tokens, users: users}
}

// RequireUser authenticates the request and injects the resolved user into
// the request context. All failure kinds share status 401 so a caller cannot
// probe which check rejected them.
func (g *Guard) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, "Token is missing")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorized(w, "Invalid token format")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 {
			unauthorized(w, "Invalid token format")
			return
		}

		claims, err := g.tokens.Verify(parts[1])
		if err != nil {
			unauthorized(w, "Token is invalid or expired")
			return
		}

		// A valid token may reference a since-deleted account.
		user, err := g.users.GetUserByID(claims.UserID)
		if err != nil {
			unauthorized(w, "User not found")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects authenticated non-admin callers with 403. It must be
// stacked after RequireUser.
func (g *Guard) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			unauthorized(w, "Token is missing")
			return
		}
		if !user.IsAdmin {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the authenticated user placed by RequireUser.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

// ContextWithUser returns a context carrying the given user. Handler tests
// use it to exercise protected handlers without the middleware stack.
func ContextWithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func unauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, message)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
