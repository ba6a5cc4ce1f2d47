package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dsaheb/dsahebapi/internal/models"
	"github.com/sirupsen/logrus"
)

type contextKey string

const userContextKey contextKey = "user"

// Authenticator resolves a bearer token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type AuthMiddleware struct {
	sessions Authenticator
	logger   *logrus.Logger
}

func NewAuthMiddleware(sessions Authenticator, logger *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		logger:   logger,
	}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respond(w, http.StatusUnauthorized, "failure", "Missing authorization header")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			respond(w, http.StatusUnauthorized, "failure", "Invalid authorization header format")
			return
		}

		user, err := m.sessions.Authenticate(r.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			m.logger.WithError(err).Debug("Authentication failed")
			respond(w, http.StatusUnauthorized, "failure", "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the user set by RequireAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok && user != nil
}
