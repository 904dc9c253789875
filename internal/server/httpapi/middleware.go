package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type ctxKey string

const userKey ctxKey = "user"

// authMiddleware is the single authorization gate for protected routes.
// It extracts the bearer token, verifies it, resolves the subject against
// the credential store, and stores the user in the request context.
// Every failure mode collapses to 401 for the caller; expiry and bad
// signatures are only distinguished in logs.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if header == "" || len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		userID, err := auth.GetUserIDFromToken(parts[1], s.jwtSecret)
		if err != nil {
			s.logger.Warn(ctx, "token rejected", "reason", err.Error())
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		user, err := s.users.GetUser(ctx, userID)
		if err != nil {
			s.logger.Warn(ctx, "token subject did not resolve", "user_id", userID)
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, userKey, user)))
	})
}

// userFromContext returns the authenticated user placed by authMiddleware.
func userFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}
