package middleware

import (
	"context"
	"net/http"

	"squadnet/internal/models"
	"squadnet/internal/store"
)

type contextKey string

const userContextKey contextKey = "user"

// Auth resolves the session cookie to a user and stores it in the
// request context. Requests without a valid session pass through
// anonymously.
func Auth(s *store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			cookie, err := req.Cookie("session")
			if err != nil {
				next.ServeHTTP(w, req)
				return
			}

			user := s.SessionUser(cookie.Value)
			if user == nil {
				next.ServeHTTP(w, req)
				return
			}

			ctx := context.WithValue(req.Context(), userContextKey, user)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}
