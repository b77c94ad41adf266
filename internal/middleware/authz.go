package middleware

import (
	"net/http"

	"go-forum-app/internal/auth"
	"go-forum-app/internal/logger"
	"go-forum-app/internal/session"

	"github.com/casbin/casbin/v2"
)

// Authorizer creates a new middleware for authorization.
// It resolves the session user's role and checks it with Casbin against the
// request path and method.
func Authorizer(e casbin.IEnforcer, sm session.Manager, users auth.UserLookup, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := sm.GetString(r.Context(), session.UserKey)
			role := auth.RoleOf(r.Context(), users, subject)

			// Add user info to the request context for downstream handlers.
			r = r.WithContext(SetUserInfo(r.Context(), &UserInfo{Subject: subject, Role: role}))

			allowed, err := e.Enforce(role, r.URL.Path, r.Method)
			if err != nil {
				log.Error(err, "Authorization check failed")
				http.Error(w, "Authorization error", http.StatusInternalServerError)
				return
			}

			if !allowed {
				if role == auth.RoleAnonymous {
					http.Error(w, "Login required", http.StatusUnauthorized)
					return
				}
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
