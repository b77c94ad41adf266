package middleware

import (
	"net/http"

	"go-forum-app/internal/view"
)

// SettingsMiddleware checks for a "basic=true" query parameter and sets a corresponding
// flag in the request context. Templates drop HTMX in basic mode and fall
// back to plain links and form posts.
func SettingsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		basicMode := r.URL.Query().Get("basic") == "true"
		next.ServeHTTP(w, r.WithContext(view.WithBasicMode(r.Context(), basicMode)))
	})
}
