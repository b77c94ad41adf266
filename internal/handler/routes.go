package handler

import (
	"io/fs"
	"net/http"

	"go-forum-app/internal/middleware"
	"go-forum-app/internal/session"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handlers groups the route handlers.
type Handlers struct {
	Forum *ForumHandler
	Auth  *AuthHandler
	Admin *AdminHandler
	Seo   *SeoHandler
}

// NewRouter creates and configures a new chi router. static must hold the
// assets under a top-level "static" directory.
func NewRouter(h Handlers, authzMiddleware func(http.Handler) http.Handler, errorMiddleware func(middleware.AppHandler) http.Handler, sm session.Manager, static fs.FS) *chi.Mux {
	r := chi.NewRouter()

	// A good base middleware stack
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})
	r.Handle("/static/*", http.FileServer(http.FS(static)))
	r.Get("/robots.txt", h.Seo.robotsHandler)
	r.Get("/sitemap.xml", h.Seo.sitemapHandler)

	r.Group(func(r chi.Router) {
		r.Use(sm.LoadAndSave)
		r.Use(middleware.SettingsMiddleware)
		r.Use(authzMiddleware)

		r.Method(http.MethodGet, "/", errorMiddleware(h.Forum.showHandler))
		r.Method(http.MethodGet, "/home", errorMiddleware(h.Forum.homeHandler()))
		r.Method(http.MethodGet, "/back", errorMiddleware(h.Forum.backHandler()))
		r.Method(http.MethodGet, "/categories/{id:[0-9]+}", errorMiddleware(h.Forum.categoryHandler()))
		r.Method(http.MethodGet, "/topics/{id:[0-9]+}", errorMiddleware(h.Forum.topicHandler()))
		r.Method(http.MethodGet, "/users/{id}", errorMiddleware(h.Forum.userHandler()))
		r.Method(http.MethodGet, "/admin", errorMiddleware(h.Forum.adminHandler()))
		r.Method(http.MethodPost, "/topics", errorMiddleware(h.Forum.createTopicHandler()))
		r.Method(http.MethodPost, "/topics/{id:[0-9]+}/posts", errorMiddleware(h.Forum.replyHandler()))

		r.Method(http.MethodGet, "/login", errorMiddleware(h.Auth.loginPageHandler()))
		r.Method(http.MethodPost, "/login", errorMiddleware(h.Auth.loginHandler()))
		r.Method(http.MethodPost, "/logout", errorMiddleware(h.Auth.logoutHandler()))

		r.Method(http.MethodPost, "/admin/categories", errorMiddleware(h.Admin.createCategoryHandler()))
		r.Method(http.MethodPost, "/admin/categories/{id:[0-9]+}", errorMiddleware(h.Admin.editCategoryHandler()))
		r.Method(http.MethodPost, "/admin/categories/{id:[0-9]+}/delete", errorMiddleware(h.Admin.deleteCategoryHandler()))
		r.Method(http.MethodPost, "/admin/topics", errorMiddleware(h.Admin.createTopicHandler()))
		r.Method(http.MethodPost, "/admin/topics/{id:[0-9]+}/delete", errorMiddleware(h.Admin.deleteTopicHandler()))
		r.Method(http.MethodPost, "/admin/users", errorMiddleware(h.Admin.createUserHandler()))
		r.Method(http.MethodPost, "/admin/users/{id}/delete", errorMiddleware(h.Admin.deleteUserHandler()))
		r.Method(http.MethodPost, "/admin/users/{id}/admin", errorMiddleware(h.Admin.toggleAdminHandler()))
		r.Method(http.MethodPost, "/admin/summary", errorMiddleware(h.Admin.summaryHandler()))
	})

	return r
}
