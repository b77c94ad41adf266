package handler

import (
	"net/http"

	"go-forum-app/internal/middleware"
	"go-forum-app/internal/navigation"
)

// AuthHandler handles username login and logout.
type AuthHandler struct {
	nav *Navigator
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(nav *Navigator) *AuthHandler {
	return &AuthHandler{nav: nav}
}

// loginPageHandler opens the login form.
func (h *AuthHandler) loginPageHandler() middleware.AppHandler {
	return h.nav.event(func(r *http.Request, c *navigation.Controller) error {
		c.ClickLogin()
		return nil
	})
}

// loginHandler logs the visitor in. The session token is renewed on a
// change of identity.
func (h *AuthHandler) loginHandler() middleware.AppHandler {
	return h.nav.event(func(r *http.Request, c *navigation.Controller) error {
		c.ClickLogin()
		if err := c.Login(r.Context(), r.FormValue("username")); err != nil {
			return err
		}
		return h.nav.sessions.RenewToken(r.Context())
	})
}

// logoutHandler logs the visitor out.
func (h *AuthHandler) logoutHandler() middleware.AppHandler {
	return h.nav.event(func(r *http.Request, c *navigation.Controller) error {
		c.Logout()
		return h.nav.sessions.RenewToken(r.Context())
	})
}
