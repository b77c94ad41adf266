package handler

import (
	"net/http"
	"strconv"

	"go-forum-app/internal/middleware"
	"go-forum-app/internal/navigation"

	"github.com/go-chi/chi/v5"
)

// AdminHandler handles the admin console's forms. Every action reloads the
// console through the visitor's controller.
type AdminHandler struct {
	nav *Navigator
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(nav *Navigator) *AdminHandler {
	return &AdminHandler{nav: nav}
}

func categoryForm(r *http.Request) navigation.CategoryForm {
	return navigation.CategoryForm{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Color:       r.FormValue("color"),
	}
}

func (h *AdminHandler) createCategoryHandler() middleware.AppHandler {
	return h.nav.event(func(r *http.Request, c *navigation.Controller) error {
		_, err := c.CreateCategory(r.Context(), categoryForm(r))
		return err
	})
}

func (h *AdminHandler) editCategoryHandler() middleware.AppHandler {
	return h.nav.event(func(r *http.Request, c *navigation.Controller) error {
		id, err := idParam(r, "id")
		if err != nil {
			return err
		}
		_, err = c.EditCategory(r.Context(), id, categoryForm(r))
		return err
	})
}

func (h *AdminHandler) deleteCategoryHandler() middleware.AppHandler {
	return h.nav.event(func(r *http.Request, c *navigation.Controller) error {
		id, err := idParam(r, "id")
		if err != nil {
			return err
		}
		return c.DeleteCategory(r.Context(), id)
	})
}

func (h *AdminHandler) createTopicHandler() middleware.AppHandler {
	return h.nav.event(func(r *http.Request, c *navigation.Controller) error {
		categoryID, _ := strconv.ParseInt(r.FormValue("category_id"), 10, 64)
		_, err := c.AdminCreateTopic(r.Context(), navigation.AdminTopicForm{
			Title:      r.FormValue("title"),
			Content:    r.FormValue("content"),
			CategoryID: categoryID,
			AuthorID:   r.FormValue("author_id"),
		})
		return err
	})
}

func (h *AdminHandler) deleteTopicHandler() middleware.AppHandler {
	return h.nav.event(func(r *http.Request, c *navigation.Controller) error {
		id, err := idParam(r, "id")
		if err != nil {
			return err
		}
		return c.DeleteTopic(r.Context(), id)
	})
}

func (h *AdminHandler) createUserHandler() middleware.AppHandler {
	return h.nav.event(func(r *http.Request, c *navigation.Controller) error {
		_, err := c.CreateUser(r.Context(), navigation.UserForm{
			Username: r.FormValue("username"),
			Name:     r.FormValue("name"),
		})
		return err
	})
}

func (h *AdminHandler) deleteUserHandler() middleware.AppHandler {
	return h.nav.event(func(r *http.Request, c *navigation.Controller) error {
		return c.DeleteUser(r.Context(), chi.URLParam(r, "id"))
	})
}

func (h *AdminHandler) toggleAdminHandler() middleware.AppHandler {
	return h.nav.event(func(r *http.Request, c *navigation.Controller) error {
		_, err := c.ToggleAdminStatus(r.Context(), chi.URLParam(r, "id"))
		return err
	})
}

// summaryHandler generates the activity summary. Summarizer failures,
// including a missing API key, are shown to the admin as a flash message.
func (h *AdminHandler) summaryHandler() middleware.AppHandler {
	return h.nav.event(func(r *http.Request, c *navigation.Controller) error {
		text, err := c.GenerateSummary(r.Context())
		if err != nil {
			if c.User() == nil || !c.User().IsAdmin {
				return err
			}
			h.nav.log.Warn("Activity summary failed: " + err.Error())
			h.nav.flash(r.Context(), "Could not generate summary: "+err.Error())
			return nil
		}
		h.nav.sessions.Put(r.Context(), summaryKey, text)
		return nil
	})
}
