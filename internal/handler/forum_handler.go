package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"go-forum-app/internal/apperror"
	"go-forum-app/internal/middleware"
	"go-forum-app/internal/navigation"
	"go-forum-app/internal/session"
	"go-forum-app/internal/view"

	"github.com/go-chi/chi/v5"
)

// ForumHandler renders the current view and handles the browsing events.
type ForumHandler struct {
	nav       *Navigator
	view      *view.View
	rootAdmin string
}

// NewForumHandler creates a new ForumHandler with the given dependencies.
func NewForumHandler(nav *Navigator, v *view.View, rootAdmin string) *ForumHandler {
	return &ForumHandler{nav: nav, view: v, rootAdmin: rootAdmin}
}

// showHandler reloads the visitor's current view and renders it.
func (h *ForumHandler) showHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	ctx := r.Context()
	c := h.nav.load(r)
	c.Reload(ctx)
	snap := c.Snapshot()

	data := map[string]interface{}{
		"User":       c.User(),
		"Categories": snap.Categories,
		"Flash":      h.nav.sessions.PopString(ctx, session.FlashKey),
	}
	page, status := "home.html", http.StatusOK

	switch v := c.View().(type) {
	case navigation.Home:
		data["Title"] = "Latest topics"
		data["Topics"] = snap.Topics
	case navigation.CategoryPage:
		category := v.Category
		data["Title"] = category.Name
		data["Category"] = &category
		data["Topics"] = snap.Topics
	case navigation.TopicPage:
		if !snap.TopicFound {
			page, status = "not_found.html", http.StatusNotFound
			data["Title"] = "Topic not found"
			break
		}
		page = "topic.html"
		data["Title"] = snap.Topic.Title
		data["Topic"] = snap.Topic
		data["Posts"] = snap.Posts
		data["Authors"] = snap.Authors
	case navigation.ProfilePage:
		page = "profile.html"
		data["Title"] = snap.Profile.Name
		data["Profile"] = snap.Profile
		data["ProfileFound"] = snap.ProfileFound
		data["ProfileTopics"] = snap.ProfileTopics
		data["ProfileReplies"] = snap.ProfileReplies
		if !snap.ProfileFound {
			status = http.StatusNotFound
		}
	case navigation.LoginPage:
		page = "login.html"
		data["Title"] = "Log in"
	case navigation.AdminPage:
		if snap.Unauthorized {
			page, status = "unauthorized.html", http.StatusForbidden
			data["Title"] = "Unauthorized"
			break
		}
		page = "admin.html"
		data["Title"] = "Admin"
		data["AllUsers"] = snap.AllUsers
		data["AllTopics"] = snap.AllTopics
		data["AllPosts"] = snap.AllPosts
		data["Authors"] = snap.Authors
		data["RootAdmin"] = h.rootAdmin
		data["Summary"] = h.nav.sessions.PopString(ctx, summaryKey)
	}

	// The reload may have logged out a user who no longer exists.
	if err := h.nav.save(r, c); err != nil {
		return middleware.NewAppError(err, "Failed to save navigation state")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.view.Render(w, r, page, data); err != nil {
		h.nav.log.Error(err, "Failed to render "+page)
	}
	return nil
}

func (h *ForumHandler) homeHandler() middleware.AppHandler {
	return h.nav.event(func(r *http.Request, c *navigation.Controller) error {
		c.ClickHome()
		return nil
	})
}

func (h *ForumHandler) backHandler() middleware.AppHandler {
	return h.nav.event(func(r *http.Request, c *navigation.Controller) error {
		c.Back()
		return nil
	})
}

func (h *ForumHandler) categoryHandler() middleware.AppHandler {
	return h.nav.event(func(r *http.Request, c *navigation.Controller) error {
		id, err := idParam(r, "id")
		if err != nil {
			return err
		}
		for _, category := range h.nav.forum.ListCategories(r.Context()) {
			if category.ID == id {
				c.SelectCategory(&category)
				return nil
			}
		}
		c.SelectCategory(nil)
		return fmt.Errorf("%w: category %d", apperror.ErrNotFound, id)
	})
}

func (h *ForumHandler) topicHandler() middleware.AppHandler {
	return h.nav.event(func(r *http.Request, c *navigation.Controller) error {
		id, err := idParam(r, "id")
		if err != nil {
			return err
		}
		c.Select(id)
		h.nav.forum.RecordTopicView(r.Context(), id, h.nav.viewer(r.Context()))
		return nil
	})
}

func (h *ForumHandler) userHandler() middleware.AppHandler {
	return h.nav.event(func(r *http.Request, c *navigation.Controller) error {
		c.ClickUser(chi.URLParam(r, "id"))
		return nil
	})
}

func (h *ForumHandler) adminHandler() middleware.AppHandler {
	return h.nav.event(func(r *http.Request, c *navigation.Controller) error {
		c.ClickAdmin()
		return nil
	})
}

func (h *ForumHandler) createTopicHandler() middleware.AppHandler {
	return h.nav.event(func(r *http.Request, c *navigation.Controller) error {
		categoryID, _ := strconv.ParseInt(r.FormValue("category_id"), 10, 64)
		_, err := c.CreateTopic(r.Context(), navigation.TopicForm{
			Title:      r.FormValue("title"),
			Content:    r.FormValue("content"),
			CategoryID: categoryID,
		})
		return err
	})
}

func (h *ForumHandler) replyHandler() middleware.AppHandler {
	return h.nav.event(func(r *http.Request, c *navigation.Controller) error {
		id, err := idParam(r, "id")
		if err != nil {
			return err
		}
		// Replies go to the topic in the URL, which is normally the open one.
		if page, ok := c.View().(navigation.TopicPage); !ok || page.TopicID != id {
			c.Select(id)
		}
		_, err = c.Reply(r.Context(), navigation.ReplyForm{Content: r.FormValue("content")})
		return err
	})
}

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", apperror.ErrValidation, chi.URLParam(r, name))
	}
	return id, nil
}
