package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"go-forum-app/internal/apperror"
	"go-forum-app/internal/logger"
	"go-forum-app/internal/middleware"
	"go-forum-app/internal/navigation"
	"go-forum-app/internal/session"
	"go-forum-app/internal/view"

	"github.com/google/uuid"
)

// Forum is the data service behind the handlers.
type Forum interface {
	navigation.Forum
	RecordTopicView(ctx context.Context, topicID int64, viewer string)
}

const (
	viewerKey  = "viewer"
	summaryKey = "summary"
)

// Navigator restores a visitor's navigation controller from their session
// and stores it back after an event.
type Navigator struct {
	forum      Forum
	summarizer navigation.ActivitySummarizer
	sessions   session.Manager
	log        logger.Logger
}

// NewNavigator creates a new Navigator. summarizer may be nil.
func NewNavigator(forum Forum, summarizer navigation.ActivitySummarizer, sm session.Manager, log logger.Logger) *Navigator {
	return &Navigator{forum: forum, summarizer: summarizer, sessions: sm, log: log}
}

// load restores the visitor's controller. A missing or unreadable state
// starts over on the home page.
func (n *Navigator) load(r *http.Request) *navigation.Controller {
	ctx := r.Context()
	raw := n.sessions.GetBytes(ctx, session.StateKey)
	if len(raw) == 0 {
		return navigation.New(n.forum, n.summarizer)
	}
	var st navigation.State
	if err := json.Unmarshal(raw, &st); err != nil {
		n.log.Warn("Discarding unreadable navigation state: " + err.Error())
		return navigation.New(n.forum, n.summarizer)
	}
	// The session user is authoritative; a state written for someone else
	// keeps its page but not its user.
	if st.User != nil && st.User.ID != n.sessions.GetString(ctx, session.UserKey) {
		st.User = nil
	}
	return navigation.Restore(n.forum, n.summarizer, st)
}

// save stores the controller's state and the current user id.
func (n *Navigator) save(r *http.Request, c *navigation.Controller) error {
	ctx := r.Context()
	raw, err := json.Marshal(c.State())
	if err != nil {
		return err
	}
	n.sessions.Put(ctx, session.StateKey, raw)
	if user := c.User(); user != nil {
		n.sessions.Put(ctx, session.UserKey, user.ID)
	} else {
		n.sessions.Remove(ctx, session.UserKey)
	}
	return nil
}

// viewer returns a stable id for the visitor, used to count topic views
// once per visitor.
func (n *Navigator) viewer(ctx context.Context) string {
	if id := n.sessions.GetString(ctx, viewerKey); id != "" {
		return id
	}
	id := uuid.NewString()
	n.sessions.Put(ctx, viewerKey, id)
	return id
}

// event applies fn to the visitor's controller and redirects to the current
// view. Errors the visitor can act on are shown as a flash message on the
// next render; anything else is an error page.
func (n *Navigator) event(fn func(r *http.Request, c *navigation.Controller) error) middleware.AppHandler {
	return func(w http.ResponseWriter, r *http.Request) *middleware.AppError {
		c := n.load(r)
		if err := fn(r, c); err != nil {
			if !apperror.IsUserFacing(err) {
				return middleware.NewAppError(err, "Something went wrong")
			}
			n.flash(r.Context(), err.Error())
		}
		if err := n.save(r, c); err != nil {
			return middleware.NewAppError(err, "Failed to save navigation state")
		}
		redirect(w, r, "/")
		return nil
	}
}

func (n *Navigator) flash(ctx context.Context, msg string) {
	n.sessions.Put(ctx, session.FlashKey, msg)
}

// redirect sends HTMX requests an HX-Redirect header and everyone else a
// 303. Basic mode survives the redirect.
func redirect(w http.ResponseWriter, r *http.Request, to string) {
	if view.IsBasicMode(r.Context()) {
		to += "?basic=true"
	}
	if r.Header.Get("HX-Request") == "true" && !view.IsBasicMode(r.Context()) {
		w.Header().Set("HX-Redirect", to)
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}
