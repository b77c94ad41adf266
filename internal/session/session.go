package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"go-forum-app/internal/config"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session keys shared by the handlers and the authorizer.
const (
	// UserKey holds the id of the logged-in user.
	UserKey = "user_subject"
	// StateKey holds the serialized navigation state.
	StateKey = "navigation"
	// FlashKey holds a one-shot message for the next page render.
	FlashKey = "flash"
)

// Manager is an interface that abstracts the session management implementation.
// This allows for easier testing and dependency injection.
type Manager interface {
	LoadAndSave(next http.Handler) http.Handler
	Put(ctx context.Context, key string, val interface{})
	GetString(ctx context.Context, key string) string
	GetBytes(ctx context.Context, key string) []byte
	PopString(ctx context.Context, key string) string
	RenewToken(ctx context.Context) error
	Destroy(ctx context.Context) error
	Remove(ctx context.Context, key string)
}

// New creates a session manager whose sessions live in the sessions table of
// db. Expired sessions are swept every five minutes. secure marks the cookie
// as HTTPS-only.
func New(cfg config.SessionConfig, secure bool, db *sql.DB) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.NewWithCleanupInterval(db, 5*time.Minute)
	sm.Lifetime = time.Duration(cfg.Lifetime) * time.Hour
	if cfg.CookieName != "" {
		sm.Cookie.Name = cfg.CookieName
	}
	sm.Cookie.Persist = true
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = secure
	return sm
}
