//go:build integration

package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go-forum-app/internal/auth"
	"go-forum-app/internal/config"
	"go-forum-app/internal/data"
	"go-forum-app/internal/logger"
	"go-forum-app/internal/middleware"
	"go-forum-app/internal/render"
	"go-forum-app/internal/service"
	"go-forum-app/internal/session"
	"go-forum-app/internal/view"
	"go-forum-app/web"
)

// setupServer initializes the full application stack: real sessions in the
// store's database and seeded casbin policies.
func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := data.OpenStore()
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	if err := data.Seed(context.Background(), store); err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}

	log := logger.New(config.LogConfig{Level: "error", Format: "console"}, io.Discard)
	forum := service.NewForumService(store, service.NewStoreViewCounter(store.Views, 0), log, config.StoreConfig{RootAdmin: "react_guru"})
	v, err := view.New(web.TemplateFS, render.New())
	if err != nil {
		t.Fatalf("Failed to parse templates: %v", err)
	}
	sm := session.New(config.SessionConfig{Lifetime: 1}, false, store.DB.DB)

	enforcer, err := auth.NewEnforcer()
	if err != nil {
		t.Fatalf("Failed to create enforcer: %v", err)
	}
	auth.SeedDefaultPolicies(enforcer, log)

	nav := NewNavigator(forum, nil, sm, log)
	router := NewRouter(Handlers{
		Forum: NewForumHandler(nav, v, "react_guru"),
		Auth:  NewAuthHandler(nav),
		Admin: NewAdminHandler(nav),
		Seo:   NewSeoHandler(forum, "http://localhost"),
	}, middleware.Authorizer(enforcer, sm, store.Users, log), middleware.Error(log, v), sm, web.StaticFS)

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		store.Close()
	})
	return srv
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("Failed to create cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func fetch(t *testing.T, c *http.Client, method, u string, form url.Values) (int, string) {
	t.Helper()
	var resp *http.Response
	var err error
	if method == http.MethodPost {
		resp, err = c.PostForm(u, form)
	} else {
		resp, err = c.Get(u)
	}
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, u, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestEndToEnd(t *testing.T) {
	srv := setupServer(t)

	t.Run("anonymous visitor cannot post", func(t *testing.T) {
		c := newClient(t)
		code, _ := fetch(t, c, http.MethodPost, srv.URL+"/topics", url.Values{"title": {"x"}, "content": {"y"}, "category_id": {"1"}})
		if code != http.StatusUnauthorized {
			t.Errorf("want 401; got %d", code)
		}
	})

	t.Run("member posts but cannot administer", func(t *testing.T) {
		c := newClient(t)
		code, body := fetch(t, c, http.MethodPost, srv.URL+"/login", url.Values{"username": {"ts_master"}})
		if code != http.StatusOK || !strings.Contains(body, "Charlie") {
			t.Fatalf("expected to land home logged in, got %d", code)
		}

		code, body = fetch(t, c, http.MethodPost, srv.URL+"/topics", url.Values{
			"title": {"Branded types"}, "content": {"Worth it?"}, "category_id": {"4"},
		})
		if code != http.StatusOK || !strings.Contains(body, "<h1>Branded types</h1>") {
			t.Errorf("expected the new topic page, got %d", code)
		}

		code, _ = fetch(t, c, http.MethodPost, srv.URL+"/admin/topics/1/delete", nil)
		if code != http.StatusForbidden {
			t.Errorf("want 403; got %d", code)
		}
	})

	t.Run("admin manages the forum", func(t *testing.T) {
		c := newClient(t)
		fetch(t, c, http.MethodPost, srv.URL+"/login", url.Values{"username": {"react_guru"}})
		code, body := fetch(t, c, http.MethodGet, srv.URL+"/admin", nil)
		if code != http.StatusOK || !strings.Contains(body, "Admin console") {
			t.Fatalf("expected the admin console, got %d", code)
		}

		code, body = fetch(t, c, http.MethodPost, srv.URL+"/admin/topics/4/delete", nil)
		if code != http.StatusOK || strings.Contains(body, "Weekend Plans Discussion") {
			t.Errorf("expected topic 4 to be gone, got %d", code)
		}
	})

	t.Run("sessions are independent", func(t *testing.T) {
		c := newClient(t)
		_, body := fetch(t, c, http.MethodGet, srv.URL+"/", nil)
		if !strings.Contains(body, `href="/login"`) {
			t.Errorf("expected a fresh visitor to be logged out")
		}
	})
}
