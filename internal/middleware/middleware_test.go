package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-forum-app/internal/apperror"
	"go-forum-app/internal/auth"
	"go-forum-app/internal/data"
	"go-forum-app/internal/logger"
	"go-forum-app/internal/render"
	"go-forum-app/internal/view"
	"go-forum-app/web"
)

// mockSessionManager is a mock implementation of the session.Manager interface.
type mockSessionManager struct {
	values map[string]interface{}
}

func (m *mockSessionManager) LoadAndSave(next http.Handler) http.Handler { return next }
func (m *mockSessionManager) Put(ctx context.Context, key string, val interface{}) {
	m.values[key] = val
}
func (m *mockSessionManager) GetString(ctx context.Context, key string) string {
	s, _ := m.values[key].(string)
	return s
}
func (m *mockSessionManager) GetBytes(ctx context.Context, key string) []byte {
	b, _ := m.values[key].([]byte)
	return b
}
func (m *mockSessionManager) PopString(ctx context.Context, key string) string {
	s := m.GetString(ctx, key)
	delete(m.values, key)
	return s
}
func (m *mockSessionManager) RenewToken(ctx context.Context) error { return nil }
func (m *mockSessionManager) Destroy(ctx context.Context) error {
	m.values = map[string]interface{}{}
	return nil
}
func (m *mockSessionManager) Remove(ctx context.Context, key string) { delete(m.values, key) }

type mockUsers map[string]data.User

func (m mockUsers) GetByID(ctx context.Context, id string) (*data.User, error) {
	u, ok := m[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func TestAuthorizer(t *testing.T) {
	e, err := auth.NewEnforcer()
	if err != nil {
		t.Fatalf("failed to create enforcer: %v", err)
	}
	auth.SeedDefaultPolicies(e, logger.Nop())
	users := mockUsers{
		"admin":  {ID: "admin", IsAdmin: true},
		"member": {ID: "member"},
	}

	testCases := []struct {
		name     string
		subject  string
		method   string
		path     string
		wantCode int
		wantRole string
	}{
		{"anonymous browse", "", http.MethodGet, "/topics/1", http.StatusOK, auth.RoleAnonymous},
		{"anonymous create topic", "", http.MethodPost, "/topics", http.StatusUnauthorized, ""},
		{"stale subject is anonymous", "deleted", http.MethodPost, "/topics/1/posts", http.StatusUnauthorized, ""},
		{"member reply", "member", http.MethodPost, "/topics/1/posts", http.StatusOK, auth.RoleMember},
		{"member admin op", "member", http.MethodPost, "/admin/topics/1/delete", http.StatusForbidden, ""},
		{"admin op", "admin", http.MethodPost, "/admin/categories", http.StatusOK, auth.RoleAdmin},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sm := &mockSessionManager{values: map[string]interface{}{}}
			if tc.subject != "" {
				sm.values["user_subject"] = tc.subject
			}
			var gotRole string
			handler := Authorizer(e, sm, users, logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotRole = GetUserInfo(r.Context()).Role
			}))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))

			if rr.Code != tc.wantCode {
				t.Errorf("want status %d; got %d", tc.wantCode, rr.Code)
			}
			if gotRole != tc.wantRole {
				t.Errorf("want role %q; got %q", tc.wantRole, gotRole)
			}
		})
	}
}

func TestGetUserInfoDefaultsToAnonymous(t *testing.T) {
	if got := GetUserInfo(context.Background()); got.Role != auth.RoleAnonymous || got.Subject != "" {
		t.Errorf("unexpected default user info: %+v", got)
	}
}

func TestError(t *testing.T) {
	v, err := view.New(web.TemplateFS, render.New())
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}
	mw := Error(logger.Nop(), v)

	t.Run("no error", func(t *testing.T) {
		h := mw(func(w http.ResponseWriter, r *http.Request) *AppError {
			w.WriteHeader(http.StatusTeapot)
			return nil
		})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
		if rr.Code != http.StatusTeapot {
			t.Errorf("want %d; got %d", http.StatusTeapot, rr.Code)
		}
	})

	t.Run("taxonomy error", func(t *testing.T) {
		h := mw(func(w http.ResponseWriter, r *http.Request) *AppError {
			return NewAppError(fmt.Errorf("%w: category has topics", apperror.ErrConflict), "Could not delete category")
		})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest("POST", "/admin/categories/1/delete", nil))
		if rr.Code != http.StatusConflict {
			t.Errorf("want %d; got %d", http.StatusConflict, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "category has topics") {
			t.Errorf("expected the error message in the page")
		}
	})

	t.Run("internal error hides details", func(t *testing.T) {
		h := mw(func(w http.ResponseWriter, r *http.Request) *AppError {
			return NewAppError(errors.New("database is locked"), "Something went wrong")
		})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
		if rr.Code != http.StatusInternalServerError {
			t.Errorf("want %d; got %d", http.StatusInternalServerError, rr.Code)
		}
		body := rr.Body.String()
		if strings.Contains(body, "database is locked") || !strings.Contains(body, "Something went wrong") {
			t.Errorf("unexpected error page: %s", body)
		}
	})

	t.Run("panic", func(t *testing.T) {
		h := mw(func(w http.ResponseWriter, r *http.Request) *AppError {
			panic("boom")
		})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
		if rr.Code != http.StatusInternalServerError {
			t.Errorf("want %d; got %d", http.StatusInternalServerError, rr.Code)
		}
	})
}

func TestSettingsMiddleware(t *testing.T) {
	var basic bool
	h := SettingsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		basic = view.IsBasicMode(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/?basic=true", nil))
	if !basic {
		t.Errorf("expected basic mode")
	}
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if basic {
		t.Errorf("expected basic mode to be off")
	}
}
