package auth

import (
	"context"
	"fmt"

	"go-forum-app/internal/data"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/util"
)

// Roles, from least to most privileged. Each role inherits the one before it.
const (
	RoleAnonymous = "anonymous"
	RoleMember    = "member"
	RoleAdmin     = "admin"
)

// accessModel is RBAC over request paths. Policies name a role, a keyMatch2
// path pattern and an HTTP method.
const accessModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && r.act == p.act
`

// NewEnforcer creates an enforcer over the in-memory access model. Policies
// are held in memory and must be seeded with SeedDefaultPolicies.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(accessModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse access model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	return enforcer, nil
}

// UserLookup resolves a session's user id to the current user record. A
// miss is (nil, nil).
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*data.User, error)
}

// RoleOf returns the role of the user with the given id. Unknown and empty
// ids are anonymous, as are lookups that fail. The record is read on every
// call so admin changes take effect on the user's next request.
func RoleOf(ctx context.Context, users UserLookup, userID string) string {
	if userID == "" {
		return RoleAnonymous
	}
	user, err := users.GetByID(ctx, userID)
	if err != nil || user == nil {
		return RoleAnonymous
	}
	if user.IsAdmin {
		return RoleAdmin
	}
	return RoleMember
}
