package auth

import (
	"fmt"

	"go-forum-app/internal/logger"

	"github.com/casbin/casbin/v2"
)

// SeedDefaultPolicies installs the route policies. It is idempotent.
func SeedDefaultPolicies(e casbin.IEnforcer, log logger.Logger) {
	log.Info("Seeding default authorization policies...")

	policies := [][]string{
		// Anyone can browse and log in.
		{RoleAnonymous, "/*", "GET"},
		{RoleAnonymous, "/login", "POST"},
		{RoleAnonymous, "/logout", "POST"},

		{RoleMember, "/topics", "POST"},
		{RoleMember, "/topics/:id/posts", "POST"},

		{RoleAdmin, "/admin/*", "POST"},
	}
	for _, p := range policies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}

	inheritance := [][2]string{
		{RoleMember, RoleAnonymous},
		{RoleAdmin, RoleMember},
	}
	for _, g := range inheritance {
		if has, _ := e.HasRoleForUser(g[0], g[1]); !has {
			if _, err := e.AddRoleForUser(g[0], g[1]); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add role '%s' -> '%s'", g[0], g[1]))
			}
		}
	}
	log.Info("Policy seeding complete.")
}
