// AngelaMos | 2026
// role.go

package user

import (
	"strings"

	"github.com/servicesync/backend/internal/config"
)

// RolePolicy is the injected allow-list configuration for signup-time
// role derivation. Entries are normalized to lower case once.
type RolePolicy struct {
	developerEmails map[string]struct{}
	businessDomain  string
}

func NewRolePolicy(cfg config.RolesConfig) RolePolicy {
	developers := make(map[string]struct{}, len(cfg.DeveloperEmails))
	for _, email := range cfg.DeveloperEmails {
		developers[strings.ToLower(email)] = struct{}{}
	}

	return RolePolicy{
		developerEmails: developers,
		businessDomain:  strings.ToLower(cfg.BusinessDomain),
	}
}

// DeriveRole maps an email address to a role, case-insensitively.
// It is evaluated exactly once, at account creation; the result is
// persisted and never recomputed, so later allow-list changes do not
// retroactively reclassify existing accounts.
func DeriveRole(email string, policy RolePolicy) string {
	lower := strings.ToLower(strings.TrimSpace(email))

	if _, ok := policy.developerEmails[lower]; ok {
		return RoleDeveloper
	}

	if policy.businessDomain != "" &&
		strings.HasSuffix(lower, "@"+policy.businessDomain) {
		return RoleBusiness
	}

	return RoleUser
}
