// AngelaMos | 2026
// role_test.go

package user

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/servicesync/backend/internal/config"
)

func testPolicy() RolePolicy {
	return NewRolePolicy(config.RolesConfig{
		DeveloperEmails: []string{"admin@servicesync.dev"},
		BusinessDomain:  "business.com",
	})
}

func TestDeriveRole(t *testing.T) {
	policy := testPolicy()

	t.Run("DeveloperAllowList", func(t *testing.T) {
		assert.Equal(t, RoleDeveloper, DeriveRole("admin@servicesync.dev", policy))
	})

	t.Run("DeveloperCaseInsensitive", func(t *testing.T) {
		assert.Equal(t, RoleDeveloper, DeriveRole("Admin@ServiceSync.DEV", policy))
	})

	t.Run("BusinessDomain", func(t *testing.T) {
		assert.Equal(t, RoleBusiness, DeriveRole("owner@business.com", policy))
	})

	t.Run("BusinessDomainCaseInsensitive", func(t *testing.T) {
		assert.Equal(t, RoleBusiness, DeriveRole("Owner@BUSINESS.COM", policy))
	})

	t.Run("DefaultUser", func(t *testing.T) {
		assert.Equal(t, RoleUser, DeriveRole("someone@gmail.com", policy))
	})

	t.Run("DomainMustMatchSuffix", func(t *testing.T) {
		// A lookalike domain does not get promoted.
		assert.Equal(t, RoleUser, DeriveRole("owner@notbusiness.org", policy))
		assert.Equal(t, RoleUser, DeriveRole("owner@business.com.evil.io", policy))
	})

	t.Run("AllowListBeatsDomain", func(t *testing.T) {
		policy := NewRolePolicy(config.RolesConfig{
			DeveloperEmails: []string{"boss@business.com"},
			BusinessDomain:  "business.com",
		})
		assert.Equal(t, RoleDeveloper, DeriveRole("boss@business.com", policy))
	})

	t.Run("EmptyEmail", func(t *testing.T) {
		assert.Equal(t, RoleUser, DeriveRole("", policy))
	})
}
