// AngelaMos | 2026
// policy.go

package listing

import (
	"github.com/servicesync/backend/internal/user"
)

// Authorization rules for listings. Pure functions over role and
// ownership so they can be tested without any infrastructure.

// CanCreate allows any publisher role. Plain users browse and review
// but never own listings.
func CanCreate(role string) bool {
	return role == user.RoleBusiness || role == user.RoleDeveloper
}

// CanMutate allows the owner, or a developer acting on any listing.
func CanMutate(role, ownerID, callerID string) bool {
	if role == user.RoleDeveloper {
		return true
	}
	return ownerID == callerID
}

// CanDelete uses the same rule as mutation.
func CanDelete(role, ownerID, callerID string) bool {
	return CanMutate(role, ownerID, callerID)
}
