// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Name         string    `db:"name"`
	Role         string    `db:"role"`
	GoogleID     *string   `db:"google_id"`
	TokenVersion int       `db:"token_version"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// HasPassword reports whether the account can log in with credentials.
// Federated identities carry a google_id and no password hash.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

func (u *User) IsDeveloper() bool {
	return u.Role == RoleDeveloper
}

const (
	RoleUser      = "user"
	RoleBusiness  = "business"
	RoleDeveloper = "developer"
)
