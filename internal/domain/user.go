package domain

import "time"

// Role is the closed set of account roles.
type Role string

const (
	RoleMember    Role = "member"
	RoleLibrarian Role = "librarian"
	RoleAdmin     Role = "admin"
)

// Valid reports whether the role is one of the three known values.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleLibrarian, RoleAdmin:
		return true
	}
	return false
}

// User is the domain model for registered accounts.
//
// TokenMarker is the revocation marker: every issued token embeds the
// marker current at issue time, and a token is only honored while the
// two still match. Rewriting the marker invalidates all outstanding
// tokens for the user at once.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	TokenMarker  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
