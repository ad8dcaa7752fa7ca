package models

import "time"

// Roles understood by the API.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        string
	UserName  string
	Role      string
	Salt      []byte
	Verifier  []byte
	CreatedAt time.Time
}

// IsAdmin reports whether the user may call admin endpoints.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
