package security

import "time"

// User is an account that can log in.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Email        string    `json:"email,omitempty"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasRole reports whether the user holds role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Role names a set of permissions.
type Role struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// DefaultRole is granted to every new user.
var DefaultRole = Role{Name: "member", Description: "Regular account"}
