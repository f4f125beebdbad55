package security

import "github.com/bytedance/sonic"

// UserSerializer renders users without their password hash.
type UserSerializer struct{}

// Model returns the serialized model.
func (UserSerializer) Model() any { return &User{} }

// Dump encodes u.
func (UserSerializer) Dump(u *User) ([]byte, error) {
	if u.Roles == nil {
		c := *u
		c.Roles = []string{}
		u = &c
	}
	return sonic.Marshal(u)
}

// RoleSerializer renders roles.
type RoleSerializer struct{}

// Model returns the serialized model.
func (RoleSerializer) Model() any { return &Role{} }

// Dump encodes r.
func (RoleSerializer) Dump(r *Role) ([]byte, error) {
	return sonic.Marshal(r)
}
