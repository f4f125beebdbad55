package security

import (
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/bundle"
)

// Name is the bundle's catalog name.
const Name = "security"

// New returns a fresh bundle descriptor with its own account service.
func New() *bundle.Bundle {
	svc := newService()
	return &bundle.Bundle{
		Name:        Name,
		ModulePath:  "internal/bundles/security",
		Description: "User accounts and session login",
		Blueprints: []*bundle.Blueprint{
			{Name: "auth", URLPrefix: "/auth/", Routes: svc.routes},
		},
		Models: []bundle.ModelEntry{
			{Name: "User", Model: &User{}},
			{Name: "Role", Model: &Role{}},
		},
		Serializers: []bundle.SerializerEntry{
			{Name: "UserSerializer", Serializer: UserSerializer{}},
			{Name: "RoleSerializer", Serializer: RoleSerializer{}},
		},
		Commands: svc.commands(),
	}
}
