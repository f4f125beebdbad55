// Package bundles registers the compiled-in bundles.
package bundles

import (
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/bundle"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/bundles/security"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/bundles/site"
)

// Catalog returns the catalog of compiled-in bundles. Manifests under the
// configured bundle roots select and order them.
func Catalog() *bundle.Catalog {
	return bundle.NewCatalog().
		MustRegister(security.Name, bundle.ModuleFunc(security.New)).
		MustRegister(site.Name, bundle.ModuleFunc(site.New))
}
