package bootstrap

import (
	"strings"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
)

// RegisterBlueprints mounts every bundle's blueprints in bundle order.
// Unless StrictSlashes is configured, routes answer with and without a
// trailing slash.
func RegisterBlueprints(a *app.Application) error {
	a.SetStrictSlashes(a.Config != nil && a.Config.StrictSlashes)

	for _, b := range a.IterBundles() {
		for _, bp := range b.Blueprints {
			if err := a.RegisterBlueprint(b.Name, bp, NormalizePrefix(bp.URLPrefix)); err != nil {
				return err
			}
		}
	}
	return nil
}

// NormalizePrefix strips trailing slashes so that routes declared as
// "/endpoint" never end up under "//".
func NormalizePrefix(prefix string) string {
	return strings.TrimRight(prefix, "/")
}
