package bootstrap

import (
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
)

// RegisterShellContext registers the producer for interactive shells.
// Extensions are captured now; models and serializers are read when the
// shell starts.
func RegisterShellContext(a *app.Application, exts *app.Extensions) {
	captured := exts.Clone()
	a.ShellContextProcessor(func() map[string]any {
		ctx := captured.Map()
		for name, model := range a.Models {
			ctx[name] = model
		}
		for name, s := range a.Serializers {
			ctx[name] = s
		}
		return ctx
	})
}
