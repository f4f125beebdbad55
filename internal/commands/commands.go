package commands

import (
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
)

// Factory builds a command bound to an application.
type Factory func(a *app.Application) *cobra.Command

// Builtin returns the commands every application has: run, shell and
// routes.
func Builtin() []Factory {
	return []Factory{NewRunCommand, NewShellCommand, NewRoutesCommand}
}

// TopLevel returns the project's own top-level commands.
func TopLevel() []Factory {
	return []Factory{NewBundlesCommand, NewDBCommand}
}
