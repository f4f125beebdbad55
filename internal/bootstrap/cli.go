package bootstrap

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
)

// RegisterCLICommands adds the top-level commands, then each bundle's
// command group in bundle order. A name that is already taken is logged
// once and returned as a *CommandConflictError.
func RegisterCLICommands(a *app.Application, topLevel []*cobra.Command) error {
	commands := append([]*cobra.Command(nil), topLevel...)
	for _, b := range a.IterBundles() {
		if b.HasCommandGroup() {
			commands = append(commands, b.Commands)
		}
	}

	for _, cmd := range commands {
		name := cmd.Name()
		if a.HasCommand(name) {
			a.Logger.Error(fmt.Sprintf("Command name conflict: \"%s\" is taken.", name), zap.String("command", name))
			return &CommandConflictError{Name: name}
		}
		a.CLI.AddCommand(cmd)
	}

	a.Metrics.CommandsRegistered.Set(float64(len(a.CLI.Commands())))
	return nil
}
