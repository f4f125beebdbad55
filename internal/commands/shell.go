package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/shell"
)

// NewShellCommand creates the `shell` command: a JavaScript REPL with the
// application's shell context, plus the application itself as `app`.
func NewShellCommand(a *app.Application) *cobra.Command {
	var command string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive shell with the application context",
		Example: `  # Interactive session
  appfactory shell

  # Evaluate one expression
  appfactory shell -c "Object.keys(app.models)"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vars := a.MakeShellContext()
			vars["app"] = a

			sh, err := shell.New(vars, cmd.OutOrStdout())
			if err != nil {
				return fmt.Errorf("start shell: %w", err)
			}

			if command != "" {
				result, err := sh.Eval(cmd.Context(), command)
				if err != nil {
					return err
				}
				if result != nil {
					fmt.Fprintln(cmd.OutOrStdout(), shell.Format(result))
				}
				return nil
			}
			return sh.Run(cmd.Context(), cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVarP(&command, "command", "c", "", "evaluate an expression and exit")
	return cmd
}
