package commands

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
)

// NewBundlesCommand creates the `bundles` command listing attached
// bundles and what each contributes.
func NewBundlesCommand(a *app.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "bundles",
		Short: "List attached bundles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := uitable.New()
			table.AddRow("NAME", "MODULE", "BLUEPRINTS", "MODELS", "SERIALIZERS", "COMMANDS")
			for _, b := range a.IterBundles() {
				group := "-"
				if b.HasCommandGroup() {
					group = b.CommandGroupName()
				}
				table.AddRow(b.Name, b.ModulePath, len(b.Blueprints), len(b.Models), len(b.Serializers), group)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), table.String())
			return err
		},
	}
}
