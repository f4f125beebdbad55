package commands

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
)

// NewDBCommand creates the `db` command group.
func NewDBCommand(a *app.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database migration helpers",
	}
	cmd.AddCommand(newLocationsCommand(a))
	return cmd
}

func newLocationsCommand(a *app.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "Print the migration version location of each bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := uitable.New()
			table.MaxColWidth = 100
			table.AddRow("BUNDLE", "PATH")
			for _, loc := range a.Config.Migrations.VersionLocations {
				table.AddRow(loc.Bundle, loc.Path)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), table.String())
			return err
		},
	}
}
