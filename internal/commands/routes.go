package commands

import (
	"fmt"
	"sort"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
)

// NewRoutesCommand creates the `routes` command listing every route.
func NewRoutesCommand(a *app.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Show the routes for the application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			routes := a.Router.Routes()
			sort.SliceStable(routes, func(i, j int) bool {
				if routes[i].Path != routes[j].Path {
					return routes[i].Path < routes[j].Path
				}
				return routes[i].Method < routes[j].Method
			})

			table := uitable.New()
			table.MaxColWidth = 80
			table.AddRow("METHOD", "PATH", "HANDLER")
			for _, r := range routes {
				table.AddRow(r.Method, r.Path, r.Handler)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), table.String())
			return err
		},
	}
}
