package security

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
)

// ErrNoPersistentStore is returned by commands that would otherwise
// write to a store that vanishes when the process exits.
var ErrNoPersistentStore = errors.New("user commands need a database (set DATABASE_URL)")

func (s *service) commands() *cobra.Command {
	root := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}

	var password, email string
	create := &cobra.Command{
		Use:   "create USERNAME",
		Short: "Create a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ok := app.FromContext(cmd.Context())
			if !ok {
				return fmt.Errorf("users create: no application in context")
			}
			store, persistent := s.lookup(a)
			if !persistent {
				return ErrNoPersistentStore
			}

			u, err := s.register(cmd.Context(), store, args[0], password, email)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s)\n", u.Username, u.ID)
			return nil
		},
	}
	create.Flags().StringVarP(&password, "password", "p", "", "account password")
	create.Flags().StringVar(&email, "email", "", "contact email")
	_ = create.MarkFlagRequired("password")

	root.AddCommand(create)
	return root
}
