// Package cli holds the poctl command tree. Commands reach the database only
// through Runtime, so the tree can be exercised without one.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"po-generator/internal/app"
)

// Runtime supplies the dependencies a command needs, opened on first use.
type Runtime interface {
	Service(ctx context.Context) (app.ApplicationService, error)
	Migrate(ctx context.Context) error
}

// NewRootCommand builds the poctl command tree.
func NewRootCommand(rt Runtime) *cobra.Command {
	root := &cobra.Command{
		Use:           "poctl",
		Short:         "Manage users, migrations and purchase order documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newUsersCommand(rt),
		newPOCommand(rt),
		newMigrateCommand(rt),
	)
	return root
}

func newMigrateCommand(rt Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
			return nil
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func rule(w io.Writer, ch string) {
	fmt.Fprintln(w, strings.Repeat(ch, 80))
}
