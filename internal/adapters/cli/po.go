package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"po-generator/internal/app"
	"po-generator/internal/core"
)

func newPOCommand(rt Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "po",
		Short: "Work with stored purchase orders",
	}
	cmd.AddCommand(newPORenderCommand(rt))
	return cmd
}

func newPORenderCommand(rt Runtime) *cobra.Command {
	var (
		username string
		output   string
		outline  bool
	)
	cmd := &cobra.Command{
		Use:   "render <id>",
		Short: "Render a stored purchase order to PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poID, err := strconv.Atoi(args[0])
			if err != nil || poID <= 0 {
				return fmt.Errorf("invalid purchase order id %q", args[0])
			}
			ctx := cmd.Context()
			svc, err := rt.Service(ctx)
			if err != nil {
				return err
			}
			userID, err := lookupUserID(ctx, svc, username)
			if err != nil {
				return err
			}

			if outline {
				return svc.OutlinePurchaseOrder(ctx, userID, poID, cmd.OutOrStdout())
			}

			doc, err := svc.RenderPurchaseOrder(ctx, userID, poID)
			if err != nil {
				return fmt.Errorf("render purchase order %d: %w", poID, err)
			}
			if output == "" {
				output = doc.Filename
			}
			if output == "-" {
				_, err := cmd.OutOrStdout().Write(doc.Content)
				return err
			}
			if err := os.WriteFile(output, doc.Content, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d bytes)\n", output, len(doc.Content))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&username, "user", "u", "", "owner of the purchase order (required)")
	f.StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default PO_<number>.pdf)`)
	f.BoolVar(&outline, "outline", false, "print the drawing operations instead of a PDF")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// lookupUserID resolves an active username to its ID.
func lookupUserID(ctx context.Context, svc app.ApplicationService, username string) (int, error) {
	res, err := svc.ListUsers(ctx, core.UserFilter{ActiveOnly: true})
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}
	for _, u := range res.Users {
		if u.Username == username {
			return u.ID, nil
		}
	}
	return 0, fmt.Errorf("user %q: %w", username, core.ErrNotFound)
}
