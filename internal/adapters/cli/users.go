package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"po-generator/internal/app"
	"po-generator/internal/core"
)

func newUsersCommand(rt Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Create and list user accounts",
	}
	cmd.AddCommand(newUsersCreateCommand(rt), newUsersListCommand(rt))
	return cmd
}

func newUsersCreateCommand(rt Runtime) *cobra.Command {
	var req app.CreateUserRequest
	cmd := &cobra.Command{
		Use:   "create <username> <password>",
		Short: "Create a user account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rt.Service(cmd.Context())
			if err != nil {
				return err
			}
			req.Username, req.Password = args[0], args[1]

			res, err := svc.CreateUser(cmd.Context(), req)
			if err != nil {
				var conflict *core.ConflictError
				if errors.As(err, &conflict) {
					return fmt.Errorf("user %q already exists", req.Username)
				}
				return fmt.Errorf("create user: %w", err)
			}

			u := res.User
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Successfully created user %q\n", u.Username)
			fmt.Fprintf(out, "User ID: %d\n", u.ID)
			fmt.Fprintf(out, "Full Name: %s\n", orDefault(u.FullName(), "Not provided"))
			fmt.Fprintf(out, "Email: %s\n", orDefault(u.Email, "Not provided"))
			fmt.Fprintf(out, "Staff Status: %s\n", yesNo(u.IsStaff))
			fmt.Fprintf(out, "Superuser Status: %s\n", yesNo(u.IsSuperuser))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Email, "email", "", "email address")
	f.StringVar(&req.FirstName, "first-name", "", "first name")
	f.StringVar(&req.LastName, "last-name", "", "last name")
	f.BoolVar(&req.IsStaff, "staff", false, "mark the user as staff")
	f.BoolVar(&req.IsSuperuser, "superuser", false, "mark the user as superuser (implies staff)")
	return cmd
}

func newUsersListCommand(rt Runtime) *cobra.Command {
	var filter core.UserFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List user accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := rt.Service(cmd.Context())
			if err != nil {
				return err
			}
			res, err := svc.ListUsers(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("list users: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(res.Users) == 0 {
				fmt.Fprintln(out, "No users found matching the criteria")
				return nil
			}

			fmt.Fprintf(out, "Found %d users:\n", len(res.Users))
			rule(out, "=")
			fmt.Fprintf(out, "%-5s %-15s %-25s %-25s %-6s %-6s %-20s\n",
				"ID", "Username", "Full Name", "Email", "Staff", "Super", "Last Login")
			rule(out, "-")
			for _, u := range res.Users {
				lastLogin := "Never"
				if u.LastLogin != nil {
					lastLogin = u.LastLogin.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(out, "%-5d %-15s %-25s %-25s %-6s %-6s %-20s\n",
					u.ID, u.Username, orDefault(u.FullName(), "-"), u.Email,
					yesNo(u.IsStaff), yesNo(u.IsSuperuser), lastLogin)
			}
			rule(out, "=")
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVar(&filter.ActiveOnly, "active", false, "only active users")
	f.BoolVar(&filter.StaffOnly, "staff", false, "only staff users")
	f.BoolVar(&filter.SuperusersOnly, "superusers", false, "only superusers")
	return cmd
}
