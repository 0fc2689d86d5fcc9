package main

import (
	"errors"

	"github.com/spf13/cobra"

	"lightbnb/internal/domain"
)

func userCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Look up or create users",
	}
	cmd.AddCommand(userGetCmd(c), userAddCmd(c))
	return cmd
}

func userGetCmd(c *cli) *cobra.Command {
	var (
		email string
		id    int64
	)
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get a user by --email or --id",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				u   domain.User
				err error
			)
			switch {
			case cmd.Flags().Changed("email"):
				u, err = c.q.GetUserWithEmail(cmd.Context(), email)
			case cmd.Flags().Changed("id"):
				u, err = c.q.GetUserWithID(cmd.Context(), id)
			default:
				return errors.New("one of --email or --id is required")
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, u)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().Int64Var(&id, "id", 0, "user id")
	cmd.MarkFlagsMutuallyExclusive("email", "id")
	return cmd
}

func userAddCmd(c *cli) *cobra.Command {
	var nu domain.NewUser
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := c.cmd.AddUser(cmd.Context(), nu)
			if err != nil {
				return err
			}
			return printJSON(cmd, u)
		},
	}
	cmd.Flags().StringVar(&nu.Name, "name", "", "full name")
	cmd.Flags().StringVar(&nu.Email, "email", "", "email address")
	cmd.Flags().StringVar(&nu.Password, "password", "", "password hash")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
