// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/internal/app"
	"github.com/wardenhq/warden/internal/auth"
	"github.com/wardenhq/warden/internal/user"
)

func (c *cli) newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(c.newUserAddCmd())
	cmd.AddCommand(c.newUserUpdateCmd())
	cmd.AddCommand(c.newUserDeleteCmd())
	cmd.AddCommand(c.newUserShowCmd())
	cmd.AddCommand(c.newUserListCmd())
	return cmd
}

func (c *cli) newUserAddCmd() *cobra.Command {
	var (
		req   user.AddRequest
		roles string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := auth.ParseRoles(roles)
			if err != nil {
				return err
			}
			req.Roles = parsed
			return c.withApp(cmd, func(a *app.App) error {
				res, err := a.Users.Add(cmd.Context(), req)
				if err != nil {
					return err
				}
				id, ok := res.Value()
				if !ok {
					return rejected(res.Message())
				}
				return printYAML(cmd, map[string]int64{"id": id})
			})
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Login, "login", "", "login")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	cmd.Flags().StringVar(&roles, "roles", "user", "comma-separated roles (user, admin)")
	return cmd
}

func (c *cli) newUserUpdateCmd() *cobra.Command {
	var (
		req    user.UpdateRequest
		roles  string
		status string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an account's profile, roles and status",
		Long: `Update replaces the name, email, roles and status of an account.
The login and password of an existing account never change.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			req.ID = id
			if req.Roles, err = auth.ParseRoles(roles); err != nil {
				return err
			}
			if req.Status, err = user.ParseStatus(status); err != nil {
				return err
			}
			return c.withApp(cmd, func(a *app.App) error {
				res, err := a.Users.Update(cmd.Context(), req)
				if err != nil {
					return err
				}
				if !res.IsSuccess() {
					return rejected(res.Message())
				}
				cmd.Println("Account updated")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&roles, "roles", "user", "comma-separated roles (user, admin)")
	cmd.Flags().StringVar(&status, "status", "active", "account status (active, inactive)")
	return cmd
}

func (c *cli) newUserDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.withApp(cmd, func(a *app.App) error {
				res, err := a.Users.Delete(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !res.IsSuccess() {
					return rejected(res.Message())
				}
				cmd.Println("Account deleted")
				return nil
			})
		},
	}
}

func (c *cli) newUserShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.withApp(cmd, func(a *app.App) error {
				account, err := a.Users.Select(cmd.Context(), id)
				if err != nil {
					return err
				}
				return printYAML(cmd, newAccountView(*account))
			})
		},
	}
}

func (c *cli) newUserListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(a *app.App) error {
				accounts, err := a.Users.List(cmd.Context())
				if err != nil {
					return err
				}
				views := make([]accountView, 0, len(accounts))
				for _, account := range accounts {
					views = append(views, newAccountView(account))
				}
				return printYAML(cmd, views)
			})
		},
	}
}
