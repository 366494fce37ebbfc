// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/internal/app"
	"github.com/wardenhq/warden/internal/auth"
)

func (c *cli) newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign users in and out",
	}
	cmd.AddCommand(c.newSignInCmd())
	cmd.AddCommand(c.newSignOutCmd())
	return cmd
}

func (c *cli) newSignInCmd() *cobra.Command {
	var (
		req           auth.SignInRequest
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Verify credentials and print a session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if passwordStdin {
				password, err := readLine(cmd)
				if err != nil {
					return err
				}
				req.Password = password
			}
			return c.withApp(cmd, func(a *app.App) error {
				res, err := a.Auth.SignIn(cmd.Context(), req)
				if err != nil {
					return err
				}
				token, ok := res.Value()
				if !ok {
					return rejected(res.Message())
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
				return err //nolint:wrapcheck // write to stdout
			})
		},
	}
	cmd.Flags().StringVar(&req.Login, "login", "", "login")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")
	return cmd
}

func readLine(cmd *cobra.Command) (string, error) {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", oops.Code("INPUT_FAILED").Wrap(err)
		}
		return "", nil
	}
	return strings.TrimRight(scanner.Text(), "\r"), nil
}

func (c *cli) newSignOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout <user-id>",
		Short: "Record that a user signed out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.withApp(cmd, func(a *app.App) error {
				a.Auth.SignOut(cmd.Context(), auth.SignOutRequest{UserID: id})
				cmd.Println("Sign-out recorded")
				return nil
			})
		},
	}
}
