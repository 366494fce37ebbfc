// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/internal/auth"
	"github.com/wardenhq/warden/internal/config"
)

type claimsView struct {
	UserID    int64      `yaml:"user_id"`
	Roles     []string   `yaml:"roles"`
	Issuer    string     `yaml:"issuer,omitempty"`
	IssuedAt  *time.Time `yaml:"issued_at,omitempty"`
	ExpiresAt *time.Time `yaml:"expires_at,omitempty"`
}

func (c *cli) newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Work with session tokens",
	}
	cmd.AddCommand(c.newTokenInspectCmd())
	return cmd
}

func (c *cli) newTokenInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <token>",
		Short: "Verify a session token and print its claims",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(c.cfg.Token.SigningKey) < auth.MinSigningKeyLength {
				return config.Invalid("token.signing_key", "token.signing_key must be at least %d bytes", auth.MinSigningKeyLength)
			}
			claims, err := auth.ParseClaims(args[0], []byte(c.cfg.Token.SigningKey))
			if err != nil {
				return err
			}
			id, err := claims.UserID()
			if err != nil {
				return err
			}
			view := claimsView{UserID: id, Roles: claims.Roles, Issuer: claims.Issuer}
			if claims.IssuedAt != nil {
				t := claims.IssuedAt.UTC()
				view.IssuedAt = &t
			}
			if claims.ExpiresAt != nil {
				t := claims.ExpiresAt.UTC()
				view.ExpiresAt = &t
			}
			return printYAML(cmd, view)
		},
	}
}
