// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/internal/app"
	"github.com/wardenhq/warden/internal/config"
)

func (c *cli) newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Maintain the audit trail",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "replay",
		Short: "Write events saved in the audit WAL to the audit store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.cfg.Audit.WALPath == "" {
				return config.Invalid("audit.wal_path", "audit.wal_path is required for replay")
			}
			return c.withApp(cmd, func(a *app.App) error {
				n, err := a.Audit.ReplayWAL(cmd.Context())
				if err != nil {
					return err
				}
				cmd.Printf("Replayed %d audit events\n", n)
				return nil
			})
		},
	})
	return cmd
}
