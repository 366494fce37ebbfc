// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package main

import (
	"log/slog"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/internal/app"
	"github.com/wardenhq/warden/internal/config"
	"github.com/wardenhq/warden/internal/logging"
)

// cli carries state shared by every subcommand of one invocation.
type cli struct {
	deps       Deps
	configFile string
	cfg        *config.Config
}

// NewRootCmd creates the root command for the Warden CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(Deps{})
}

func newRootCmd(deps Deps) *cobra.Command {
	c := &cli{deps: deps.withDefaults()}

	cmd := &cobra.Command{
		Use:   "warden",
		Short: "Warden - user accounts and authentication",
		Long: `Warden manages user accounts, verifies credentials against
hashed records, issues signed session tokens and keeps an audit trail
of sign-ins and sign-outs.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	cmd.PersistentFlags().StringVar(&c.configFile, "config", "", "config file path")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(c.newUserCmd())
	cmd.AddCommand(c.newAuthCmd())
	cmd.AddCommand(c.newTokenCmd())
	cmd.AddCommand(c.newSchemaCmd())
	cmd.AddCommand(c.newAuditCmd())

	return cmd
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configFile, cmd.Flags())
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// withApp validates the configuration, builds the services, runs fn and
// closes the services so queued audit events are flushed.
func (c *cli) withApp(cmd *cobra.Command, fn func(a *app.App) error) (err error) {
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	logger := c.logger(cmd)

	a, err := c.deps.AppFactory(cmd.Context(), c.cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil && err == nil {
			err = oops.Code("APP_CLOSE_FAILED").Wrap(closeErr)
		}
	}()

	return fn(a)
}

func (c *cli) logger(cmd *cobra.Command) *slog.Logger {
	level, err := c.cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	return logging.SetDefault("warden", version, c.cfg.LogFormat, level, cmd.ErrOrStderr())
}
