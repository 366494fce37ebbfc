// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package main

import (
	"context"
	"log/slog"

	"github.com/samber/oops"

	"github.com/wardenhq/warden/internal/app"
	"github.com/wardenhq/warden/internal/config"
	"github.com/wardenhq/warden/internal/store/postgres"
)

// Deps contains injectable dependencies for the CLI.
// All fields with nil values will use their default implementations.
type Deps struct {
	// AppFactory builds the services from configuration.
	// Default: app.OpenPostgres
	AppFactory func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app.App, error)

	// SchemaApplier creates the users and user_logs tables.
	// Default: applyPostgresSchema
	SchemaApplier func(ctx context.Context, databaseURL string) error

	// MigratorFactory opens a versioned migrator for the database.
	// Default: newPostgresMigrator
	MigratorFactory func(databaseURL string) (SchemaMigrator, error)
}

func (d Deps) withDefaults() Deps {
	if d.AppFactory == nil {
		d.AppFactory = app.OpenPostgres
	}
	if d.SchemaApplier == nil {
		d.SchemaApplier = applyPostgresSchema
	}
	if d.MigratorFactory == nil {
		d.MigratorFactory = newPostgresMigrator
	}
	return d
}

func applyPostgresSchema(ctx context.Context, databaseURL string) error {
	if databaseURL == "" {
		return config.Invalid("database_url", "database_url is required")
	}

	pool, err := postgres.Connect(ctx, databaseURL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()

	return postgres.EnsureSchema(ctx, pool)
}

func newPostgresMigrator(databaseURL string) (SchemaMigrator, error) {
	if databaseURL == "" {
		return nil, config.Invalid("database_url", "database_url is required")
	}
	m, err := postgres.NewMigrator(databaseURL)
	if err != nil {
		return nil, err
	}
	return m, nil
}
