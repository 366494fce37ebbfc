// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

// Package app wires configuration, storage, auditing and the Warden services.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/wardenhq/warden/internal/audit"
	"github.com/wardenhq/warden/internal/auth"
	"github.com/wardenhq/warden/internal/config"
	"github.com/wardenhq/warden/internal/store/postgres"
	"github.com/wardenhq/warden/internal/user"
)

// Backend is a user store that can also resolve credentials.
type Backend interface {
	user.Store
	auth.IdentityFinder
}

// Deps contains injectable dependencies for New.
// Nil Logger and Clock use their default implementations.
type Deps struct {
	// Store persists accounts and resolves credentials.
	Store Backend

	// AuditWriter receives audit events from the background logger.
	AuditWriter audit.Writer

	// Logger is shared by every service.
	// Default: slog.Default()
	Logger *slog.Logger

	// Clock stamps audit events and tokens.
	// Default: time.Now
	Clock func() time.Time
}

// App holds the wired services.
type App struct {
	Auth   *auth.Service
	Users  *user.Service
	Audit  *audit.Logger
	Issuer *auth.TokenIssuer

	closers []func() error
}

// New builds an App from cfg and deps. cfg must already be valid.
func New(cfg *config.Config, deps Deps) (*App, error) {
	if cfg == nil {
		return nil, oops.Code("APP_INIT_FAILED").Errorf("config is required")
	}
	if deps.Store == nil {
		return nil, oops.Code("APP_INIT_FAILED").Errorf("store is required")
	}
	if deps.AuditWriter == nil {
		return nil, oops.Code("APP_INIT_FAILED").Errorf("audit writer is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	hasher, err := auth.NewArgon2idHasher([]byte(cfg.Hash.Pepper),
		auth.WithArgon2Params(cfg.Hash.Time, cfg.Hash.MemoryKiB, cfg.Hash.Threads))
	if err != nil {
		return nil, oops.Code("APP_INIT_FAILED").With("component", "hasher").Wrap(err)
	}

	signer, err := auth.NewHMACSigner([]byte(cfg.Token.SigningKey))
	if err != nil {
		return nil, oops.Code("APP_INIT_FAILED").With("component", "signer").Wrap(err)
	}
	issuer, err := auth.NewTokenIssuer(signer,
		auth.WithIssuer(cfg.Token.Issuer),
		auth.WithTTL(cfg.Token.TTL),
		auth.WithClock(deps.Clock),
	)
	if err != nil {
		return nil, oops.Code("APP_INIT_FAILED").With("component", "issuer").Wrap(err)
	}

	auditLog, err := audit.NewLogger(deps.AuditWriter,
		audit.WithBufferSize(cfg.Audit.Buffer),
		audit.WithWALPath(cfg.Audit.WALPath),
		audit.WithWriteTimeout(cfg.Audit.WriteTimeout),
		audit.WithLogger(deps.Logger.With("component", "audit")),
		audit.WithClock(deps.Clock),
	)
	if err != nil {
		return nil, oops.Code("APP_INIT_FAILED").With("component", "audit").Wrap(err)
	}

	authSvc, err := auth.NewService(deps.Store, auditLog, hasher, issuer,
		auth.WithLogger(deps.Logger.With("component", "auth")))
	if err != nil {
		_ = auditLog.Close()
		return nil, oops.Code("APP_INIT_FAILED").With("component", "auth").Wrap(err)
	}

	userSvc, err := user.NewService(deps.Store, hasher,
		user.WithLogger(deps.Logger.With("component", "user")))
	if err != nil {
		_ = auditLog.Close()
		return nil, oops.Code("APP_INIT_FAILED").With("component", "user").Wrap(err)
	}

	return &App{
		Auth:    authSvc,
		Users:   userSvc,
		Audit:   auditLog,
		Issuer:  issuer,
		closers: []func() error{auditLog.Close},
	}, nil
}

// Close flushes pending audit events and releases owned resources.
func (a *App) Close() error {
	var first error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenPostgres connects to cfg.DatabaseURL and builds an App backed by
// PostgreSQL. Closing the App also closes the pool.
func OpenPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg.DatabaseURL == "" {
		return nil, config.Invalid("database_url", "database_url is required")
	}

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, oops.Code("APP_INIT_FAILED").With("component", "database").Wrap(err)
	}

	a, err := New(cfg, Deps{
		Store:       postgres.NewStore(pool),
		AuditWriter: audit.NewPostgresWriter(pool),
		Logger:      logger,
	})
	if err != nil {
		pool.Close()
		return nil, err
	}
	a.closers = append(a.closers, func() error {
		pool.Close()
		return nil
	})
	return a, nil
}
