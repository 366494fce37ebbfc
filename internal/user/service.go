// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wardenhq/warden/internal/auth"
	"github.com/wardenhq/warden/internal/result"
	"github.com/wardenhq/warden/pkg/errutil"
)

var tracer = otel.Tracer("warden/user")

// Failure messages returned to callers.
const (
	LoginTakenMessage = "login already in use"
	NotFoundMessage   = "user not found"
)

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service manages accounts and keeps stored credentials hashed.
type Service struct {
	store  Store
	hasher auth.CredentialHasher
	logger *slog.Logger
}

// NewService creates a Service.
func NewService(store Store, hasher auth.CredentialHasher, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, oops.Errorf("user store is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("credential hasher is required")
	}

	s := &Service{store: store, hasher: hasher, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Add creates an Active account with hashed credentials and returns its id.
func (s *Service) Add(ctx context.Context, req AddRequest) (res result.Result[int64], err error) {
	ctx, span := tracer.Start(ctx, "user.add")
	defer func() { endSpan(span, err) }()

	valid := ValidateAdd(req)
	if !valid.IsSuccess() {
		return result.FailureFrom[int64](valid), nil
	}

	account := &Account{
		Name:     req.Name,
		Email:    req.Email,
		Login:    s.hasher.Hash(req.Login),
		Password: s.hasher.Hash(req.Password),
		Roles:    req.Roles,
		Status:   StatusActive,
	}

	var id int64
	err = s.store.Do(ctx, func(ctx context.Context, repo Repository) error {
		var insertErr error
		id, insertErr = repo.Insert(ctx, account)
		return insertErr
	})
	if errors.Is(err, ErrLoginTaken) {
		return result.Failure[int64](LoginTakenMessage), nil
	}
	if err != nil {
		err = oops.Code("USER_ADD_FAILED").With("operation", "insert user").Wrap(err)
		errutil.LogErrorContext(ctx, s.logger, "add user failed", err)
		return result.Result[int64]{}, err
	}

	span.SetAttributes(attribute.Int64("user.id", id))
	s.logger.InfoContext(ctx, "user added", "user_id", id)
	return result.Success(id), nil
}

// Delete removes an account. Deleting a missing id succeeds.
func (s *Service) Delete(ctx context.Context, id int64) (res result.Result[struct{}], err error) {
	ctx, span := tracer.Start(ctx, "user.delete",
		trace.WithAttributes(attribute.Int64("user.id", id)),
	)
	defer func() { endSpan(span, err) }()

	err = s.store.Do(ctx, func(ctx context.Context, repo Repository) error {
		if deleteErr := repo.Delete(ctx, id); !errors.Is(deleteErr, ErrNotFound) {
			return deleteErr
		}
		return nil
	})
	if err != nil {
		err = oops.Code("USER_DELETE_FAILED").
			With("operation", "delete user").
			With("user_id", id).
			Wrap(err)
		errutil.LogErrorContext(ctx, s.logger, "delete user failed", err)
		return result.Result[struct{}]{}, err
	}

	s.logger.InfoContext(ctx, "user deleted", "user_id", id)
	return result.Success(struct{}{}), nil
}

// Update replaces an account's profile, roles and status. The stored login
// and password hashes are always kept.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (res result.Result[struct{}], err error) {
	ctx, span := tracer.Start(ctx, "user.update",
		trace.WithAttributes(attribute.Int64("user.id", req.ID)),
	)
	defer func() { endSpan(span, err) }()

	valid := ValidateUpdate(req)
	if !valid.IsSuccess() {
		return result.FailureFrom[struct{}](valid), nil
	}

	candidate := &Account{
		ID:     req.ID,
		Name:   req.Name,
		Email:  req.Email,
		Roles:  req.Roles,
		Status: req.Status,
	}

	err = s.store.Do(ctx, func(ctx context.Context, repo Repository) error {
		persisted, selectErr := repo.Select(ctx, candidate.ID)
		if selectErr != nil {
			return selectErr
		}
		candidate.Login = persisted.Login
		candidate.Password = persisted.Password
		return repo.Update(ctx, candidate)
	})
	if errors.Is(err, ErrNotFound) {
		return result.Failure[struct{}](NotFoundMessage), nil
	}
	if err != nil {
		err = oops.Code("USER_UPDATE_FAILED").
			With("operation", "update user").
			With("user_id", req.ID).
			Wrap(err)
		errutil.LogErrorContext(ctx, s.logger, "update user failed", err)
		return result.Result[struct{}]{}, err
	}

	s.logger.InfoContext(ctx, "user updated", "user_id", req.ID)
	return result.Success(struct{}{}), nil
}

// Select returns the account with id, or an error wrapping ErrNotFound.
func (s *Service) Select(ctx context.Context, id int64) (*Account, error) {
	account, err := s.store.Select(ctx, id)
	if err != nil {
		return nil, oops.Code("USER_STORE_FAILED").
			With("operation", "select user").
			With("user_id", id).
			Wrap(err)
	}
	return account, nil
}

// List returns every account ordered by id.
func (s *Service) List(ctx context.Context) ([]Account, error) {
	accounts, err := s.store.List(ctx)
	if err != nil {
		return nil, oops.Code("USER_STORE_FAILED").With("operation", "list users").Wrap(err)
	}
	return accounts, nil
}
