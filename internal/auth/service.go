// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wardenhq/warden/internal/audit"
	"github.com/wardenhq/warden/internal/result"
	"github.com/wardenhq/warden/pkg/errutil"
)

var tracer = otel.Tracer("warden/auth")

// Sign-in outcomes, used as the outcome label of warden_signin_total.
const (
	outcomeSuccess      = "success"
	outcomeInvalidInput = "invalid_input"
	outcomeNoMatch      = "no_match"
	outcomeError        = "error"
)

var signInCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_signin_total",
	Help: "Total number of sign-in attempts by outcome",
}, []string{"outcome"})

// IdentityFinder looks up a user by hashed credentials.
// It returns ErrNotFound when nothing matches.
type IdentityFinder interface {
	FindByCredentials(ctx context.Context, hashedLogin, hashedPassword string) (*SignedInIdentity, error)
}

// AuditLog records session events without blocking or failing.
type AuditLog interface {
	Append(ctx context.Context, userID int64, eventType audit.EventType)
}

// Issuer produces a session token for a signed-in user.
type Issuer interface {
	Issue(userID int64, roles Roles) (string, error)
}

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

// Service signs users in and out.
type Service struct {
	finder   IdentityFinder
	auditLog AuditLog
	hasher   CredentialHasher
	issuer   Issuer
	logger   *slog.Logger
}

// NewService creates a Service.
func NewService(finder IdentityFinder, auditLog AuditLog, hasher CredentialHasher, issuer Issuer, opts ...Option) (*Service, error) {
	if finder == nil {
		return nil, oops.Errorf("identity finder is required")
	}
	if auditLog == nil {
		return nil, oops.Errorf("audit log is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("credential hasher is required")
	}
	if issuer == nil {
		return nil, oops.Errorf("token issuer is required")
	}

	s := &Service{
		finder:   finder,
		auditLog: auditLog,
		hasher:   hasher,
		issuer:   issuer,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SignIn checks credentials and returns a session token.
// Bad input and unknown credentials are reported as a failed Result with
// InvalidCredentialsMessage; only store and signing faults return an error.
func (s *Service) SignIn(ctx context.Context, req SignInRequest) (res result.Result[string], err error) {
	ctx, span := tracer.Start(ctx, "auth.signin")
	outcome := outcomeError
	defer func() {
		signInCounter.WithLabelValues(outcome).Inc()
		span.SetAttributes(attribute.String("auth.outcome", outcome))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	valid := ValidateSignIn(req)
	if !valid.IsSuccess() {
		outcome = outcomeInvalidInput
		s.logger.DebugContext(ctx, "sign-in rejected", "reason", outcome)
		return result.FailureFrom[string](valid), nil
	}

	identity, err := s.lookup(ctx, req)
	if err != nil {
		errutil.LogErrorContext(ctx, s.logger, "sign-in lookup failed", err)
		return result.Result[string]{}, err
	}

	signedIn := ValidateSignedIn(identity)
	id, ok := signedIn.Value()
	if !ok {
		outcome = outcomeNoMatch
		s.logger.DebugContext(ctx, "sign-in rejected", "reason", outcome)
		return result.FailureFrom[string](signedIn), nil
	}
	span.SetAttributes(attribute.Int64("user.id", id.UserID))

	s.auditLog.Append(ctx, id.UserID, audit.Login)

	token, err := s.issuer.Issue(id.UserID, id.Roles)
	if err != nil {
		err = oops.Code("AUTH_SIGNIN_FAILED").
			With("operation", "issue token").
			With("user_id", id.UserID).
			Wrap(err)
		errutil.LogErrorContext(ctx, s.logger, "sign-in token issue failed", err)
		return result.Result[string]{}, err
	}

	outcome = outcomeSuccess
	s.logger.InfoContext(ctx, "user signed in", "user_id", id.UserID)
	return result.Success(token), nil
}

func (s *Service) lookup(ctx context.Context, req SignInRequest) (*SignedInIdentity, error) {
	ctx, span := tracer.Start(ctx, "auth.find_by_credentials")
	defer span.End()

	identity, err := s.finder.FindByCredentials(ctx, s.hasher.Hash(req.Login), s.hasher.Hash(req.Password))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, oops.Code("AUTH_SIGNIN_FAILED").
			With("operation", "find by credentials").
			Wrap(err)
	}
	return identity, nil
}

// SignOut records that the user signed out. The user id is not checked
// against the store.
func (s *Service) SignOut(ctx context.Context, req SignOutRequest) {
	ctx, span := tracer.Start(ctx, "auth.signout",
		trace.WithAttributes(attribute.Int64("user.id", req.UserID)),
	)
	defer span.End()

	s.auditLog.Append(ctx, req.UserID, audit.Logout)
	s.logger.InfoContext(ctx, "user signed out", "user_id", req.UserID)
}
