// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// MinSigningKeyLength is the shortest HMAC key NewHMACSigner accepts.
const MinSigningKeyLength = 32

// Claims is the payload of a session token.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Signer turns claims into a compact signed token.
type Signer interface {
	Sign(claims jwt.Claims) (string, error)
}

// HMACSigner signs tokens with HS256.
type HMACSigner struct {
	key []byte
}

// NewHMACSigner creates an HMACSigner. The key is copied.
func NewHMACSigner(key []byte) (*HMACSigner, error) {
	if len(key) < MinSigningKeyLength {
		return nil, oops.Code("AUTH_INVALID_SIGNING_KEY").
			With("min_length", MinSigningKeyLength).
			Errorf("signing key must be at least %d bytes", MinSigningKeyLength)
	}
	return &HMACSigner{key: append([]byte(nil), key...)}, nil
}

// Sign returns the HS256 JWS of claims.
func (s *HMACSigner) Sign(claims jwt.Claims) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", oops.Code("AUTH_TOKEN_SIGN_FAILED").Wrap(err)
	}
	return token, nil
}

// TokenOption configures a TokenIssuer.
type TokenOption func(*TokenIssuer)

// WithIssuer sets the iss claim.
func WithIssuer(issuer string) TokenOption {
	return func(ti *TokenIssuer) {
		ti.issuer = issuer
	}
}

// WithTTL sets the token lifetime. Zero means the token never expires and
// carries no iat or exp claim.
func WithTTL(ttl time.Duration) TokenOption {
	return func(ti *TokenIssuer) {
		ti.ttl = ttl
	}
}

// WithClock sets the time source used for iat and exp.
func WithClock(now func() time.Time) TokenOption {
	return func(ti *TokenIssuer) {
		if now != nil {
			ti.now = now
		}
	}
}

// TokenIssuer builds session tokens for signed-in users.
type TokenIssuer struct {
	signer Signer
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer.
func NewTokenIssuer(signer Signer, opts ...TokenOption) (*TokenIssuer, error) {
	if signer == nil {
		return nil, oops.Errorf("signer is required")
	}
	ti := &TokenIssuer{signer: signer, now: time.Now}
	for _, opt := range opts {
		opt(ti)
	}
	if ti.ttl < 0 {
		return nil, oops.Code("AUTH_INVALID_TOKEN_TTL").
			With("ttl", ti.ttl.String()).
			Errorf("token ttl cannot be negative")
	}
	return ti, nil
}

// Issue returns a signed token for userID carrying roles.
func (ti *TokenIssuer) Issue(userID int64, roles Roles) (string, error) {
	claims := Claims{
		Roles: roles.Names(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: strconv.FormatInt(userID, 10),
			Issuer:  ti.issuer,
		},
	}
	if ti.ttl > 0 {
		now := ti.now().UTC().Truncate(time.Second)
		claims.IssuedAt = jwt.NewNumericDate(now)
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ti.ttl))
	}

	token, err := ti.signer.Sign(claims)
	if err != nil {
		return "", oops.Code("AUTH_TOKEN_ISSUE_FAILED").
			With("user_id", userID).
			Wrap(err)
	}
	return token, nil
}

// ParseClaims verifies an HS256 token against key and returns its claims.
// Expiry is checked when the token carries an exp claim.
func ParseClaims(token string, key []byte) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, oops.Code("AUTH_TOKEN_INVALID").Wrap(err)
	}
	return claims, nil
}

// UserID returns the subject as a user id.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, oops.Code("AUTH_TOKEN_INVALID").
			With("subject", c.Subject).
			Wrap(err)
	}
	return id, nil
}
