// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package errutil

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenhq/warden/internal/result"
)

// AssertErrorCode fails the test unless err carries the given oops code.
func AssertErrorCode(t testing.TB, err error, code string) {
	t.Helper()
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.Truef(t, ok, "error %q has no code, want %s", err, code)
	assert.Equal(t, code, oopsErr.Code(), "error: %v", err)
}

// AssertErrorContext fails the test unless err carries key=value in its
// oops context.
func AssertErrorContext(t testing.TB, err error, key string, value any) {
	t.Helper()
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.Truef(t, ok, "error %q has no context, want %s", err, key)
	got, found := oopsErr.Context()[key]
	require.Truef(t, found, "context of %q lacks %s", err, key)
	assert.Equal(t, value, got)
}

// AssertFailure fails the test unless r is a failure whose message is msg.
func AssertFailure[T any](t testing.TB, r result.Result[T], msg string) {
	t.Helper()
	v, ok := r.Value()
	require.Falsef(t, ok, "expected failure %q, got success %v", msg, v)
	assert.Equal(t, msg, r.Message())
}

// AssertSuccess fails the test unless r succeeded, and returns its value.
func AssertSuccess[T any](t testing.TB, r result.Result[T]) T {
	t.Helper()
	v, ok := r.Value()
	require.Truef(t, ok, "expected success, got failure %q", r.Message())
	return v
}
