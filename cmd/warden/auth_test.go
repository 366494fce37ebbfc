// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/wardenhq/warden/internal/audit"
	"github.com/wardenhq/warden/internal/auth"
	"github.com/wardenhq/warden/pkg/errutil"
)

func TestSignIn_PrintsVerifiableToken(t *testing.T) {
	h := newHarness(t)
	h.addAlice()

	out := h.mustRun("auth", "signin", "--login", "alice", "--password", "Secr3t!")
	token := strings.TrimSpace(out)

	claims, err := auth.ParseClaims(token, []byte(testSigningKey))
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	events := h.audit.Events()
	require.Len(t, events, 1)
	assert.Equal(t, audit.Login, events[0].Type)
	assert.Equal(t, int64(1), events[0].UserID)
}

func TestSignIn_WrongPassword(t *testing.T) {
	h := newHarness(t)
	h.addAlice()

	out, err := h.run("auth", "signin", "--login", "alice", "--password", "wrong")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "REQUEST_REJECTED")
	assert.Contains(t, err.Error(), auth.InvalidCredentialsMessage)
	assert.Empty(t, out)
	assert.Empty(t, h.audit.Events())
}

func TestSignIn_PasswordFromStdin(t *testing.T) {
	h := newHarness(t)
	h.addAlice()
	h.stdin = "Secr3t!\n"

	out := h.mustRun("auth", "signin", "--login", "alice", "--password-stdin")
	assert.NotEmpty(t, strings.TrimSpace(out))
}

func TestSignIn_PasswordFlagsExclusive(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("auth", "signin", "--login", "alice", "--password", "x", "--password-stdin")
	require.Error(t, err)
}

func TestSignOut_RecordsEvent(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("auth", "signout", "42")
	assert.Contains(t, out, "Sign-out recorded")

	events := h.audit.Events()
	require.Len(t, events, 1)
	assert.Equal(t, audit.Logout, events[0].Type)
	assert.Equal(t, int64(42), events[0].UserID)
}

func TestTokenInspect(t *testing.T) {
	h := newHarness(t)
	h.addAlice()
	token := strings.TrimSpace(h.mustRun("auth", "signin", "--login", "alice", "--password", "Secr3t!", "--token-ttl", "1h"))

	out := h.mustRun("token", "inspect", token)

	var view claimsView
	require.NoError(t, yaml.Unmarshal([]byte(out), &view))
	assert.Equal(t, int64(1), view.UserID)
	assert.Equal(t, []string{"User"}, view.Roles)
	assert.Equal(t, "warden", view.Issuer)
	require.NotNil(t, view.IssuedAt)
	require.NotNil(t, view.ExpiresAt)
	assert.Equal(t, time.Hour, view.ExpiresAt.Sub(*view.IssuedAt))
}

func TestTokenInspect_RejectsForgery(t *testing.T) {
	h := newHarness(t)
	h.addAlice()
	token := strings.TrimSpace(h.mustRun("auth", "signin", "--login", "alice", "--password", "Secr3t!"))
	t.Setenv("WARDEN_SIGNING_KEY", strings.Repeat("x", auth.MinSigningKeyLength))

	_, err := h.run("token", "inspect", token)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "AUTH_TOKEN_INVALID")
}

func TestAuditReplay(t *testing.T) {
	h := newHarness(t)
	wal := filepath.Join(t.TempDir(), "audit.wal")
	event := audit.NewEvent(7, audit.Login, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	line, err := json.Marshal(event)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(wal, append(line, '\n'), 0o600))

	out := h.mustRun("audit", "replay", "--audit-wal-path", wal)
	assert.Contains(t, out, "Replayed 1 audit events")

	events := h.audit.Events()
	require.Len(t, events, 1)
	assert.Equal(t, event.ID, events[0].ID)
	assert.Equal(t, int64(7), events[0].UserID)

	remaining, err := os.ReadFile(wal)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestAuditReplay_RequiresWALPath(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("audit", "replay")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
	errutil.AssertErrorContext(t, err, "key", "audit.wal_path")
}
