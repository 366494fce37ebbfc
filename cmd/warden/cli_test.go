// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wardenhq/warden/internal/app"
	"github.com/wardenhq/warden/internal/auth"
	"github.com/wardenhq/warden/internal/config"
	"github.com/wardenhq/warden/internal/store/memory"
)

var (
	testSigningKey = strings.Repeat("s", auth.MinSigningKeyLength)
	testPepper     = strings.Repeat("p", auth.MinPepperLength)
)

// harness runs CLI invocations against one shared in-memory backend.
type harness struct {
	t       *testing.T
	store   *memory.Store
	audit   *memory.AuditWriter
	schemas []string
	stdin   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv(config.EnvSigningKey, testSigningKey)
	t.Setenv(config.EnvPepper, testPepper)
	t.Setenv(config.EnvDatabaseURL, "")
	return &harness{
		t:     t,
		store: memory.NewStore(),
		audit: &memory.AuditWriter{},
	}
}

func (h *harness) deps() Deps {
	return Deps{
		AppFactory: func(_ context.Context, cfg *config.Config, logger *slog.Logger) (*app.App, error) {
			return app.New(cfg, app.Deps{
				Store:       h.store,
				AuditWriter: h.audit,
				Logger:      logger,
			})
		},
		SchemaApplier: func(_ context.Context, databaseURL string) error {
			h.schemas = append(h.schemas, databaseURL)
			return nil
		},
	}
}

// run executes args with cheap hash parameters and returns stdout.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	return h.runWith(h.deps(), args...)
}

func (h *harness) runWith(deps Deps, args ...string) (string, error) {
	h.t.Helper()
	cmd := newRootCmd(deps)
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetIn(strings.NewReader(h.stdin))
	base := []string{"--log-level", "error", "--hash-memory-kib", "64", "--hash-threads", "1"}
	cmd.SetArgs(append(args, base...))
	err := cmd.Execute()
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err)
	return out
}

func (h *harness) addAlice() {
	h.t.Helper()
	h.mustRun("user", "add",
		"--name", "Alice",
		"--email", "alice@example.com",
		"--login", "alice",
		"--password", "Secr3t!",
	)
}
