// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package app_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/wardenhq/warden/internal/app"
	"github.com/wardenhq/warden/internal/audit"
	"github.com/wardenhq/warden/internal/auth"
	"github.com/wardenhq/warden/internal/config"
	"github.com/wardenhq/warden/internal/store/memory"
	"github.com/wardenhq/warden/internal/user"
)

func testConfig() *config.Config {
	return &config.Config{
		LogFormat: "text",
		LogLevel:  "error",
		Token: config.TokenConfig{
			SigningKey: strings.Repeat("k", auth.MinSigningKeyLength),
			Issuer:     "warden-test",
		},
		Hash: config.HashConfig{
			Pepper:    strings.Repeat("p", auth.MinPepperLength),
			Time:      1,
			MemoryKiB: 64,
			Threads:   1,
		},
		Audit: config.AuditConfig{
			Buffer:       16,
			WriteTimeout: time.Second,
		},
	}
}

var _ = Describe("App", func() {
	var (
		ctx    context.Context
		store  *memory.Store
		writer *memory.AuditWriter
		a      *app.App
		fixed  time.Time
	)

	alice := user.AddRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Login:    "alice",
		Password: "Secr3t!",
		Roles:    auth.RoleUser,
	}

	BeforeEach(func() {
		ctx = context.Background()
		store = memory.NewStore()
		writer = &memory.AuditWriter{}
		fixed = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		var err error
		a, err = app.New(testConfig(), app.Deps{
			Store:       store,
			AuditWriter: writer,
			Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
			Clock:       func() time.Time { return fixed },
		})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			Expect(a.Close()).To(Succeed())
		})
	})

	Describe("New", func() {
		It("requires a store", func() {
			_, err := app.New(testConfig(), app.Deps{AuditWriter: writer})
			Expect(err).To(MatchError(ContainSubstring("store is required")))
		})

		It("requires an audit writer", func() {
			_, err := app.New(testConfig(), app.Deps{Store: store})
			Expect(err).To(MatchError(ContainSubstring("audit writer is required")))
		})

		It("rejects a short signing key", func() {
			cfg := testConfig()
			cfg.Token.SigningKey = "short"
			_, err := app.New(cfg, app.Deps{Store: store, AuditWriter: writer})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("signing in after registration", func() {
		var id int64

		BeforeEach(func() {
			res, err := a.Users.Add(ctx, alice)
			Expect(err).NotTo(HaveOccurred())
			var ok bool
			id, ok = res.Value()
			Expect(ok).To(BeTrue(), res.Message())
		})

		It("assigns the first id", func() {
			Expect(id).To(Equal(int64(1)))
		})

		It("issues a token and records one login", func() {
			res, err := a.Auth.SignIn(ctx, auth.SignInRequest{Login: "alice", Password: "Secr3t!"})
			Expect(err).NotTo(HaveOccurred())
			token, ok := res.Value()
			Expect(ok).To(BeTrue(), res.Message())

			claims, err := auth.ParseClaims(token, []byte(testConfig().Token.SigningKey))
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.Subject).To(Equal("1"))
			Expect(claims.Issuer).To(Equal("warden-test"))
			Expect(claims.Roles).To(Equal([]string{"User"}))

			Expect(a.Close()).To(Succeed())
			events := writer.Events()
			Expect(events).To(HaveLen(1))
			Expect(events[0].UserID).To(Equal(int64(1)))
			Expect(events[0].Type).To(Equal(audit.Login))
			Expect(events[0].Timestamp).To(BeTemporally("==", fixed))
		})

		It("rejects a wrong password without auditing", func() {
			res, err := a.Auth.SignIn(ctx, auth.SignInRequest{Login: "alice", Password: "wrong"})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsSuccess()).To(BeFalse())
			Expect(res.Message()).To(Equal(auth.InvalidCredentialsMessage))

			Expect(a.Close()).To(Succeed())
			Expect(writer.Events()).To(BeEmpty())
		})

		It("rejects a deactivated account", func() {
			upd, err := a.Users.Update(ctx, user.UpdateRequest{
				ID:     id,
				Name:   alice.Name,
				Email:  alice.Email,
				Roles:  alice.Roles,
				Status: user.StatusInactive,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(upd.IsSuccess()).To(BeTrue(), upd.Message())

			res, err := a.Auth.SignIn(ctx, auth.SignInRequest{Login: "alice", Password: "Secr3t!"})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsSuccess()).To(BeFalse())
		})

		It("keeps credentials when updating profile fields", func() {
			before, err := a.Users.Select(ctx, id)
			Expect(err).NotTo(HaveOccurred())

			upd, err := a.Users.Update(ctx, user.UpdateRequest{
				ID:       id,
				Name:     "Alice Liddell",
				Email:    "liddell@example.com",
				Login:    "mallory",
				Password: "hijacked!",
				Roles:    auth.RoleUser | auth.RoleAdmin,
				Status:   user.StatusActive,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(upd.IsSuccess()).To(BeTrue(), upd.Message())

			after, err := a.Users.Select(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(after.Name).To(Equal("Alice Liddell"))
			Expect(after.Roles).To(Equal(auth.RoleUser | auth.RoleAdmin))
			Expect(after.Login).To(Equal(before.Login))
			Expect(after.Password).To(Equal(before.Password))

			res, err := a.Auth.SignIn(ctx, auth.SignInRequest{Login: "alice", Password: "Secr3t!"})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsSuccess()).To(BeTrue())
		})

		It("stores hashed credentials", func() {
			account, err := a.Users.Select(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(account.Login).NotTo(Equal("alice"))
			Expect(account.Password).NotTo(Equal("Secr3t!"))
			Expect(account.Login).To(HavePrefix("$argon2id$"))
		})

		It("refuses a duplicate login", func() {
			res, err := a.Users.Add(ctx, alice)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsSuccess()).To(BeFalse())
			Expect(res.Message()).To(Equal(user.LoginTakenMessage))
		})

		It("forgets a deleted account", func() {
			del, err := a.Users.Delete(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(del.IsSuccess()).To(BeTrue())

			res, err := a.Auth.SignIn(ctx, auth.SignInRequest{Login: "alice", Password: "Secr3t!"})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsSuccess()).To(BeFalse())
		})
	})

	Describe("credential limits", func() {
		longest := user.AddRequest{
			Name:     "Bob",
			Email:    "bob@example.com",
			Login:    strings.Repeat("b", user.MaxLoginLength),
			Password: strings.Repeat("€", auth.MaxCredentialLength/3),
			Roles:    auth.RoleUser,
		}

		It("lets the longest accepted credentials sign in", func() {
			res, err := a.Users.Add(ctx, longest)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsSuccess()).To(BeTrue(), res.Message())

			signIn, err := a.Auth.SignIn(ctx, auth.SignInRequest{Login: longest.Login, Password: longest.Password})
			Expect(err).NotTo(HaveOccurred())
			Expect(signIn.IsSuccess()).To(BeTrue(), signIn.Message())
		})

		It("refuses credentials that could never sign in", func() {
			for _, req := range []user.AddRequest{
				func() user.AddRequest { r := longest; r.Password = strings.Repeat("x", 300); return r }(),
				func() user.AddRequest { r := longest; r.Login = strings.Repeat("€", user.MaxLoginLength); return r }(),
			} {
				res, err := a.Users.Add(ctx, req)
				Expect(err).NotTo(HaveOccurred())
				Expect(res.IsSuccess()).To(BeFalse())
				Expect(res.Message()).To(ContainSubstring("at most 256 bytes"))
			}

			list, err := a.Users.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(BeEmpty())
		})
	})

	It("records a logout for any user id", func() {
		a.Auth.SignOut(ctx, auth.SignOutRequest{UserID: 42})

		Eventually(writer.Events).Should(HaveLen(1))
		events := writer.Events()
		Expect(events[0].UserID).To(Equal(int64(42)))
		Expect(events[0].Type).To(Equal(audit.Logout))
	})
})
