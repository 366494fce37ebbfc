// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Warden Contributors

package main

import (
	"strconv"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wardenhq/warden/internal/user"
)

// accountView is the printed form of an account. Credential hashes are omitted.
type accountView struct {
	ID     int64    `yaml:"id"`
	Name   string   `yaml:"name"`
	Email  string   `yaml:"email"`
	Roles  []string `yaml:"roles"`
	Status string   `yaml:"status"`
}

func newAccountView(a user.Account) accountView {
	return accountView{
		ID:     a.ID,
		Name:   a.Name,
		Email:  a.Email,
		Roles:  a.Roles.Names(),
		Status: a.Status.String(),
	}
}

func printYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return oops.Code("OUTPUT_FAILED").Wrap(err)
	}
	if err := enc.Close(); err != nil {
		return oops.Code("OUTPUT_FAILED").Wrap(err)
	}
	return nil
}

// rejected reports a failed Result as a command error.
func rejected(message string) error {
	return oops.Code("REQUEST_REJECTED").Errorf("%s", message)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, oops.Code("INVALID_ARGUMENT").With("id", arg).Errorf("id must be an integer")
	}
	return id, nil
}
