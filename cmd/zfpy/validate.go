// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

package main

import (
	"github.com/spf13/cobra"

	"github.com/atolab/zenoh-flow-python/internal/operator"
)

// NewValidateCmd creates the validate subcommand.
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a node configuration without starting the interpreter",
		Long: `Validate checks that the configuration file has the shape the
wrapper expects and that the referenced script file is readable. The
script itself is not executed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfiguration(cmd)
			if err != nil {
				return err
			}
			if err := operator.ValidateConfiguration(cfg); err != nil {
				return err
			}
			cmd.Println("configuration OK")
			return nil
		},
	}

	addScriptFlag(cmd)
	return cmd
}
