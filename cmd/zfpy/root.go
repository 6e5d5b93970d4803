// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

package main

import (
	"github.com/spf13/cobra"

	"github.com/atolab/zenoh-flow-python/internal/logging"
)

// Global flags available to all subcommands.
var (
	configFile string
	logFormat  string
)

// NewRootCmd creates the root command for the zfpy CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zfpy",
		Short: "zfpy - standalone runner for Python dataflow operators",
		Long: `zfpy loads a Python operator script the same way a dataflow
runtime would, wires its ports to stdin and stdout, and drives its
iterations. It is a development loop for operator scripts, not a
replacement for the runtime.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.SetDefault("zfpy", cmd.Root().Version, logFormat)
		},
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "node configuration file path (YAML)")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format: json or text")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewValidateCmd())

	return cmd
}
