// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

package main

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/atolab/zenoh-flow-python/internal/operator"
	"github.com/atolab/zenoh-flow-python/pkg/node"
)

// loadConfiguration assembles the node configuration from the --config
// YAML file, with the --python-script flag taking precedence over the
// file's entry. Keys the wrapper does not consume stay in the map; the
// operator ignores them.
func loadConfiguration(cmd *cobra.Command) (node.Configuration, error) {
	k := koanf.New(".")

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, oops.
				In("cli").
				Code(node.CodeIO).
				With("path", configFile).
				Wrapf(err, "load configuration file")
		}
	}

	override := posflag.ProviderWithFlag(cmd.Flags(), ".", k, func(f *pflag.Flag) (string, any) {
		if f.Name != operator.ScriptKey || !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(cmd.Flags(), f)
	})
	if err := k.Load(override, nil); err != nil {
		return nil, oops.
			In("cli").
			Wrapf(err, "apply flag overrides")
	}

	return node.Configuration(k.Raw()), nil
}

// addScriptFlag registers the --python-script override on a subcommand.
func addScriptFlag(cmd *cobra.Command) {
	cmd.Flags().String(operator.ScriptKey, "", "script path, overrides the configuration file entry")
}
