// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/atolab/zenoh-flow-python/internal/operator"
	"github.com/atolab/zenoh-flow-python/pkg/errutil"
	"github.com/atolab/zenoh-flow-python/pkg/node"
)

// NewRunCmd creates the run subcommand.
func NewRunCmd() *cobra.Command {
	var (
		iterations int
		inputPort  string
		outputPort string
		flowName   string
		nodeID     string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a Python operator against stdin and stdout",
		Long: `Run constructs the operator from the configuration file, feeds
each line read from stdin to its input port, and writes every payload
sent on its output port to stdout, one per line. The operator iterates
the requested number of times, then finalize() runs and the process
exits.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfiguration(cmd)
			if err != nil {
				return err
			}

			feed, in := node.Pipe(inputPort, 16)
			out, sink := node.Pipe(outputPort, 16)

			go func() {
				defer feed.Close()
				scanner := bufio.NewScanner(cmd.InOrStdin())
				for scanner.Scan() {
					payload := append([]byte(nil), scanner.Bytes()...)
					feed.Send(node.Message{Payload: payload})
				}
			}()

			drained := make(chan struct{})
			go func() {
				defer close(drained)
				for {
					msg, ok := sink.Recv()
					if !ok {
						return
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\n", msg.Payload)
				}
			}()

			ctx := node.Context{
				RuntimeName: "zfpy",
				FlowName:    flowName,
				InstanceID:  ulid.Make().String(),
				NodeID:      nodeID,
			}
			op, err := operator.New(ctx, cfg,
				node.Inputs{inputPort: in},
				node.Outputs{outputPort: out})
			if err != nil {
				errutil.LogError(slog.Default(), "operator construction failed", err)
				return err
			}

			for i := 0; i < iterations; i++ {
				if err := op.Iteration(); err != nil {
					errutil.LogError(slog.Default(), "iteration failed", err)
					return errors.Join(err, op.Close())
				}
			}

			if err := op.Close(); err != nil {
				return err
			}
			out.Close()
			<-drained
			return nil
		},
	}

	addScriptFlag(cmd)
	cmd.Flags().IntVar(&iterations, "iterations", 1, "number of iterations to run")
	cmd.Flags().StringVar(&inputPort, "input", "in", "input port name wired to stdin")
	cmd.Flags().StringVar(&outputPort, "output", "out", "output port name wired to stdout")
	cmd.Flags().StringVar(&flowName, "flow", "standalone", "flow name reported to the script")
	cmd.Flags().StringVar(&nodeID, "node-id", "operator", "node id reported to the script")

	return cmd
}
