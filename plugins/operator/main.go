// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

// Package main builds the Python operator wrapper as a host-loadable node
// plugin.
//
// Build:
//
//	go build -buildmode=plugin -o python-operator.so ./plugins/operator
//
// The host resolves node.SymbolNew to NewNode and node.SymbolAPIVersion to
// NodeAPIVersion with plugin.Lookup; iteration and teardown are reached
// through the returned node.Node.
package main

import (
	"github.com/atolab/zenoh-flow-python/internal/operator"
	"github.com/atolab/zenoh-flow-python/pkg/node"
)

// NewNode is the node factory the host looks up via node.SymbolNew.
var NewNode node.Factory = func(ctx node.Context, cfg node.Configuration, inputs node.Inputs, outputs node.Outputs) (node.Node, error) {
	return operator.New(ctx, cfg, inputs, outputs)
}

// NodeAPIVersion is the ABI version the host checks via
// node.SymbolAPIVersion before calling NewNode.
var NodeAPIVersion = node.APIVersion

func main() {}
