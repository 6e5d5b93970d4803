// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

// Package node defines the dataflow node contract shared between the
// runtime host and node plugins: the lifecycle interface, the JSON-like
// configuration map, the execution context, and the typed channel handles
// a node reads from and writes to.
package node

// Context describes the identity of a node instance within a running flow.
// The host fills it once before calling the node factory; nodes treat it
// as read-only.
type Context struct {
	// RuntimeName identifies the runtime daemon hosting the node.
	RuntimeName string `json:"runtime_name"`
	// FlowName is the name of the dataflow the node belongs to.
	FlowName string `json:"flow_name"`
	// InstanceID is the unique identifier of this flow instance.
	InstanceID string `json:"instance_id"`
	// NodeID is the identifier of the node within the flow.
	NodeID string `json:"node_id"`
}

// Configuration is the configuration map handed to a node by the host.
// Values are restricted to the JSON-like domain: nil, bool, numbers,
// strings, []any and map[string]any.
type Configuration map[string]any

// Node is a running dataflow node. The host calls Iteration repeatedly
// from its scheduler, never concurrently for the same instance, and calls
// Close exactly once when the node is retired.
type Node interface {
	// Iteration runs one unit of work to completion and reports its outcome.
	Iteration() error

	// Close releases the node's resources. The host stops calling
	// Iteration before Close.
	Close() error
}

// Factory constructs a Node from its context, configuration and channel
// handles. Plugins export a value of this type under SymbolNew.
type Factory func(ctx Context, cfg Configuration, inputs Inputs, outputs Outputs) (Node, error)

// Symbol names the host resolves on a node plugin via plugin.Lookup.
// SymbolNew must resolve to a Factory; SymbolAPIVersion to an int equal
// to APIVersion. Iteration and Close are reached through the returned
// Node, so a plugin exports exactly these two symbols.
const (
	SymbolNew        = "NewNode"
	SymbolAPIVersion = "NodeAPIVersion"
)

// APIVersion is the plugin ABI version. Host and plugin must agree.
const APIVersion = 1
