// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

package node

// Error codes attached to every failure that crosses the plugin boundary.
// They are set as oops codes so hosts can branch on failure kind without
// parsing messages.
const (
	// CodeLoad: the interpreter runtime library is missing or unopenable.
	CodeLoad = "LOAD_ERROR"
	// CodeIO: the configured script file cannot be read.
	CodeIO = "IO_ERROR"
	// CodeScript: the script failed to compile or raised while executing.
	CodeScript = "SCRIPT_ERROR"
	// CodeConversion: a value at the boundary has an unsupported shape.
	CodeConversion = "CONVERSION_ERROR"
	// CodeRegistration: register() is missing or returned something that is
	// not constructible with the documented arguments.
	CodeRegistration = "REGISTRATION_ERROR"
	// CodeIteration: the user object's iteration call raised.
	CodeIteration = "ITERATION_ERROR"
)
