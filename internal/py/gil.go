// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

package py

import "runtime"

// Py grants access to the interpreter. A Py value is only valid inside the
// closure passed to Runtime.Do, while the calling goroutine holds the
// global interpreter lock on a pinned OS thread. Never retain one.
type Py struct {
	rt *Runtime
}

// Runtime returns the runtime this token belongs to.
func (p *Py) Runtime() *Runtime { return p.rt }

// Do runs fn with the global interpreter lock held. Only one thread in the
// process executes interpreter code at a time; concurrent Do calls from
// different goroutines serialize here. The goroutine is pinned to its OS
// thread for the duration because CPython thread state is thread-affine.
func (rt *Runtime) Do(fn func(p *Py) error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	state := rt.c.PyGILState_Ensure()
	defer rt.c.PyGILState_Release(state)

	return fn(&Py{rt: rt})
}

// Unlocked releases the interpreter lock around fn so other threads can run
// interpreter code while fn blocks on host-side work, then reacquires it.
// Interpreter objects must not be touched inside fn.
func (p *Py) Unlocked(fn func()) {
	state := p.rt.c.PyEval_SaveThread()
	defer p.rt.c.PyEval_RestoreThread(state)
	fn()
}
