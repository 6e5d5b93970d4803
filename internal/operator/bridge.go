// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

package operator

import (
	"github.com/atolab/zenoh-flow-python/internal/py"
)

// pyState owns the interpreter objects backing one operator instance: the
// script module, the registered class, the user object built from it, the
// asyncio event loop every iteration runs on, and the host callbacks bound
// for its channel proxies. All fields are set once during New and released
// together in release, interpreter objects strictly before any notion of
// dropping the runtime handle (which in practice is never unloaded).
type pyState struct {
	module  py.Object
	class   py.Object
	obj     py.Object
	asyncio py.Object
	loop    py.Object

	// bindings holds the proxy recv/send builtins so release can drop
	// their Go closures along with the references.
	bindings []py.Object
}

// installEventLoop creates the operator's cooperative event loop and
// installs it as the interpreter's current loop. Called once per operator;
// the loop persists across iterations so timers and pending tasks keep
// their state between host calls.
func installEventLoop(p *py.Py) (asyncio, loop py.Object, err error) {
	asyncio, err = p.Import("asyncio")
	if err != nil {
		return 0, 0, err
	}
	loop, err = p.CallMethod(asyncio, "new_event_loop")
	if err != nil {
		p.DecRef(asyncio)
		return 0, 0, err
	}
	res, err := p.CallMethod(asyncio, "set_event_loop", loop)
	if err != nil {
		p.DecRef(loop)
		p.DecRef(asyncio)
		return 0, 0, err
	}
	p.DecRef(res)
	return asyncio, loop, nil
}

// iteration drives one call of the user object's iteration() method to
// completion. When the method is a coroutine function, the resulting
// coroutine is run on the persistent loop until it finishes or raises;
// plain methods complete within the call itself. The calling host thread
// blocks either way; suspension inside the routine is confined to this
// operator's loop.
func (s *pyState) iteration(rt *py.Runtime) error {
	return rt.Do(func(p *py.Py) error {
		res, err := p.CallMethod(s.obj, "iteration")
		if err != nil {
			return err
		}

		coro, err := p.CallMethod(s.asyncio, "iscoroutine", res)
		if err != nil {
			p.DecRef(res)
			return err
		}
		isCoro, err := p.IsTrue(coro)
		p.DecRef(coro)
		if err != nil {
			p.DecRef(res)
			return err
		}
		if !isCoro {
			p.DecRef(res)
			return nil
		}

		done, err := p.CallMethod(s.loop, "run_until_complete", res)
		p.DecRef(res)
		if err != nil {
			return err
		}
		p.DecRef(done)
		return nil
	})
}

// release closes the loop, unregisters the script module and host
// callbacks, and drops every interpreter reference. Safe to call on a
// partially initialized state.
func (s *pyState) release(p *py.Py) {
	if s.loop != 0 {
		if res, err := p.CallMethod(s.loop, "close"); err == nil {
			p.DecRef(res)
		}
	}
	// sys.modules holds its own reference to the instance's module; drop
	// it so closed operators do not accumulate there.
	if s.module != 0 {
		p.RemoveModule(s.module)
	}
	for _, b := range s.bindings {
		p.Unbind(b)
		p.DecRef(b)
	}
	for _, o := range []py.Object{s.obj, s.class, s.module, s.loop, s.asyncio} {
		p.DecRef(o)
	}
	*s = pyState{}
}
