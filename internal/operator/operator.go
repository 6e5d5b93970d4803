// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

// Package operator implements the host node lifecycle contract on top of a
// user-supplied Python script. It composes the interpreter runtime loader,
// the script registrar, the boundary converters and the asyncio bridge
// from internal/py into one node.Node implementation.
package operator

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/samber/oops"

	"github.com/atolab/zenoh-flow-python/internal/py"
	"github.com/atolab/zenoh-flow-python/pkg/node"
)

// Operator is the Python-backed node implementation. One Operator owns one
// user object and one event loop; the interpreter runtime handle it relies
// on is process-wide and shared with every other Python node, so
// iterations of distinct operators serialize at the interpreter lock even
// when the host schedules them in parallel.
type Operator struct {
	rt     *py.Runtime
	nodeID string
	log    *slog.Logger

	// mu makes Iteration single-flight per instance and guards closed.
	mu     sync.Mutex
	st     pyState
	closed bool
}

var _ node.Node = (*Operator)(nil)

// New builds an Operator from its context, configuration and channel
// handles. Steps run in a fixed order: runtime load and interpreter
// bootstrap, configuration validation, context/config/channel conversion,
// script load and registration, user object construction, event loop
// installation. Any failing step releases everything built so far and
// returns a single structured error.
func New(ctx node.Context, cfg node.Configuration, inputs node.Inputs, outputs node.Outputs) (*Operator, error) {
	log := slog.With("node", ctx.NodeID)

	rt, err := py.Acquire()
	if err != nil {
		return nil, err
	}
	log.Debug("interpreter runtime ready", "library", rt.Library())

	script, forwarded, err := splitConfiguration(cfg)
	if err != nil {
		return nil, err
	}

	source, err := readScript(script)
	if err != nil {
		return nil, err
	}

	op := &Operator{rt: rt, nodeID: ctx.NodeID, log: log}
	err = rt.Do(func(p *py.Py) error {
		st := &op.st
		fail := func(err error) error {
			st.release(p)
			return err
		}

		log.Info("converting context to python")
		pyCtx, err := contextIntoPy(p, ctx)
		if err != nil {
			return fail(conversionError(err, script))
		}
		defer p.DecRef(pyCtx)

		log.Info("converting configuration to python")
		pyCfg, err := p.FromGo(forwarded)
		if err != nil {
			return fail(conversionError(err, script))
		}
		defer p.DecRef(pyCfg)

		log.Info("converting inputs to python")
		pyInputs, err := inputsIntoPy(p, st, inputs)
		if err != nil {
			return fail(conversionError(err, script))
		}
		defer p.DecRef(pyInputs)

		log.Info("converting outputs to python")
		pyOutputs, err := outputsIntoPy(p, st, outputs)
		if err != nil {
			return fail(conversionError(err, script))
		}
		defer p.DecRef(pyOutputs)

		log.Info("loading python script", "script", script)
		st.module, st.class, err = registerScript(p, source, script)
		if err != nil {
			return fail(err)
		}

		log.Info("creating instance of python operator")
		st.obj, err = p.Call(st.class, pyCtx, pyCfg, pyInputs, pyOutputs)
		if err != nil {
			return fail(oops.
				In("operator").
				Code(node.CodeRegistration).
				With("script", script).
				Wrapf(err, "construct python operator with (context, configuration, inputs, outputs)"))
		}

		log.Info("installing asyncio event loop")
		st.asyncio, st.loop, err = installEventLoop(p)
		if err != nil {
			return fail(oops.
				In("operator").
				Code(node.CodeScript).
				With("script", script).
				Wrapf(err, "install event loop"))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

// Iteration runs one unit of the user object's work to completion. Calls
// against the same instance never overlap: a concurrent caller waits for
// the in-flight iteration to finish. There is no retry and no timeout at
// this layer.
func (o *Operator) Iteration() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return oops.
			In("operator").
			Code(node.CodeIteration).
			With("node", o.nodeID).
			Errorf("operator is closed")
	}
	if err := o.st.iteration(o.rt); err != nil {
		return oops.
			In("operator").
			Code(node.CodeIteration).
			With("node", o.nodeID).
			Wrap(err)
	}
	return nil
}

// Close calls the script's optional finalize() and releases the
// interpreter objects, strictly before any notion of releasing the
// runtime handle (which stays loaded for the life of the process).
// Idempotent.
func (o *Operator) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil
	}
	o.closed = true

	var finalizeErr error
	doErr := o.rt.Do(func(p *py.Py) error {
		if o.st.obj != 0 && p.HasAttr(o.st.obj, "finalize") {
			if res, err := p.CallMethod(o.st.obj, "finalize"); err != nil {
				finalizeErr = oops.
					In("operator").
					Code(node.CodeScript).
					With("node", o.nodeID).
					Wrapf(err, "finalize python operator")
			} else {
				p.DecRef(res)
			}
		}
		o.st.release(p)
		return nil
	})
	return errors.Join(doErr, finalizeErr)
}

// conversionError tags interpreter-side conversion failures with the
// conversion code; failures already carrying a structured code pass
// through untouched.
func conversionError(err error, script string) error {
	var pyErr *py.Err
	if !errors.As(err, &pyErr) {
		return err
	}
	return oops.
		In("operator").
		Code(node.CodeConversion).
		With("script", script).
		Wrap(err)
}
