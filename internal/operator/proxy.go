// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

package operator

import (
	"fmt"

	"github.com/atolab/zenoh-flow-python/internal/py"
	"github.com/atolab/zenoh-flow-python/pkg/node"
)

// The proxies hand each host channel to the script as an object with a
// name attribute and a recv()/send() method. Channel identity and
// cardinality are preserved exactly: one proxy per channel, no proxy
// without a channel, no buffering beyond the channel's own. Blocking
// operations release the interpreter lock so other interpreter work can
// proceed while a proxy waits on the host.

// contextIntoPy mirrors the host context into a read-only namespace with
// snake_case attribute names.
func contextIntoPy(p *py.Py, ctx node.Context) (py.Object, error) {
	fields := map[string]string{
		"runtime_name": ctx.RuntimeName,
		"flow_name":    ctx.FlowName,
		"instance_id":  ctx.InstanceID,
		"node_id":      ctx.NodeID,
	}

	attrs := make(map[string]py.Object, len(fields))
	defer func() {
		for _, o := range attrs {
			p.DecRef(o)
		}
	}()
	for name, value := range fields {
		o, err := p.String(value)
		if err != nil {
			return 0, err
		}
		attrs[name] = o
	}
	return p.Namespace(attrs)
}

// inputsIntoPy builds the dict of input proxies handed to the user object,
// keyed by port name. The recv bindings are recorded on st for release.
func inputsIntoPy(p *py.Py, st *pyState, inputs node.Inputs) (py.Object, error) {
	items := make(map[string]py.Object, len(inputs))
	defer func() {
		for _, o := range items {
			p.DecRef(o)
		}
	}()
	for name, in := range inputs {
		proxy, err := newInputProxy(p, st, in)
		if err != nil {
			return 0, err
		}
		items[name] = proxy
	}
	return p.Dict(items)
}

// outputsIntoPy builds the dict of output proxies handed to the user
// object, keyed by port name. The send bindings are recorded on st for
// release.
func outputsIntoPy(p *py.Py, st *pyState, outputs node.Outputs) (py.Object, error) {
	items := make(map[string]py.Object, len(outputs))
	defer func() {
		for _, o := range items {
			p.DecRef(o)
		}
	}()
	for name, out := range outputs {
		proxy, err := newOutputProxy(p, st, out)
		if err != nil {
			return 0, err
		}
		items[name] = proxy
	}
	return p.Dict(items)
}

func newInputProxy(p *py.Py, st *pyState, in *node.Input) (py.Object, error) {
	recv := func(p *py.Py, args []py.Object) (py.Object, error) {
		if len(args) != 0 {
			return 0, fmt.Errorf("recv() takes no arguments")
		}
		var (
			msg node.Message
			ok  bool
		)
		p.Unlocked(func() { msg, ok = in.Recv() })
		if !ok {
			return 0, fmt.Errorf("input %q is closed", in.Name())
		}
		return p.Bytes(msg.Payload)
	}

	fn, err := p.BindFunc("recv", recv)
	if err != nil {
		return 0, err
	}
	st.bindings = append(st.bindings, fn) // released with the state

	name, err := p.String(in.Name())
	if err != nil {
		return 0, err
	}
	defer p.DecRef(name)

	return p.Namespace(map[string]py.Object{"name": name, "recv": fn})
}

func newOutputProxy(p *py.Py, st *pyState, out *node.Output) (py.Object, error) {
	send := func(p *py.Py, args []py.Object) (py.Object, error) {
		if len(args) != 1 {
			return 0, fmt.Errorf("send() takes exactly one bytes argument")
		}
		payload, err := p.BytesValue(args[0])
		if err != nil {
			return 0, err
		}
		p.Unlocked(func() { out.Send(node.Message{Payload: payload}) })
		return 0, nil // None
	}

	fn, err := p.BindFunc("send", send)
	if err != nil {
		return 0, err
	}
	st.bindings = append(st.bindings, fn) // released with the state

	name, err := p.String(out.Name())
	if err != nil {
		return 0, err
	}
	defer p.DecRef(name)

	return p.Namespace(map[string]py.Object{"name": name, "send": fn})
}
