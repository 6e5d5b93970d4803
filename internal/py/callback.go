// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

package py

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// GoFunc is a Go function callable from the interpreter. args holds
// borrowed references to the positional arguments; the returned Object
// must be a new reference (zero means None).
type GoFunc func(p *Py, args []Object) (Object, error)

// methodDef mirrors C's PyMethodDef on 64-bit platforms.
type methodDef struct {
	name  *byte
	meth  uintptr
	flags int32
	_     int32
	doc   *byte
}

// methVarArgs is the METH_VARARGS calling convention flag.
const methVarArgs = 0x0001

// The registry pins every method definition and name buffer for the life
// of the process: the interpreter keeps pointers into them, and the
// runtime they belong to is never unloaded. Only the funcs entries are
// removable, through Unbind.
var callbacks struct {
	sync.Mutex
	next  int64
	funcs map[int64]GoFunc
	defs  []*methodDef
	names [][]byte
}

var trampoline struct {
	once sync.Once
	ptr  uintptr
}

// BindFunc exposes fn to the interpreter as a builtin-function object with
// the given name. All bindings share one C trampoline; the function's
// registry id travels as the builtin's __self__. The method definition
// stays pinned for the life of the process; the Go closure is released by
// Unbind.
func (p *Py) BindFunc(name string, fn GoFunc) (Object, error) {
	trampoline.once.Do(func() {
		trampoline.ptr = purego.NewCallback(trampolineEntry)
	})

	cname := append([]byte(name), 0)
	def := &methodDef{name: &cname[0], meth: trampoline.ptr, flags: methVarArgs}

	callbacks.Lock()
	if callbacks.funcs == nil {
		callbacks.funcs = make(map[int64]GoFunc)
	}
	callbacks.next++
	id := callbacks.next
	callbacks.funcs[id] = fn
	callbacks.defs = append(callbacks.defs, def)
	callbacks.names = append(callbacks.names, cname)
	callbacks.Unlock()

	c := &p.rt.c
	self := c.PyLong_FromLongLong(id)
	if self == 0 {
		return 0, p.exception()
	}
	fobj := c.PyCFunction_NewEx(uintptr(unsafe.Pointer(def)), self, 0)
	c.Py_DecRef(self) // the function object holds its own reference
	if fobj == 0 {
		return 0, p.exception()
	}
	return Object(fobj), nil
}

// Unbind drops the Go closure behind a binding created by BindFunc, so
// per-binding state (captured channels and the like) becomes collectable.
// The builtin object may still be referenced inside the interpreter;
// calling it after Unbind raises RuntimeError. The pinned method
// definition itself is never reclaimed.
func (p *Py) Unbind(fn Object) {
	self, err := p.Attr(fn, "__self__")
	if err != nil {
		return
	}
	defer p.DecRef(self)

	id := p.rt.c.PyLong_AsLongLong(uintptr(self))
	if id == -1 && p.rt.c.PyErr_Occurred() != 0 {
		p.rt.c.PyErr_Clear()
		return
	}

	callbacks.Lock()
	delete(callbacks.funcs, id)
	callbacks.Unlock()
}

// trampolineEntry is the single C entry point behind every bound Go
// function. Called by the interpreter with the lock held.
func trampolineEntry(self, args uintptr) uintptr {
	rt := shared
	if rt == nil {
		return 0
	}
	c := &rt.c

	id := c.PyLong_AsLongLong(self)
	callbacks.Lock()
	fn := callbacks.funcs[id]
	callbacks.Unlock()
	if fn == nil {
		c.PyErr_SetString(uintptr(rt.excRuntimeError), "unknown host callback")
		return 0
	}

	n := c.PyTuple_Size(args)
	objs := make([]Object, n)
	for i := int64(0); i < n; i++ {
		objs[i] = Object(c.PyTuple_GetItem(args, i)) // borrowed
	}

	res, err := fn(&Py{rt: rt}, objs)
	if err != nil {
		if res != 0 {
			c.Py_DecRef(uintptr(res))
		}
		if c.PyErr_Occurred() == 0 {
			c.PyErr_SetString(uintptr(rt.excRuntimeError), err.Error())
		}
		return 0
	}
	if res == 0 {
		c.Py_IncRef(uintptr(rt.none))
		return uintptr(rt.none)
	}
	return uintptr(res)
}
