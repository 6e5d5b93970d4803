// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

package py

import (
	"runtime"
	"unsafe"
)

// Object is a reference to an interpreter-managed value. The zero Object
// means "no object". Unless documented otherwise, methods returning an
// Object return a new reference the caller must release with DecRef.
type Object uintptr

// IncRef increments o's reference count. No-op on the zero Object.
func (p *Py) IncRef(o Object) {
	if o != 0 {
		p.rt.c.Py_IncRef(uintptr(o))
	}
}

// DecRef releases one reference to o. No-op on the zero Object.
func (p *Py) DecRef(o Object) {
	if o != 0 {
		p.rt.c.Py_DecRef(uintptr(o))
	}
}

// None returns the None singleton as a new reference.
func (p *Py) None() Object {
	p.IncRef(p.rt.none)
	return p.rt.none
}

// String builds an interpreter string from s. The length travels
// explicitly so embedded NUL bytes are preserved.
func (p *Py) String(s string) (Object, error) {
	b := []byte(s)
	var buf uintptr
	if len(b) > 0 {
		buf = uintptr(unsafe.Pointer(&b[0]))
	}
	o := p.rt.c.PyUnicode_FromStringAndSize(buf, int64(len(b)))
	runtime.KeepAlive(b)
	if o == 0 {
		return 0, p.exception()
	}
	return Object(o), nil
}

// utf8 copies the UTF-8 form of a str object into Go memory, embedded NUL
// bytes included.
func (p *Py) utf8(o uintptr) (string, error) {
	var n int64
	ptr := p.rt.c.PyUnicode_AsUTF8AndSize(o, unsafe.Pointer(&n))
	if ptr == 0 {
		return "", p.exception()
	}
	if n == 0 {
		return "", nil
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n)), nil
}

// Bytes builds an interpreter bytes object holding a copy of b.
func (p *Py) Bytes(b []byte) (Object, error) {
	var buf uintptr
	if len(b) > 0 {
		buf = uintptr(unsafe.Pointer(&b[0]))
	}
	o := p.rt.c.PyBytes_FromStringAndSize(buf, int64(len(b)))
	runtime.KeepAlive(b)
	if o == 0 {
		return 0, p.exception()
	}
	return Object(o), nil
}

// BytesValue copies the contents of a bytes object into Go memory.
func (p *Py) BytesValue(o Object) ([]byte, error) {
	c := &p.rt.c
	n := c.PyBytes_Size(uintptr(o))
	if n < 0 {
		return nil, p.exception()
	}
	if n == 0 {
		return []byte{}, nil
	}
	ptr := c.PyBytes_AsString(uintptr(o))
	if ptr == 0 {
		return nil, p.exception()
	}
	out := make([]byte, n)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n))
	return out, nil
}

// Attr returns the named attribute of o.
func (p *Py) Attr(o Object, name string) (Object, error) {
	v := p.rt.c.PyObject_GetAttrString(uintptr(o), name)
	if v == 0 {
		return 0, p.exception()
	}
	return Object(v), nil
}

// SetAttr sets the named attribute of o to v.
func (p *Py) SetAttr(o Object, name string, v Object) error {
	if p.rt.c.PyObject_SetAttrString(uintptr(o), name, uintptr(v)) != 0 {
		return p.exception()
	}
	return nil
}

// HasAttr reports whether o has the named attribute.
func (p *Py) HasAttr(o Object, name string) bool {
	return p.rt.c.PyObject_HasAttrString(uintptr(o), name) != 0
}

// Callable reports whether o can be called.
func (p *Py) Callable(o Object) bool {
	return p.rt.c.PyCallable_Check(uintptr(o)) != 0
}

// Call invokes callable with the given positional arguments. The caller
// keeps its references to args.
func (p *Py) Call(callable Object, args ...Object) (Object, error) {
	t, err := p.tuple(args)
	if err != nil {
		return 0, err
	}
	defer p.DecRef(t)

	res := p.rt.c.PyObject_CallObject(uintptr(callable), uintptr(t))
	if res == 0 {
		return 0, p.exception()
	}
	return Object(res), nil
}

// CallMethod invokes the named method of o with positional arguments.
func (p *Py) CallMethod(o Object, name string, args ...Object) (Object, error) {
	fn, err := p.Attr(o, name)
	if err != nil {
		return 0, err
	}
	defer p.DecRef(fn)
	return p.Call(fn, args...)
}

// CallKwargs invokes callable with no positional arguments and the given
// keyword arguments. The caller keeps its references to the values.
func (p *Py) CallKwargs(callable Object, kwargs map[string]Object) (Object, error) {
	c := &p.rt.c

	empty, err := p.tuple(nil)
	if err != nil {
		return 0, err
	}
	defer p.DecRef(empty)

	kw := c.PyDict_New()
	if kw == 0 {
		return 0, p.exception()
	}
	defer p.DecRef(Object(kw))
	for key, val := range kwargs {
		k, err := p.String(key)
		if err != nil {
			return 0, err
		}
		rc := c.PyDict_SetItem(kw, uintptr(k), uintptr(val))
		p.DecRef(k)
		if rc != 0 {
			return 0, p.exception()
		}
	}

	res := c.PyObject_Call(uintptr(callable), uintptr(empty), kw)
	if res == 0 {
		return 0, p.exception()
	}
	return Object(res), nil
}

// Str renders o with str().
func (p *Py) Str(o Object) (string, error) {
	s := p.rt.c.PyObject_Str(uintptr(o))
	if s == 0 {
		return "", p.exception()
	}
	defer p.DecRef(Object(s))
	return p.utf8(s)
}

// IsTrue evaluates o's truthiness.
func (p *Py) IsTrue(o Object) (bool, error) {
	v := p.rt.c.PyObject_IsTrue(uintptr(o))
	if v < 0 {
		return false, p.exception()
	}
	return v != 0, nil
}

// Namespace builds a types.SimpleNamespace with the given attributes. The
// caller keeps its references to the values.
func (p *Py) Namespace(attrs map[string]Object) (Object, error) {
	types, err := p.Import("types")
	if err != nil {
		return 0, err
	}
	defer p.DecRef(types)

	cls, err := p.Attr(types, "SimpleNamespace")
	if err != nil {
		return 0, err
	}
	defer p.DecRef(cls)

	return p.CallKwargs(cls, attrs)
}

// Dict builds a dict from items. The caller keeps its references to the
// values.
func (p *Py) Dict(items map[string]Object) (Object, error) {
	c := &p.rt.c
	d := c.PyDict_New()
	if d == 0 {
		return 0, p.exception()
	}
	for key, val := range items {
		k, err := p.String(key)
		if err != nil {
			p.DecRef(Object(d))
			return 0, err
		}
		rc := c.PyDict_SetItem(d, uintptr(k), uintptr(val))
		p.DecRef(k)
		if rc != 0 {
			p.DecRef(Object(d))
			return 0, p.exception()
		}
	}
	return Object(d), nil
}

// tuple packs args into a new tuple, taking its own references.
func (p *Py) tuple(args []Object) (Object, error) {
	c := &p.rt.c
	t := c.PyTuple_New(int64(len(args)))
	if t == 0 {
		return 0, p.exception()
	}
	for i, a := range args {
		p.IncRef(a) // PyTuple_SetItem steals the reference
		if c.PyTuple_SetItem(t, int64(i), uintptr(a)) != 0 {
			p.DecRef(Object(t))
			return 0, p.exception()
		}
	}
	return Object(t), nil
}

// typeName returns the class name of o, best effort.
func (p *Py) typeName(o Object) string {
	cls, err := p.Attr(o, "__class__")
	if err != nil {
		return "unknown"
	}
	defer p.DecRef(cls)
	name, err := p.Attr(cls, "__name__")
	if err != nil {
		return "unknown"
	}
	defer p.DecRef(name)
	s, err := p.utf8(uintptr(name))
	if err != nil {
		return "unknown"
	}
	return s
}

func (p *Py) isInstance(o, typ Object) bool {
	v := p.rt.c.PyObject_IsInstance(uintptr(o), uintptr(typ))
	if v < 0 {
		p.rt.c.PyErr_Clear()
		return false
	}
	return v != 0
}
