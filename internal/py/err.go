// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

package py

import (
	"strings"
	"unsafe"
)

// Err is an interpreter exception translated into the host error
// representation: the exception type name, its message, and the rendered
// traceback when one is available. Chained exceptions appear inside Trace
// the way the interpreter itself renders them.
type Err struct {
	Type    string
	Message string
	Trace   string
}

func (e *Err) Error() string {
	if e.Trace != "" {
		return strings.TrimRight(e.Trace, "\n")
	}
	if e.Type != "" {
		return e.Type + ": " + e.Message
	}
	return e.Message
}

// exception consumes the pending interpreter exception and translates it.
// Every C-API call site in this package funnels failures through here so
// no raw interpreter error state ever crosses the boundary.
func (p *Py) exception() error {
	c := &p.rt.c

	var ptype, pvalue, ptb uintptr
	c.PyErr_Fetch(
		unsafe.Pointer(&ptype),
		unsafe.Pointer(&pvalue),
		unsafe.Pointer(&ptb),
	)
	if ptype == 0 && pvalue == 0 {
		return &Err{Message: "interpreter call failed without setting an exception"}
	}
	c.PyErr_NormalizeException(
		unsafe.Pointer(&ptype),
		unsafe.Pointer(&pvalue),
		unsafe.Pointer(&ptb),
	)

	e := &Err{}
	if ptype != 0 {
		if name := c.PyObject_GetAttrString(ptype, "__name__"); name != 0 {
			if s, err := p.utf8(name); err == nil {
				e.Type = s
			}
			c.Py_DecRef(name)
		}
		c.PyErr_Clear()
	}
	if pvalue != 0 {
		if so := c.PyObject_Str(pvalue); so != 0 {
			if s, err := p.utf8(so); err == nil {
				e.Message = s
			}
			c.Py_DecRef(so)
		}
		c.PyErr_Clear()
	}
	if ptb != 0 {
		e.Trace = p.formatTrace(ptype, pvalue, ptb)
	}

	for _, o := range []uintptr{ptype, pvalue, ptb} {
		if o != 0 {
			c.Py_DecRef(o)
		}
	}
	return e
}

// formatTrace renders the traceback with traceback.format_exception.
// Failures while formatting are swallowed; the message still reaches the
// host without the trace.
func (p *Py) formatTrace(ptype, pvalue, ptb uintptr) string {
	c := &p.rt.c

	mod := c.PyImport_ImportModule("traceback")
	if mod == 0 {
		c.PyErr_Clear()
		return ""
	}
	defer c.Py_DecRef(mod)

	format := c.PyObject_GetAttrString(mod, "format_exception")
	if format == 0 {
		c.PyErr_Clear()
		return ""
	}
	defer c.Py_DecRef(format)

	args := c.PyTuple_New(3)
	if args == 0 {
		c.PyErr_Clear()
		return ""
	}
	for i, o := range []uintptr{ptype, pvalue, ptb} {
		if o == 0 {
			o = uintptr(p.rt.none)
		}
		c.Py_IncRef(o)
		c.PyTuple_SetItem(args, int64(i), o)
	}

	lines := c.PyObject_CallObject(format, args)
	c.Py_DecRef(args)
	if lines == 0 {
		c.PyErr_Clear()
		return ""
	}
	defer c.Py_DecRef(lines)

	var sb strings.Builder
	n := c.PyList_Size(lines)
	for i := int64(0); i < n; i++ {
		line := c.PyList_GetItem(lines, i) // borrowed
		if line == 0 {
			c.PyErr_Clear()
			break
		}
		s, err := p.utf8(line)
		if err != nil {
			break
		}
		sb.WriteString(s)
	}
	if c.PyErr_Occurred() != 0 {
		c.PyErr_Clear()
	}
	return sb.String()
}
