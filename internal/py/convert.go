// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

package py

import (
	"encoding/json"
	"fmt"

	"github.com/samber/oops"

	"github.com/atolab/zenoh-flow-python/pkg/node"
)

// FromGo converts a value from the JSON-like Go domain (nil, bool, ints,
// float64, string, []byte, []any, map[string]any) into an interpreter
// object. Total over that domain; anything else is a conversion error.
func (p *Py) FromGo(v any) (Object, error) {
	c := &p.rt.c

	switch val := v.(type) {
	case nil:
		return p.None(), nil

	case bool:
		o := p.rt.falsehood
		if val {
			o = p.rt.truth
		}
		p.IncRef(o)
		return o, nil

	case int:
		return p.fromInt64(int64(val))
	case int32:
		return p.fromInt64(int64(val))
	case int64:
		return p.fromInt64(val)

	case float32:
		return p.fromFloat64(float64(val))
	case float64:
		return p.fromFloat64(val)

	case json.Number:
		if i, err := val.Int64(); err == nil {
			return p.fromInt64(i)
		}
		f, err := val.Float64()
		if err != nil {
			return 0, oops.
				In("py").
				Code(node.CodeConversion).
				With("value", val.String()).
				Wrapf(err, "numeric value out of range")
		}
		return p.fromFloat64(f)

	case string:
		return p.String(val)

	case []byte:
		return p.Bytes(val)

	case []any:
		list := c.PyList_New(int64(len(val)))
		if list == 0 {
			return 0, p.exception()
		}
		for i, item := range val {
			o, err := p.FromGo(item)
			if err != nil {
				p.DecRef(Object(list))
				return 0, err
			}
			// PyList_SetItem steals the reference to o.
			if c.PyList_SetItem(list, int64(i), uintptr(o)) != 0 {
				p.DecRef(Object(list))
				return 0, p.exception()
			}
		}
		return Object(list), nil

	case map[string]any:
		dict := c.PyDict_New()
		if dict == 0 {
			return 0, p.exception()
		}
		for key, item := range val {
			o, err := p.FromGo(item)
			if err != nil {
				p.DecRef(Object(dict))
				return 0, err
			}
			k, err := p.String(key)
			if err != nil {
				p.DecRef(o)
				p.DecRef(Object(dict))
				return 0, err
			}
			rc := c.PyDict_SetItem(dict, uintptr(k), uintptr(o))
			p.DecRef(k) // the dict holds its own references
			p.DecRef(o)
			if rc != 0 {
				p.DecRef(Object(dict))
				return 0, p.exception()
			}
		}
		return Object(dict), nil

	default:
		return 0, oops.
			In("py").
			Code(node.CodeConversion).
			With("go_type", fmt.Sprintf("%T", v)).
			Errorf("unsupported value shape at the interpreter boundary")
	}
}

// ToGo converts an interpreter object back into the JSON-like Go domain.
// Integers come back as int64, sequences (lists and tuples) as []any.
func (p *Py) ToGo(o Object) (any, error) {
	c := &p.rt.c

	switch {
	case o == 0:
		return nil, oops.
			In("py").
			Code(node.CodeConversion).
			Errorf("cannot convert a null interpreter reference")

	case o == p.rt.none:
		return nil, nil

	// bool is a subtype of int; test it first.
	case p.isInstance(o, p.rt.typeBool):
		return p.IsTrue(o)

	case p.isInstance(o, p.rt.typeLong):
		n := c.PyLong_AsLongLong(uintptr(o))
		if n == -1 && c.PyErr_Occurred() != 0 {
			return nil, p.exception()
		}
		return n, nil

	case p.isInstance(o, p.rt.typeFloat):
		return c.PyFloat_AsDouble(uintptr(o)), nil

	case p.isInstance(o, p.rt.typeUnicode):
		return p.utf8(uintptr(o))

	case p.isInstance(o, p.rt.typeBytes):
		return p.BytesValue(o)

	case p.isInstance(o, p.rt.typeList):
		return p.sequenceToGo(o, c.PyList_Size, c.PyList_GetItem)

	case p.isInstance(o, p.rt.typeTuple):
		return p.sequenceToGo(o, c.PyTuple_Size, c.PyTuple_GetItem)

	case p.isInstance(o, p.rt.typeDict):
		return p.dictToGo(o)

	default:
		return nil, oops.
			In("py").
			Code(node.CodeConversion).
			With("python_type", p.typeName(o)).
			Errorf("unsupported value shape at the interpreter boundary")
	}
}

func (p *Py) fromInt64(v int64) (Object, error) {
	o := p.rt.c.PyLong_FromLongLong(v)
	if o == 0 {
		return 0, p.exception()
	}
	return Object(o), nil
}

func (p *Py) fromFloat64(v float64) (Object, error) {
	o := p.rt.c.PyFloat_FromDouble(v)
	if o == 0 {
		return 0, p.exception()
	}
	return Object(o), nil
}

func (p *Py) sequenceToGo(o Object, size func(uintptr) int64, item func(uintptr, int64) uintptr) (any, error) {
	n := size(uintptr(o))
	if n < 0 {
		return nil, p.exception()
	}
	out := make([]any, n)
	for i := int64(0); i < n; i++ {
		el := item(uintptr(o), i) // borrowed
		if el == 0 {
			return nil, p.exception()
		}
		v, err := p.ToGo(Object(el))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (p *Py) dictToGo(o Object) (any, error) {
	c := &p.rt.c

	keys := c.PyDict_Keys(uintptr(o))
	if keys == 0 {
		return nil, p.exception()
	}
	defer p.DecRef(Object(keys))

	n := c.PyList_Size(keys)
	out := make(map[string]any, n)
	for i := int64(0); i < n; i++ {
		key := c.PyList_GetItem(keys, i) // borrowed
		if key == 0 {
			return nil, p.exception()
		}
		if !p.isInstance(Object(key), p.rt.typeUnicode) {
			return nil, oops.
				In("py").
				Code(node.CodeConversion).
				With("python_type", p.typeName(Object(key))).
				Errorf("map keys must be strings at the interpreter boundary")
		}
		ks, err := p.utf8(key)
		if err != nil {
			return nil, err
		}

		val := c.PyObject_GetItem(uintptr(o), key)
		if val == 0 {
			return nil, p.exception()
		}
		v, err := p.ToGo(Object(val))
		p.DecRef(Object(val))
		if err != nil {
			return nil, err
		}
		out[ks] = v
	}
	return out, nil
}
