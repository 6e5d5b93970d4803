// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

package py

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
)

// capi holds the subset of the CPython C API the bridge calls. Field names
// match the exported symbol names. All functions must be called with the
// interpreter lock held unless noted otherwise; the lock primitives
// themselves are the exception.
type capi struct {
	// Interpreter lifecycle and lock.
	Py_InitializeEx      func(initsigs int32)
	Py_IsInitialized     func() int32
	PyEval_SaveThread    func() uintptr
	PyEval_RestoreThread func(state uintptr)
	PyGILState_Ensure    func() int32
	PyGILState_Release   func(state int32)

	// Reference counting.
	Py_IncRef func(o uintptr)
	Py_DecRef func(o uintptr)

	// Scalars. Strings travel with explicit lengths so embedded NUL bytes
	// survive the crossing; the NUL-terminated variants would truncate.
	PyLong_FromLongLong         func(v int64) uintptr
	PyLong_AsLongLong           func(o uintptr) int64
	PyFloat_FromDouble          func(v float64) uintptr
	PyFloat_AsDouble            func(o uintptr) float64
	PyUnicode_FromStringAndSize func(buf uintptr, n int64) uintptr
	PyUnicode_AsUTF8AndSize     func(o uintptr, size unsafe.Pointer) uintptr

	// Bytes. AsString returns the raw buffer pointer; the caller copies
	// Size bytes out of it before releasing the object.
	PyBytes_FromStringAndSize func(buf uintptr, n int64) uintptr
	PyBytes_Size              func(o uintptr) int64
	PyBytes_AsString          func(o uintptr) uintptr

	// Containers.
	PyList_New           func(n int64) uintptr
	PyList_Size          func(o uintptr) int64
	PyList_SetItem       func(o uintptr, i int64, v uintptr) int32
	PyList_GetItem       func(o uintptr, i int64) uintptr
	PyTuple_New          func(n int64) uintptr
	PyTuple_Size         func(o uintptr) int64
	PyTuple_SetItem      func(o uintptr, i int64, v uintptr) int32
	PyTuple_GetItem      func(o uintptr, i int64) uintptr
	PyDict_New     func() uintptr
	PyDict_SetItem func(o, key, v uintptr) int32
	PyDict_Keys    func(o uintptr) uintptr

	// Generic object protocol.
	PyObject_GetAttrString func(o uintptr, name string) uintptr
	PyObject_SetAttrString func(o uintptr, name string, v uintptr) int32
	PyObject_HasAttrString func(o uintptr, name string) int32
	PyObject_GetItem       func(o, key uintptr) uintptr
	PyObject_CallObject    func(callable, args uintptr) uintptr
	PyObject_Call          func(callable, args, kwargs uintptr) uintptr
	PyCallable_Check       func(o uintptr) int32
	PyObject_IsInstance    func(o, typ uintptr) int32
	PyObject_IsTrue        func(o uintptr) int32
	PyObject_Str           func(o uintptr) uintptr

	// Modules and compilation.
	PyImport_ImportModule   func(name string) uintptr
	Py_CompileString        func(source, filename string, start int32) uintptr
	PyImport_ExecCodeModule func(name string, code uintptr) uintptr

	// Error state.
	PyErr_Occurred           func() uintptr
	PyErr_Fetch              func(ptype, pvalue, ptb unsafe.Pointer)
	PyErr_NormalizeException func(ptype, pvalue, ptb unsafe.Pointer)
	PyErr_Clear              func()
	PyErr_SetString          func(exc uintptr, msg string)

	// Host callbacks.
	PyCFunction_NewEx func(def, self, module uintptr) uintptr
}

// bind registers every C-API function against the loaded library. purego
// panics on a missing symbol; the recover converts that into a plain error
// so a truncated or incompatible library surfaces as LoadError instead of
// a native fault.
func (c *capi) bind(lib uintptr) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("register C API: %v", r)
		}
	}()

	purego.RegisterLibFunc(&c.Py_InitializeEx, lib, "Py_InitializeEx")
	purego.RegisterLibFunc(&c.Py_IsInitialized, lib, "Py_IsInitialized")
	purego.RegisterLibFunc(&c.PyEval_SaveThread, lib, "PyEval_SaveThread")
	purego.RegisterLibFunc(&c.PyEval_RestoreThread, lib, "PyEval_RestoreThread")
	purego.RegisterLibFunc(&c.PyGILState_Ensure, lib, "PyGILState_Ensure")
	purego.RegisterLibFunc(&c.PyGILState_Release, lib, "PyGILState_Release")

	purego.RegisterLibFunc(&c.Py_IncRef, lib, "Py_IncRef")
	purego.RegisterLibFunc(&c.Py_DecRef, lib, "Py_DecRef")

	purego.RegisterLibFunc(&c.PyLong_FromLongLong, lib, "PyLong_FromLongLong")
	purego.RegisterLibFunc(&c.PyLong_AsLongLong, lib, "PyLong_AsLongLong")
	purego.RegisterLibFunc(&c.PyFloat_FromDouble, lib, "PyFloat_FromDouble")
	purego.RegisterLibFunc(&c.PyFloat_AsDouble, lib, "PyFloat_AsDouble")
	purego.RegisterLibFunc(&c.PyUnicode_FromStringAndSize, lib, "PyUnicode_FromStringAndSize")
	purego.RegisterLibFunc(&c.PyUnicode_AsUTF8AndSize, lib, "PyUnicode_AsUTF8AndSize")

	purego.RegisterLibFunc(&c.PyBytes_FromStringAndSize, lib, "PyBytes_FromStringAndSize")
	purego.RegisterLibFunc(&c.PyBytes_Size, lib, "PyBytes_Size")
	purego.RegisterLibFunc(&c.PyBytes_AsString, lib, "PyBytes_AsString")

	purego.RegisterLibFunc(&c.PyList_New, lib, "PyList_New")
	purego.RegisterLibFunc(&c.PyList_Size, lib, "PyList_Size")
	purego.RegisterLibFunc(&c.PyList_SetItem, lib, "PyList_SetItem")
	purego.RegisterLibFunc(&c.PyList_GetItem, lib, "PyList_GetItem")
	purego.RegisterLibFunc(&c.PyTuple_New, lib, "PyTuple_New")
	purego.RegisterLibFunc(&c.PyTuple_Size, lib, "PyTuple_Size")
	purego.RegisterLibFunc(&c.PyTuple_SetItem, lib, "PyTuple_SetItem")
	purego.RegisterLibFunc(&c.PyTuple_GetItem, lib, "PyTuple_GetItem")
	purego.RegisterLibFunc(&c.PyDict_New, lib, "PyDict_New")
	purego.RegisterLibFunc(&c.PyDict_SetItem, lib, "PyDict_SetItem")
	purego.RegisterLibFunc(&c.PyDict_Keys, lib, "PyDict_Keys")

	purego.RegisterLibFunc(&c.PyObject_GetAttrString, lib, "PyObject_GetAttrString")
	purego.RegisterLibFunc(&c.PyObject_SetAttrString, lib, "PyObject_SetAttrString")
	purego.RegisterLibFunc(&c.PyObject_HasAttrString, lib, "PyObject_HasAttrString")
	purego.RegisterLibFunc(&c.PyObject_GetItem, lib, "PyObject_GetItem")
	purego.RegisterLibFunc(&c.PyObject_CallObject, lib, "PyObject_CallObject")
	purego.RegisterLibFunc(&c.PyObject_Call, lib, "PyObject_Call")
	purego.RegisterLibFunc(&c.PyCallable_Check, lib, "PyCallable_Check")
	purego.RegisterLibFunc(&c.PyObject_IsInstance, lib, "PyObject_IsInstance")
	purego.RegisterLibFunc(&c.PyObject_IsTrue, lib, "PyObject_IsTrue")
	purego.RegisterLibFunc(&c.PyObject_Str, lib, "PyObject_Str")

	purego.RegisterLibFunc(&c.PyImport_ImportModule, lib, "PyImport_ImportModule")
	purego.RegisterLibFunc(&c.Py_CompileString, lib, "Py_CompileString")
	purego.RegisterLibFunc(&c.PyImport_ExecCodeModule, lib, "PyImport_ExecCodeModule")

	purego.RegisterLibFunc(&c.PyErr_Occurred, lib, "PyErr_Occurred")
	purego.RegisterLibFunc(&c.PyErr_Fetch, lib, "PyErr_Fetch")
	purego.RegisterLibFunc(&c.PyErr_NormalizeException, lib, "PyErr_NormalizeException")
	purego.RegisterLibFunc(&c.PyErr_Clear, lib, "PyErr_Clear")
	purego.RegisterLibFunc(&c.PyErr_SetString, lib, "PyErr_SetString")

	purego.RegisterLibFunc(&c.PyCFunction_NewEx, lib, "PyCFunction_NewEx")

	return nil
}
