// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

// Package py embeds the CPython interpreter through its shared runtime
// library. The library is opened dynamically with purego, never linked at
// compile time, so the wrapper binary stays independent of the Python
// version installed on the machine running the flow.
//
// The runtime handle is process-global and reference-counted by being
// acquired exactly once and released never: CPython cannot be unloaded
// safely while any interpreter-managed object exists, and objects held by
// user scripts are not trackable from here. All interpreter access goes
// through Runtime.Do, which holds the global interpreter lock on a pinned
// OS thread for the duration of the closure.
package py

import (
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"unsafe"

	"github.com/samber/oops"

	"github.com/atolab/zenoh-flow-python/pkg/node"
)

// LibName overrides the interpreter library file name resolved at build
// time. Set it with:
//
//	go build -ldflags "-X github.com/atolab/zenoh-flow-python/internal/py.LibName=libpython3.12.so.1.0"
//
// When empty, the per-platform candidate list in lib_*.go is probed in
// order.
var LibName string

// Runtime is the process-wide handle on the embedded interpreter.
type Runtime struct {
	lib     uintptr
	library string
	c       capi

	// Singletons and type objects resolved from the library's data symbols.
	none      Object
	truth     Object
	falsehood Object

	typeBool    Object
	typeLong    Object
	typeFloat   Object
	typeUnicode Object
	typeBytes   Object
	typeList    Object
	typeTuple   Object
	typeDict    Object

	excRuntimeError Object
}

var (
	acquireOnce sync.Once
	shared      *Runtime
	acquireErr  error
)

// Acquire returns the shared interpreter runtime, loading and initializing
// it on first use. Every caller receives the same handle; the handle stays
// valid until process exit.
func Acquire() (*Runtime, error) {
	acquireOnce.Do(func() {
		shared, acquireErr = load()
	})
	return shared, acquireErr
}

func load() (*Runtime, error) {
	names := candidates()

	var (
		lib      uintptr
		resolved string
		openErrs []error
	)
	for _, name := range names {
		handle, err := openLibrary(name)
		if err != nil {
			openErrs = append(openErrs, err)
			continue
		}
		lib, resolved = handle, name
		break
	}
	if lib == 0 {
		return nil, oops.
			In("py").
			Code(node.CodeLoad).
			With("candidates", names).
			Hint("install a CPython shared library or override the name with -ldflags -X .../internal/py.LibName=...").
			Wrapf(errors.Join(openErrs...), "open interpreter runtime library")
	}

	rt := &Runtime{lib: lib, library: resolved}
	if err := rt.c.bind(lib); err != nil {
		return nil, oops.
			In("py").
			Code(node.CodeLoad).
			With("library", resolved).
			Wrapf(err, "bind interpreter symbols")
	}

	// Initialize once per process, then drop the lock the initializing
	// thread implicitly holds so any OS thread can take it later.
	if rt.c.Py_IsInitialized() == 0 {
		runtime.LockOSThread()
		rt.c.Py_InitializeEx(0)
		rt.c.PyEval_SaveThread()
		runtime.UnlockOSThread()
	}

	if err := rt.Do(func(*Py) error { return rt.resolveGlobals() }); err != nil {
		return nil, err
	}

	slog.Info("interpreter runtime loaded", "library", resolved)
	return rt, nil
}

// resolveGlobals looks up the data symbols the binding needs: the None,
// True and False singletons, the builtin type objects used for shape
// checks, and the RuntimeError class used to surface host-side failures
// inside the interpreter. Called with the lock held.
func (rt *Runtime) resolveGlobals() error {
	symbol := func(name string) (uintptr, error) {
		addr, err := lookupSymbol(rt.lib, name)
		if err != nil || addr == 0 {
			return 0, oops.
				In("py").
				Code(node.CodeLoad).
				With("library", rt.library).
				With("symbol", name).
				Wrapf(err, "resolve interpreter data symbol")
		}
		return addr, nil
	}

	singletons := []struct {
		name string
		dst  *Object
	}{
		{"_Py_NoneStruct", &rt.none},
		{"_Py_TrueStruct", &rt.truth},
		{"_Py_FalseStruct", &rt.falsehood},
		{"PyBool_Type", &rt.typeBool},
		{"PyLong_Type", &rt.typeLong},
		{"PyFloat_Type", &rt.typeFloat},
		{"PyUnicode_Type", &rt.typeUnicode},
		{"PyBytes_Type", &rt.typeBytes},
		{"PyList_Type", &rt.typeList},
		{"PyTuple_Type", &rt.typeTuple},
		{"PyDict_Type", &rt.typeDict},
	}
	for _, s := range singletons {
		addr, err := symbol(s.name)
		if err != nil {
			return err
		}
		*s.dst = Object(addr)
	}

	// Exception classes are exported as PyObject* variables, filled in by
	// Py_InitializeEx; one extra indirection.
	addr, err := symbol("PyExc_RuntimeError")
	if err != nil {
		return err
	}
	rt.excRuntimeError = Object(*(*uintptr)(unsafe.Pointer(addr)))
	return nil
}

// Library returns the file name of the loaded interpreter runtime.
func (rt *Runtime) Library() string { return rt.library }
