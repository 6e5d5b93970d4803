// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

package py

import "github.com/ebitengine/purego"

// candidates lists the library names probed when LibName is not set at
// build time, newest first. dyld search paths (Homebrew, python.org
// framework installs) resolve the bare names.
func candidates() []string {
	if LibName != "" {
		return []string{LibName}
	}
	return []string{
		"libpython3.13.dylib",
		"libpython3.12.dylib",
		"libpython3.11.dylib",
		"libpython3.10.dylib",
		"libpython3.9.dylib",
		"Python.framework/Versions/Current/Python",
	}
}

// openLibrary opens the interpreter runtime with global, immediate symbol
// resolution so native extension modules imported later can resolve
// interpreter symbols against it.
func openLibrary(name string) (uintptr, error) {
	return purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

func lookupSymbol(lib uintptr, name string) (uintptr, error) {
	return purego.Dlsym(lib, name)
}
