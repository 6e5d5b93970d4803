// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

package py

import "github.com/ebitengine/purego"

// candidates lists the library names probed when LibName is not set at
// build time, newest first. The bare soname ends the list so distribution
// symlinks still resolve.
func candidates() []string {
	if LibName != "" {
		return []string{LibName}
	}
	return []string{
		"libpython3.13.so.1.0",
		"libpython3.12.so.1.0",
		"libpython3.11.so.1.0",
		"libpython3.10.so.1.0",
		"libpython3.9.so.1.0",
		"libpython3.so",
	}
}

// openLibrary opens the interpreter runtime with global, immediate symbol
// resolution so native extension modules imported later (numpy and
// friends) can resolve interpreter symbols against it.
func openLibrary(name string) (uintptr, error) {
	return purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

func lookupSymbol(lib uintptr, name string) (uintptr, error) {
	return purego.Dlsym(lib, name)
}
