// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

package py

import "golang.org/x/sys/windows"

// candidates lists the library names probed when LibName is not set at
// build time, newest first.
func candidates() []string {
	if LibName != "" {
		return []string{LibName}
	}
	return []string{
		"python313.dll",
		"python312.dll",
		"python311.dll",
		"python310.dll",
		"python39.dll",
		"python3.dll",
	}
}

// openLibrary opens the interpreter runtime with the platform's default
// loading semantics; Windows has no RTLD_GLOBAL equivalent and extension
// modules link against the DLL by name instead.
func openLibrary(name string) (uintptr, error) {
	handle, err := windows.LoadLibrary(name)
	return uintptr(handle), err
}

func lookupSymbol(lib uintptr, name string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(lib), name)
}
