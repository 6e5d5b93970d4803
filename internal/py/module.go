// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

package py

// pyFileInput is the Py_file_input start token for Py_CompileString.
const pyFileInput = 257

// Import imports a module by name.
func (p *Py) Import(name string) (Object, error) {
	mod := p.rt.c.PyImport_ImportModule(name)
	if mod == 0 {
		return 0, p.exception()
	}
	return Object(mod), nil
}

// CompileModule compiles source (attributed to filename in tracebacks) and
// executes it as a module registered under the given name. The name must
// be fresh: ExecCodeModule overwrites any module already registered under
// it, so callers derive a unique name per plugin instance.
func (p *Py) CompileModule(source, filename, name string) (Object, error) {
	c := &p.rt.c

	code := c.Py_CompileString(source, filename, pyFileInput)
	if code == 0 {
		return 0, p.exception()
	}
	defer p.DecRef(Object(code))

	mod := c.PyImport_ExecCodeModule(name, code)
	if mod == 0 {
		return 0, p.exception()
	}
	return Object(mod), nil
}

// RemoveModule deletes mod's entry from sys.modules. ExecCodeModule
// registers every module there and the registry holds its own reference,
// so without this a dynamically created module outlives its last caller
// reference. Failures are swallowed; a stale entry only costs memory.
func (p *Py) RemoveModule(mod Object) {
	name, err := p.Attr(mod, "__name__")
	if err != nil {
		return
	}
	defer p.DecRef(name)

	sys, err := p.Import("sys")
	if err != nil {
		return
	}
	defer p.DecRef(sys)

	modules, err := p.Attr(sys, "modules")
	if err != nil {
		return
	}
	defer p.DecRef(modules)

	none := p.None()
	defer p.DecRef(none)
	if res, err := p.CallMethod(modules, "pop", name, none); err == nil {
		p.DecRef(res)
	}
}
