// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

package operator

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/atolab/zenoh-flow-python/internal/py"
	"github.com/atolab/zenoh-flow-python/pkg/node"
)

// registerEntryPoint is the well-known zero-argument function every user
// script must define at top level. It returns the node class.
const registerEntryPoint = "register"

// readScript loads the script source from the configured path.
func readScript(path string) (string, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", oops.
			In("operator").
			Code(node.CodeIO).
			With("path", path).
			Wrapf(err, "read python script")
	}
	return string(data), nil
}

// moduleName derives a fresh interpreter module name for one plugin
// instance, so multiple instances of the same script never collide in the
// interpreter's module registry.
func moduleName() string {
	return "zf_op_" + strings.ToLower(ulid.Make().String())
}

// registerScript executes the script source as a fresh module and resolves
// the node class through the register() entry point. On success it returns
// new references to the module and the class.
func registerScript(p *py.Py, source, path string) (module, class py.Object, err error) {
	mod, err := p.CompileModule(source, path, moduleName())
	if err != nil {
		return 0, 0, oops.
			In("operator").
			Code(node.CodeScript).
			With("script", path).
			Wrapf(err, "execute python script")
	}

	reg, err := p.Attr(mod, registerEntryPoint)
	if err != nil {
		p.DecRef(mod)
		return 0, 0, oops.
			In("operator").
			Code(node.CodeRegistration).
			With("script", path).
			Wrapf(err, "script does not define %s()", registerEntryPoint)
	}
	defer p.DecRef(reg)

	cls, err := p.Call(reg)
	if err != nil {
		p.DecRef(mod)
		return 0, 0, oops.
			In("operator").
			Code(node.CodeScript).
			With("script", path).
			Wrapf(err, "%s() raised", registerEntryPoint)
	}
	if !p.Callable(cls) {
		p.DecRef(cls)
		p.DecRef(mod)
		return 0, 0, oops.
			In("operator").
			Code(node.CodeRegistration).
			With("script", path).
			Errorf("%s() returned a non-callable value", registerEntryPoint)
	}
	return mod, cls, nil
}
