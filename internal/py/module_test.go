// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

package py_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atolab/zenoh-flow-python/internal/py"
)

func TestCompileModuleAndCall(t *testing.T) {
	rt := requireRuntime(t)

	err := rt.Do(func(p *py.Py) error {
		mod, err := p.CompileModule("def triple(n):\n    return n * 3\n", "triple.py", "zf_test_triple")
		require.NoError(t, err)
		defer p.DecRef(mod)

		arg, err := p.FromGo(14)
		require.NoError(t, err)
		defer p.DecRef(arg)

		res, err := p.CallMethod(mod, "triple", arg)
		require.NoError(t, err)
		defer p.DecRef(res)

		got, err := p.ToGo(res)
		require.NoError(t, err)
		assert.Equal(t, int64(42), got)
		return nil
	})
	require.NoError(t, err)
}

func TestCompileModuleSyntaxError(t *testing.T) {
	rt := requireRuntime(t)

	err := rt.Do(func(p *py.Py) error {
		_, err := p.CompileModule("def broken(:\n", "broken.py", "zf_test_broken")
		require.Error(t, err)

		var pyErr *py.Err
		require.ErrorAs(t, err, &pyErr)
		assert.Equal(t, "SyntaxError", pyErr.Type)
		assert.Contains(t, pyErr.Message, "broken.py")
		return nil
	})
	require.NoError(t, err)
}

func TestExceptionCarriesTraceback(t *testing.T) {
	rt := requireRuntime(t)

	source := "def boom():\n" +
		"    raise ValueError(\"kaput\")\n"

	err := rt.Do(func(p *py.Py) error {
		mod, err := p.CompileModule(source, "boom.py", "zf_test_boom")
		require.NoError(t, err)
		defer p.DecRef(mod)

		_, err = p.CallMethod(mod, "boom")
		require.Error(t, err)

		var pyErr *py.Err
		require.ErrorAs(t, err, &pyErr)
		assert.Equal(t, "ValueError", pyErr.Type)
		assert.Contains(t, pyErr.Message, "kaput")
		assert.Contains(t, pyErr.Trace, "Traceback")
		assert.Contains(t, pyErr.Trace, "boom.py")
		return nil
	})
	require.NoError(t, err)
}

func TestRemoveModuleUnregisters(t *testing.T) {
	rt := requireRuntime(t)

	err := rt.Do(func(p *py.Py) error {
		mod, err := p.CompileModule("value = 1\n", "removable.py", "zf_test_removable")
		require.NoError(t, err)

		// ExecCodeModule registered it; a by-name import must resolve.
		again, err := p.Import("zf_test_removable")
		require.NoError(t, err)
		p.DecRef(again)

		p.RemoveModule(mod)
		p.DecRef(mod)

		// Gone from the registry, and not importable from disk either.
		_, err = p.Import("zf_test_removable")
		require.Error(t, err)

		var pyErr *py.Err
		require.ErrorAs(t, err, &pyErr)
		assert.Equal(t, "ModuleNotFoundError", pyErr.Type)
		return nil
	})
	require.NoError(t, err)
}

func TestImportMissingModule(t *testing.T) {
	rt := requireRuntime(t)

	err := rt.Do(func(p *py.Py) error {
		_, err := p.Import("zf_no_such_module")
		require.Error(t, err)

		var pyErr *py.Err
		require.ErrorAs(t, err, &pyErr)
		assert.Equal(t, "ModuleNotFoundError", pyErr.Type)
		return nil
	})
	require.NoError(t, err)
}
