// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

package py_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atolab/zenoh-flow-python/internal/py"
)

func TestBindFuncRoundTrip(t *testing.T) {
	rt := requireRuntime(t)

	err := rt.Do(func(p *py.Py) error {
		shout, err := p.BindFunc("shout", func(p *py.Py, args []py.Object) (py.Object, error) {
			b, err := p.BytesValue(args[0])
			if err != nil {
				return 0, err
			}
			return p.Bytes(bytes.ToUpper(b))
		})
		require.NoError(t, err)
		defer p.DecRef(shout)

		arg, err := p.Bytes([]byte("quiet"))
		require.NoError(t, err)
		defer p.DecRef(arg)

		res, err := p.Call(shout, arg)
		require.NoError(t, err)
		defer p.DecRef(res)

		got, err := p.ToGo(res)
		require.NoError(t, err)
		assert.Equal(t, []byte("QUIET"), got)
		return nil
	})
	require.NoError(t, err)
}

func TestBindFuncZeroResultIsNone(t *testing.T) {
	rt := requireRuntime(t)

	err := rt.Do(func(p *py.Py) error {
		noop, err := p.BindFunc("noop", func(p *py.Py, args []py.Object) (py.Object, error) {
			return 0, nil
		})
		require.NoError(t, err)
		defer p.DecRef(noop)

		res, err := p.Call(noop)
		require.NoError(t, err)
		defer p.DecRef(res)

		got, err := p.ToGo(res)
		require.NoError(t, err)
		assert.Nil(t, got)
		return nil
	})
	require.NoError(t, err)
}

func TestUnbindDisablesBinding(t *testing.T) {
	rt := requireRuntime(t)

	err := rt.Do(func(p *py.Py) error {
		transient, err := p.BindFunc("transient", func(p *py.Py, args []py.Object) (py.Object, error) {
			return 0, nil
		})
		require.NoError(t, err)
		defer p.DecRef(transient)

		res, err := p.Call(transient)
		require.NoError(t, err)
		p.DecRef(res)

		p.Unbind(transient)

		_, err = p.Call(transient)
		require.Error(t, err)

		var pyErr *py.Err
		require.ErrorAs(t, err, &pyErr)
		assert.Equal(t, "RuntimeError", pyErr.Type)
		assert.Contains(t, pyErr.Message, "unknown host callback")
		return nil
	})
	require.NoError(t, err)
}

func TestBindFuncErrorBecomesException(t *testing.T) {
	rt := requireRuntime(t)

	err := rt.Do(func(p *py.Py) error {
		failing, err := p.BindFunc("failing", func(p *py.Py, args []py.Object) (py.Object, error) {
			return 0, errors.New("host refused the call")
		})
		require.NoError(t, err)
		defer p.DecRef(failing)

		_, err = p.Call(failing)
		require.Error(t, err)

		var pyErr *py.Err
		require.ErrorAs(t, err, &pyErr)
		assert.Equal(t, "RuntimeError", pyErr.Type)
		assert.Contains(t, pyErr.Message, "host refused the call")
		return nil
	})
	require.NoError(t, err)
}
