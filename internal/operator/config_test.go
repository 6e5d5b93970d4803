// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

package operator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atolab/zenoh-flow-python/pkg/errutil"
	"github.com/atolab/zenoh-flow-python/pkg/node"
)

func TestSplitConfiguration(t *testing.T) {
	script, forwarded, err := splitConfiguration(node.Configuration{
		ScriptKey: "/opt/flows/relay.py",
		ConfigKey: map[string]any{"threshold": 5, "label": "hot"},
	})
	require.NoError(t, err)
	assert.Equal(t, "/opt/flows/relay.py", script)
	assert.Equal(t, map[string]any{"threshold": 5, "label": "hot"}, forwarded)
}

func TestSplitConfigurationWithoutNestedMap(t *testing.T) {
	script, forwarded, err := splitConfiguration(node.Configuration{
		ScriptKey: "/opt/flows/relay.py",
	})
	require.NoError(t, err)
	assert.Equal(t, "/opt/flows/relay.py", script)
	assert.Nil(t, forwarded)
}

func TestSplitConfigurationIgnoresExtraKeys(t *testing.T) {
	_, _, err := splitConfiguration(node.Configuration{
		ScriptKey:      "/opt/flows/relay.py",
		"runtime-tag":  "edge-7",
		"restart-mode": true,
	})
	require.NoError(t, err)
}

func TestSplitConfigurationMissingScript(t *testing.T) {
	_, _, err := splitConfiguration(node.Configuration{
		ConfigKey: map[string]any{"threshold": 5},
	})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, node.CodeConversion)
}

func TestSplitConfigurationScriptNotAString(t *testing.T) {
	_, _, err := splitConfiguration(node.Configuration{
		ScriptKey: 42,
	})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, node.CodeConversion)
}

func TestSplitConfigurationNestedNotAMap(t *testing.T) {
	_, _, err := splitConfiguration(node.Configuration{
		ScriptKey: "/opt/flows/relay.py",
		ConfigKey: "threshold=5",
	})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, node.CodeConversion)
}

func TestSplitConfigurationRejectsNonJSONValues(t *testing.T) {
	type opaque struct{ fd uintptr }
	_, _, err := splitConfiguration(node.Configuration{
		ScriptKey: "/opt/flows/relay.py",
		ConfigKey: map[string]any{"handle": opaque{fd: 3}},
	})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, node.CodeConversion)
	errutil.AssertErrorContext(t, err, "go_type", "operator.opaque")
}

func TestToJSONTypesNormalizesNumbers(t *testing.T) {
	got, err := toJSONTypes(map[string]any{
		"count": 5,
		"wide":  int64(1 << 40),
		"ratio": float32(0.5),
		"items": []any{1, "two"},
	})
	require.NoError(t, err)
	m := got.(map[string]any)
	assert.Equal(t, json.Number("5"), m["count"])
	assert.Equal(t, json.Number("1099511627776"), m["wide"])
	assert.InDelta(t, 0.5, m["ratio"].(float64), 1e-9)
}
