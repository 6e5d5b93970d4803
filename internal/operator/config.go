// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

package operator

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/oops"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/atolab/zenoh-flow-python/pkg/node"
)

// Configuration keys consumed by this wrapper. Keys beyond these two are
// ignored: the configuration map is shared with the surrounding
// orchestrator and may carry entries addressed to it.
const (
	// ScriptKey holds the filesystem path of the user script.
	ScriptKey = "python-script"
	// ConfigKey holds the nested map forwarded verbatim to the script.
	ConfigKey = "configuration"
)

const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://zenoh.io/schemas/zenoh-flow-python/configuration.schema.json",
  "title": "Python node configuration",
  "type": "object",
  "properties": {
    "python-script": {"type": "string", "minLength": 1},
    "configuration": {"type": "object"}
  },
  "required": ["python-script"],
  "additionalProperties": true
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// getCompiledSchema returns the cached compiled schema or compiles it.
func getCompiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(configSchema))
		if err != nil {
			schemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("configuration.schema.json", doc); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = c.Compile("configuration.schema.json")
	})
	return compiledSchema, schemaErr
}

// splitConfiguration validates cfg against the configuration schema and
// splits it into the script path and the value forwarded to the script.
// The script-path key is stripped; the forwarded value is the nested
// "configuration" map, or nil when absent.
func splitConfiguration(cfg node.Configuration) (script string, forwarded any, err error) {
	sch, err := getCompiledSchema()
	if err != nil {
		return "", nil, oops.
			In("operator").
			Wrapf(err, "compile configuration schema")
	}

	jsonCfg, err := toJSONTypes(map[string]any(cfg))
	if err != nil {
		return "", nil, err
	}
	if err := sch.Validate(jsonCfg); err != nil {
		return "", nil, oops.
			In("operator").
			Code(node.CodeConversion).
			Hint("the configuration must carry a 'python-script' string and, optionally, a 'configuration' map").
			Wrapf(err, "configuration rejected by schema")
	}

	// Schema validation guarantees the shape of both keys.
	script = cfg[ScriptKey].(string)
	forwarded = cfg[ConfigKey]
	return script, forwarded, nil
}

// ValidateConfiguration checks cfg without touching the interpreter: the
// schema must accept it and the script file must be readable.
func ValidateConfiguration(cfg node.Configuration) error {
	script, _, err := splitConfiguration(cfg)
	if err != nil {
		return err
	}
	if _, err := readScript(script); err != nil {
		return err
	}
	return nil
}

// toJSONTypes normalizes a configuration value to JSON-compatible types so
// schema validation and boundary conversion see the same domain. Values
// outside the JSON-like domain are rejected here, before any interpreter
// work happens.
func toJSONTypes(v any) (any, error) {
	switch val := v.(type) {
	case nil, bool, string, float64, json.Number:
		return val, nil
	case int:
		return json.Number(strconv.Itoa(val)), nil
	case int32:
		return json.Number(strconv.FormatInt(int64(val), 10)), nil
	case int64:
		return json.Number(strconv.FormatInt(val, 10)), nil
	case float32:
		return float64(val), nil
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, item := range val {
			conv, err := toJSONTypes(item)
			if err != nil {
				return nil, err
			}
			result[k] = conv
		}
		return result, nil
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			conv, err := toJSONTypes(item)
			if err != nil {
				return nil, err
			}
			result[i] = conv
		}
		return result, nil
	default:
		return nil, oops.
			In("operator").
			Code(node.CodeConversion).
			With("go_type", fmt.Sprintf("%T", v)).
			Errorf("configuration value outside the JSON-like domain")
	}
}
