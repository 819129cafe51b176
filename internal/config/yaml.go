package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	yaml "go.yaml.in/yaml/v3"
)

// coerceToJSONBytes turns a YAML config into JSON so both formats share the
// strict JSON decoder. Files without a .yaml/.yml extension pass through.
//
// Returns (jsonBytes, format, err) where format is "json" or "yaml".
func coerceToJSONBytes(path string, data []byte) ([]byte, string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
	default:
		return data, "json", nil
	}

	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, "yaml", fmt.Errorf("yaml unmarshal: %w", err)
	}
	if v == nil {
		return []byte("{}"), "yaml", nil
	}
	j, err := json.Marshal(stringKeys(v))
	if err != nil {
		return nil, "yaml", fmt.Errorf("yaml->json marshal: %w", err)
	}
	return j, "yaml", nil
}

// stringKeys rewrites map[any]any nodes so the tree can be JSON-marshaled.
func stringKeys(in any) any {
	switch x := in.(type) {
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[fmt.Sprint(k)] = stringKeys(v)
		}
		return m
	case map[string]any:
		for k, v := range x {
			x[k] = stringKeys(v)
		}
		return x
	case []any:
		for i := range x {
			x[i] = stringKeys(x[i])
		}
		return x
	default:
		return in
	}
}
