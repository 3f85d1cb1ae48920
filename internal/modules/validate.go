package modules

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/cast"
)

// ValidateParams checks params against InputSchema.
//
//   - Required fields: returns error if missing (nil or empty string counts as missing)
//   - Type check: verifies value matches declared property type
//   - Type coercion: scalars are converted to the declared type where lossless
//     (number 42 -> "42" for string properties, "20" -> 20.0 for numbers, "true" -> true)
//
// Returns validated params (shallow copy) or error.
func ValidateParams(schema InputSchema, params map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}

	// Check required fields
	var missing []string
	for _, key := range schema.Required {
		val, exists := out[key]
		if !exists || val == nil {
			missing = append(missing, key)
			continue
		}
		// Check for zero-value strings on required fields
		if s, ok := val.(string); ok && strings.TrimSpace(s) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Errorf("missing required parameter(s): %s", strings.Join(missing, ", "))
	}

	// Type check provided params against schema properties
	for key, val := range out {
		prop, declared := schema.Properties[key]
		if !declared {
			// Extra params not in schema are passed through (lenient)
			continue
		}
		if val == nil {
			continue
		}
		coerced, err := coerceType(key, val, prop.Type)
		if err != nil {
			return nil, err
		}
		if len(prop.Enum) > 0 {
			if err := checkEnum(key, coerced, prop.Enum); err != nil {
				return nil, err
			}
		}
		out[key] = coerced
	}

	return out, nil
}

// coerceType verifies that val matches (or converts cleanly to) the expected JSON Schema type.
func coerceType(key string, val any, expectedType string) (any, error) {
	switch expectedType {
	case "string":
		switch v := val.(type) {
		case string:
			return v, nil
		case float64, int, int64, bool:
			return cast.ToString(v), nil
		}
		return nil, errors.Errorf("parameter %q: expected string, got %T", key, val)
	case "number", "integer":
		// JSON numbers arrive as float64
		switch v := val.(type) {
		case float64:
			return v, nil
		case int, int64:
			return cast.ToFloat64(v), nil
		case string:
			if f, err := cast.ToFloat64E(strings.TrimSpace(v)); err == nil {
				return f, nil
			}
		}
		return nil, errors.Errorf("parameter %q: expected number, got %T", key, val)
	case "boolean":
		switch v := val.(type) {
		case bool:
			return v, nil
		case string:
			if b, err := cast.ToBoolE(strings.TrimSpace(v)); err == nil {
				return b, nil
			}
		}
		return nil, errors.Errorf("parameter %q: expected boolean, got %T", key, val)
	case "array":
		if _, ok := val.([]interface{}); !ok {
			return nil, errors.Errorf("parameter %q: expected array, got %T", key, val)
		}
	case "object":
		if _, ok := val.(map[string]interface{}); !ok {
			return nil, errors.Errorf("parameter %q: expected object, got %T", key, val)
		}
	default:
		// "" or unknown types: skip check (lenient)
	}
	return val, nil
}

func checkEnum(key string, val any, allowed []string) error {
	s, ok := val.(string)
	if !ok {
		return nil
	}
	for _, a := range allowed {
		if s == a {
			return nil
		}
	}
	return errors.Errorf("parameter %q: must be one of %s, got %q", key, strings.Join(allowed, ", "), s)
}
