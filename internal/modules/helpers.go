package modules

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/cast"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// ToPrettyJSON indents raw JSON for display. Invalid JSON is returned unchanged.
func ToPrettyJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// ToJSON marshals any value to an indented JSON string.
func ToJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal response")
	}
	return string(b), nil
}

// =============================================================================
// Parameter accessors (params have already been through ValidateParams)
// =============================================================================

// StringParam returns params[key] as a trimmed string, "" when absent.
func StringParam(params map[string]any, key string) string {
	v, ok := params[key]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}

// IntParam returns params[key] truncated to an int, or def when absent or not numeric.
func IntParam(params map[string]any, key string, def int) int {
	v, ok := params[key]
	if !ok || v == nil {
		return def
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return def
	}
	return n
}

// BoolParam returns params[key] as a bool, or def when absent or not a boolean.
func BoolParam(params map[string]any, key string, def bool) bool {
	v, ok := params[key]
	if !ok || v == nil {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}

// LimitParam reads a page size: absent or <= 0 gives DefaultLimit, anything above MaxLimit is capped.
func LimitParam(params map[string]any, key string) int {
	n := IntParam(params, key, DefaultLimit)
	switch {
	case n <= 0:
		return DefaultLimit
	case n > MaxLimit:
		return MaxLimit
	}
	return n
}

// ObjectParam returns params[key] when it is a JSON object.
func ObjectParam(params map[string]any, key string) (map[string]any, bool) {
	m, ok := params[key].(map[string]any)
	return m, ok
}
