package render

import (
	"fmt"

	"github.com/goliatone/go-eticket/pkg/formstate"
)

// LookupValue resolves path in values, accepting both flat dotted keys and
// nested maps.
func LookupValue(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || path == "" {
		return nil, false
	}
	if value, ok := values[path]; ok {
		return value, true
	}
	return formstate.GetPath(values, path)
}

// StringValue formats the value at path for an input's value attribute.
// Booleans are formatted by the caller through the field adapter.
func StringValue(values map[string]any, path string) string {
	value, ok := LookupValue(values, path)
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
		return ""
	default:
		return fmt.Sprint(v)
	}
}
