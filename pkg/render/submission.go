package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Reserved hidden input names posted with every step.
const (
	StepInputName     = "_step"
	TravelerInputName = "_traveler"
	DraftInputName    = "_draft"
)

// HiddenField represents a hidden input emitted alongside the visible fields.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs a hidden field carrying the provided token under the
// input name the server expects.
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// DraftField carries the draft identifier so a step can be resumed without
// a session cookie.
func DraftField(id string) HiddenField {
	return Hidden(DraftInputName, id)
}

// StepFields identifies the step being posted. Traveler is omitted for steps
// outside a traveler slot (negative index).
func StepFields(stepID string, traveler int) []HiddenField {
	fields := []HiddenField{Hidden(StepInputName, stepID)}
	if traveler >= 0 {
		fields = append(fields, Hidden(TravelerInputName, strconv.Itoa(traveler)))
	}
	return fields
}

// MergeHiddenFields returns a copy of base with the provided fields applied.
// Empty names are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		if field.Name == "" {
			continue
		}
		out[field.Name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields sorts hidden fields by name for deterministic output.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		if strings.TrimSpace(name) != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{Name: strings.TrimSpace(name), Value: fields[name]})
	}
	return result
}
