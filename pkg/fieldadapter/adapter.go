// Package fieldadapter bridges tri-state boolean form fields (true, false,
// unset) and two-option radio groups that speak strings.
//
// Reading maps true to the mapping's TrueValue, false to FalseValue and unset
// to "". Writing stores v == TrueValue, so any other string, including an
// unknown one, stores false. Once answered a field never returns to unset
// through SetValue; Clear is the explicit way back.
package fieldadapter

import (
	"github.com/goliatone/go-eticket/pkg/ids"
	"github.com/goliatone/go-eticket/pkg/model"
)

// BoolField is the boolean slot the adapter reads and writes. ok is false
// while the field is unset.
type BoolField interface {
	Bool() (value bool, ok bool)
	SetBool(value bool) error
}

// Clearer is implemented by fields that can be reset to unset.
type Clearer interface {
	Unset()
}

// Mapping names the radio values standing for true and false.
type Mapping struct {
	TrueValue  string
	FalseValue string
}

// YesNo is the mapping used by the declaration's yes/no questions.
var YesNo = Mapping{TrueValue: "yes", FalseValue: "no"}

// Bool adapts a BoolField to string values.
type Bool struct {
	field   BoolField
	mapping Mapping
}

// NewBool wraps field. A zero mapping falls back to YesNo.
func NewBool(field BoolField, mapping Mapping) *Bool {
	if mapping.TrueValue == "" && mapping.FalseValue == "" {
		mapping = YesNo
	}
	return &Bool{field: field, mapping: mapping}
}

// Mapping returns the effective mapping.
func (b *Bool) Mapping() Mapping {
	if b == nil {
		return YesNo
	}
	return b.mapping
}

// Value returns TrueValue, FalseValue, or "" when the field is unset.
func (b *Bool) Value() string {
	if b == nil || b.field == nil {
		return ""
	}
	value, ok := b.field.Bool()
	if !ok {
		return ""
	}
	if value {
		return b.mapping.TrueValue
	}
	return b.mapping.FalseValue
}

// SetValue stores v == TrueValue and returns the field's write error.
func (b *Bool) SetValue(v string) error {
	if b == nil || b.field == nil {
		return nil
	}
	return b.field.SetBool(v == b.mapping.TrueValue)
}

// Clear resets the field to unset. It reports false when the underlying
// field cannot be unset.
func (b *Bool) Clear() bool {
	if b == nil || b.field == nil {
		return false
	}
	clearer, ok := b.field.(Clearer)
	if !ok {
		return false
	}
	clearer.Unset()
	return true
}

// Labels carries the copy shown next to each radio option.
type Labels struct {
	True             string
	False            string
	TrueDescription  string
	FalseDescription string
}

// DefaultLabels returns "Yes" / "No".
func DefaultLabels() Labels {
	return Labels{True: "Yes", False: "No"}
}

// Options builds the two radio options for a boolean question, true first.
// Option ids come from the id generator, scoped to traveler when it is not
// negative.
func (m Mapping) Options(step, field string, labels Labels, traveler int) []model.Option {
	if labels.True == "" {
		labels.True = DefaultLabels().True
	}
	if labels.False == "" {
		labels.False = DefaultLabels().False
	}
	return []model.Option{
		{
			Value:       m.TrueValue,
			ID:          ids.ForTraveler(traveler, step, field, m.TrueValue),
			Label:       labels.True,
			Description: labels.TrueDescription,
		},
		{
			Value:       m.FalseValue,
			ID:          ids.ForTraveler(traveler, step, field, m.FalseValue),
			Label:       labels.False,
			Description: labels.FalseDescription,
		},
	}
}

// Options builds radio options with the YesNo mapping.
func Options(step, field string, labels Labels, traveler int) []model.Option {
	return YesNo.Options(step, field, labels, traveler)
}

// Parse converts a submitted radio value into a boolean. ok is false for ""
// so an unanswered group stays unset.
func (m Mapping) Parse(v string) (value bool, ok bool) {
	if v == "" {
		return false, false
	}
	return v == m.TrueValue, true
}

// Format renders an optional boolean as a radio value.
func (m Mapping) Format(value any) string {
	switch typed := value.(type) {
	case bool:
		if typed {
			return m.TrueValue
		}
		return m.FalseValue
	case *bool:
		if typed == nil {
			return ""
		}
		return m.Format(*typed)
	default:
		return ""
	}
}
