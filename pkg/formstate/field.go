package formstate

import (
	"strconv"
	"strings"
)

// Field is a handle on one path of a Form. It satisfies the boolean field
// contract used by the yes/no adapter.
type Field struct {
	form *Form
	path string
}

// Path returns the dotted path.
func (fd *Field) Path() string { return fd.path }

// Value returns the current value or nil.
func (fd *Field) Value() any {
	v, _ := fd.form.Get(fd.path)
	return v
}

// String returns the value formatted for a text input.
func (fd *Field) String() string {
	switch v := fd.Value().(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	default:
		return strings.TrimSpace(toString(v))
	}
}

// SetValue writes the value through the form.
func (fd *Field) SetValue(value any) error {
	return fd.form.Set(fd.path, value)
}

// Blur marks the field as touched.
func (fd *Field) Blur() { fd.form.Blur(fd.path) }

// Touched reports whether the field was blurred.
func (fd *Field) Touched() bool { return fd.form.Touched(fd.path) }

// Errors returns the messages attached to the field.
func (fd *Field) Errors() []string { return fd.form.ErrorsFor(fd.path) }

// Bool reads the field as a boolean; ok is false while unset. String values
// "true" and "false" are accepted for values restored from a draft.
func (fd *Field) Bool() (bool, bool) {
	switch v := fd.Value().(type) {
	case bool:
		return v, true
	case string:
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return false, false
		}
		return parsed, true
	default:
		return false, false
	}
}

// SetBool stores a boolean through the form.
func (fd *Field) SetBool(value bool) error {
	return fd.form.Set(fd.path, value)
}

// Unset returns the field to the unanswered state.
func (fd *Field) Unset() { fd.form.Unset(fd.path) }

func toString(v any) string {
	switch typed := v.(type) {
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return ""
	}
}
