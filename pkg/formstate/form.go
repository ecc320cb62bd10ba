// Package formstate owns the values, touched flags and errors of a wizard
// form. Values live in a nested map addressed by dotted paths, the same shape
// the renderers receive and the draft store persists.
//
// A Form is not safe for concurrent use; the server keeps one per draft.
package formstate

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/goliatone/go-eticket/pkg/validation"
)

// Mode decides when field validators run outside of ValidateAll.
type Mode int

const (
	// ModeOnSubmit validates only in ValidateAll.
	ModeOnSubmit Mode = iota
	// ModeOnBlur validates a field when it loses focus.
	ModeOnBlur
	// ModeOnChange validates a field on every write.
	ModeOnChange
)

func (m Mode) String() string {
	switch m {
	case ModeOnBlur:
		return "onBlur"
	case ModeOnChange:
		return "onChange"
	default:
		return "onSubmit"
	}
}

// ParseMode maps "onBlur", "onChange" or "onSubmit" to a Mode.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "onsubmit", "submit":
		return ModeOnSubmit, nil
	case "onblur", "blur":
		return ModeOnBlur, nil
	case "onchange", "change":
		return ModeOnChange, nil
	}
	return ModeOnSubmit, fmt.Errorf("formstate: unknown mode %q", raw)
}

// Form holds the state of one declaration.
type Form struct {
	values     map[string]any
	touched    map[string]bool
	errors     map[string][]string
	validators map[string]validation.Validator
	rules      *validation.Set
	mode       Mode
}

// Option configures a Form.
type Option func(*Form)

// WithValues seeds the form with a copy of values.
func WithValues(values map[string]any) Option {
	return func(f *Form) {
		f.values = cloneValues(values)
	}
}

// WithMode sets when validators run.
func WithMode(mode Mode) Option {
	return func(f *Form) {
		f.mode = mode
	}
}

// WithRules resolves validators for paths without an explicit registration.
func WithRules(set *validation.Set) Option {
	return func(f *Form) {
		f.rules = set
	}
}

// New constructs an empty form.
func New(options ...Option) *Form {
	f := &Form{
		values:     make(map[string]any),
		touched:    make(map[string]bool),
		errors:     make(map[string][]string),
		validators: make(map[string]validation.Validator),
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Mode reports the validation mode.
func (f *Form) Mode() Mode { return f.mode }

// Register attaches a validator to path, overriding the rule set.
func (f *Form) Register(path string, v validation.Validator) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	if v == nil {
		delete(f.validators, path)
		return
	}
	f.validators[path] = v
}

// Get reads the value at path.
func (f *Form) Get(path string) (any, bool) {
	return GetPath(f.values, path)
}

// Set writes value at path. In ModeOnChange, and for fields that already
// show an error, the field is revalidated.
func (f *Form) Set(path string, value any) error {
	if err := SetPath(f.values, path, value); err != nil {
		return err
	}
	if f.mode == ModeOnChange || len(f.errors[path]) > 0 {
		f.Validate(path)
	}
	return nil
}

// Unset removes the value at path.
func (f *Form) Unset(path string) {
	DeletePath(f.values, path)
}

// Blur marks path as touched and validates it in ModeOnBlur.
func (f *Form) Blur(path string) {
	f.touched[path] = true
	if f.mode == ModeOnBlur {
		f.Validate(path)
	}
}

// Touched reports whether path has been blurred.
func (f *Form) Touched(path string) bool {
	return f.touched[path]
}

// Validate runs the validator for path, records the outcome and returns it.
func (f *Form) Validate(path string) validation.Result {
	v := f.validatorFor(path)
	if v == nil {
		delete(f.errors, path)
		return validation.OK()
	}
	value, _ := f.Get(path)
	res := v.Validate(value)
	if res.Valid {
		delete(f.errors, path)
	} else {
		f.errors[path] = []string{res.Message}
	}
	return res
}

// ValidateAll validates paths, or every registered path when none are given,
// and returns the first message per failing path. Errors on paths outside
// the list are left untouched.
func (f *Form) ValidateAll(paths ...string) map[string]string {
	if len(paths) == 0 {
		paths = f.knownPaths()
	}
	failures := make(map[string]string)
	for _, path := range paths {
		if res := f.Validate(path); !res.Valid {
			failures[path] = res.Message
		}
	}
	return failures
}

// Valid reports whether no field currently carries an error.
func (f *Form) Valid() bool {
	return len(f.errors) == 0
}

// SetErrors attaches externally produced messages (for example a server
// error payload) to path. Empty messages clear the path.
func (f *Form) SetErrors(path string, messages ...string) {
	clean := make([]string, 0, len(messages))
	for _, msg := range messages {
		if msg = strings.TrimSpace(msg); msg != "" {
			clean = append(clean, msg)
		}
	}
	if len(clean) == 0 {
		delete(f.errors, path)
		return
	}
	f.errors[path] = clean
}

// ClearErrors drops every recorded error.
func (f *Form) ClearErrors() {
	f.errors = make(map[string][]string)
}

// ErrorsFor returns the messages attached to path.
func (f *Form) ErrorsFor(path string) []string {
	return f.errors[path]
}

// Errors returns a copy of every recorded error.
func (f *Form) Errors() map[string][]string {
	out := make(map[string][]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Values returns a deep copy of the value tree.
func (f *Form) Values() map[string]any {
	return cloneValues(f.values)
}

// Decode maps the value tree onto out using json tags. Strings are converted
// weakly, so "true" decodes into a bool field.
func (f *Form) Decode(out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("formstate: decoder: %w", err)
	}
	if err := decoder.Decode(f.values); err != nil {
		return fmt.Errorf("formstate: decode: %w", err)
	}
	return nil
}

// Field returns a handle bound to path.
func (f *Form) Field(path string) *Field {
	return &Field{form: f, path: path}
}

func (f *Form) validatorFor(path string) validation.Validator {
	if v, ok := f.validators[path]; ok {
		return v
	}
	if f.rules != nil {
		return f.rules.For(path)
	}
	return nil
}

func (f *Form) knownPaths() []string {
	seen := make(map[string]struct{}, len(f.validators))
	for path := range f.validators {
		seen[path] = struct{}{}
	}
	return SortedKeys(seen)
}
