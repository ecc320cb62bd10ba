package validation

import (
	"reflect"
	"strings"
)

// Result is the outcome of a single validation. A failed result always
// carries a non-empty message.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// OK returns a passing result.
func OK() Result {
	return Result{Valid: true}
}

// Fail returns a failing result. An empty message is replaced with a generic
// one so failures are always explainable.
func Fail(message string) Result {
	message = strings.TrimSpace(message)
	if message == "" {
		message = defaultInvalidMessage
	}
	return Result{Message: message}
}

const (
	defaultRequiredMessage = "This field is required"
	defaultInvalidMessage  = "This value is not valid"
)

// Validator checks a single field value.
type Validator interface {
	Validate(value any) Result
}

// ValidatorFunc adapts a function into a Validator.
type ValidatorFunc func(value any) Result

// Validate calls the underlying function.
func (fn ValidatorFunc) Validate(value any) Result {
	return fn(value)
}

// Messages customises the text attached to failures.
type Messages struct {
	Required string
	Invalid  string
}

func (m Messages) required() string {
	if strings.TrimSpace(m.Required) != "" {
		return m.Required
	}
	return defaultRequiredMessage
}

func (m Messages) invalid(fallback string) string {
	if strings.TrimSpace(m.Invalid) != "" {
		return m.Invalid
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return defaultInvalidMessage
}

// Required fails on empty values: nil, blank strings, nil pointers and empty
// slices or maps. Booleans are never empty, so an answered yes/no question
// passes regardless of the answer.
func Required(message string) Validator {
	msgs := Messages{Required: message}
	return ValidatorFunc(func(value any) Result {
		if IsEmpty(value) {
			return Fail(msgs.required())
		}
		return OK()
	})
}

// MustBeTrue accepts only a true boolean (or its string form). It is used for
// attestations such as accepting the declaration.
func MustBeTrue(message string) Validator {
	return ValidatorFunc(func(value any) Result {
		switch v := value.(type) {
		case bool:
			if v {
				return OK()
			}
		case *bool:
			if v != nil && *v {
				return OK()
			}
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true", "yes", "on", "1":
				return OK()
			}
		}
		return Fail(Messages{Required: message}.required())
	})
}

// Chain runs validators in order and returns the first failure.
func Chain(validators ...Validator) Validator {
	return ValidatorFunc(func(value any) Result {
		for _, v := range validators {
			if v == nil {
				continue
			}
			if res := v.Validate(value); !res.Valid {
				return res
			}
		}
		return OK()
	})
}

// Optional skips the wrapped validator when the value is empty.
func Optional(v Validator) Validator {
	return ValidatorFunc(func(value any) Result {
		if v == nil || IsEmpty(value) {
			return OK()
		}
		return v.Validate(value)
	})
}

// IsEmpty reports whether value counts as "not provided".
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case bool:
		return false
	case *bool:
		return v == nil
	case *string:
		return v == nil || strings.TrimSpace(*v) == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
