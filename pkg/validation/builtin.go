package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"golang.org/x/text/language"
)

// DateLayout is the wire format for date fields (HTML date inputs).
const DateLayout = "2006-01-02"

const (
	emailPattern    = `^[^\s@]+@[^\s@]+\.[^\s@]+$`
	phonePattern    = `^\+?[0-9][0-9 ()-]{6,19}$`
	passportPattern = `^[A-Za-z0-9]{6,9}$`
	flightPattern   = `^(?i)([A-Z0-9]{2}|[A-Z]{3}) ?[0-9]{1,4}[A-Z]?$`
	datePattern     = `^[0-9]{4}-[0-9]{2}-[0-9]{2}$`
)

// Email validates an address shape; it does not resolve the domain.
func Email(msgs Messages) Validator {
	return Schema(openapi3.NewStringSchema().WithMaxLength(254).WithPattern(emailPattern), msgs)
}

// ValidateEmail is the ready-made check used by the contact step: empty input
// fails with the required message, malformed input with the invalid one.
func ValidateEmail(value string) Result {
	return Chain(
		Required("Email is required"),
		Email(Messages{Invalid: "Enter a valid email address"}),
	).Validate(value)
}

// Phone validates an international phone number, digits with optional
// leading plus and common separators.
func Phone(msgs Messages) Validator {
	return Schema(openapi3.NewStringSchema().WithPattern(phonePattern), msgs)
}

// PassportNumber validates a 6 to 9 character alphanumeric document number.
func PassportNumber(msgs Messages) Validator {
	return Schema(openapi3.NewStringSchema().WithPattern(passportPattern), msgs)
}

// FlightNumber validates an IATA/ICAO carrier code followed by 1-4 digits.
func FlightNumber(msgs Messages) Validator {
	return Schema(openapi3.NewStringSchema().WithPattern(flightPattern), msgs)
}

// MaxLength bounds free text.
func MaxLength(n int, msgs Messages) Validator {
	if strings.TrimSpace(msgs.Invalid) == "" {
		msgs.Invalid = fmt.Sprintf("Use at most %d characters", n)
	}
	return Schema(openapi3.NewStringSchema().WithMaxLength(int64(n)), msgs)
}

// Boolean accepts true or false. Yes/no radio groups store booleans through
// the field adapter, so this is their format check.
func Boolean(msgs Messages) Validator {
	return Schema(openapi3.NewBoolSchema(), msgs)
}

// OneOf restricts a value to the provided choices.
func OneOf(msgs Messages, values ...string) Validator {
	enum := make([]any, 0, len(values))
	for _, v := range values {
		enum = append(enum, v)
	}
	if strings.TrimSpace(msgs.Invalid) == "" {
		msgs.Invalid = "Select one of the available options"
	}
	return Schema(openapi3.NewStringSchema().WithEnum(enum...), msgs)
}

// DateConstraint restricts a date relative to today.
type DateConstraint int

const (
	AnyDate DateConstraint = iota
	PastDate
	FutureDate
)

// DateOption configures Date.
type DateOption func(*dateValidator)

// WithClock injects the time source used for past/future checks.
func WithClock(now func() time.Time) DateOption {
	return func(v *dateValidator) {
		if now != nil {
			v.now = now
		}
	}
}

// Date validates a YYYY-MM-DD value and its position relative to today.
// "Today" counts as both past and future so same-day travel is accepted.
func Date(constraint DateConstraint, msgs Messages, options ...DateOption) Validator {
	v := &dateValidator{
		shape:      Schema(openapi3.NewStringSchema().WithPattern(datePattern), msgs),
		constraint: constraint,
		msgs:       msgs,
		now:        time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

type dateValidator struct {
	shape      Validator
	constraint DateConstraint
	msgs       Messages
	now        func() time.Time
}

func (v *dateValidator) Validate(value any) Result {
	if res := v.shape.Validate(value); !res.Valid {
		return res
	}
	raw, _ := normalizeJSON(value).(string)
	parsed, err := time.Parse(DateLayout, raw)
	if err != nil {
		return Fail(v.msgs.invalid("Enter a valid date"))
	}

	now := v.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch v.constraint {
	case PastDate:
		if parsed.After(today) {
			return Fail(v.msgs.invalid("Date must not be in the future"))
		}
	case FutureDate:
		if parsed.Before(today) {
			return Fail(v.msgs.invalid("Date must not be in the past"))
		}
	}
	return OK()
}

// Country accepts ISO 3166 region codes (alpha-2, alpha-3 or numeric) that
// denote a country.
func Country(msgs Messages) Validator {
	return ValidatorFunc(func(value any) Result {
		raw, ok := normalizeJSON(value).(string)
		if !ok || raw == "" {
			return Fail(msgs.invalid("Select a country"))
		}
		region, err := language.ParseRegion(raw)
		if err != nil || !region.IsCountry() {
			return Fail(msgs.invalid("Select a country"))
		}
		return OK()
	})
}

// CanonicalCountry returns the ISO 3166-1 alpha-3 code for raw, or "" when
// raw is not a country.
func CanonicalCountry(raw string) string {
	region, err := language.ParseRegion(strings.TrimSpace(raw))
	if err != nil || !region.IsCountry() {
		return ""
	}
	return region.ISO3()
}
