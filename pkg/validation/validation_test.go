package validation

import (
	"testing"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-eticket/pkg/requirements"
)

func TestValidateEmail(t *testing.T) {
	if res := ValidateEmail("a@b.com"); !res.Valid || res.Message != "" {
		t.Fatalf("expected valid result without message, got %+v", res)
	}

	res := ValidateEmail("")
	if res.Valid {
		t.Fatalf("expected empty email to fail")
	}
	if res.Message != "Email is required" {
		t.Fatalf("expected required message, got %q", res.Message)
	}

	res = ValidateEmail("not-an-email")
	if res.Valid || res.Message != "Enter a valid email address" {
		t.Fatalf("expected invalid message, got %+v", res)
	}
}

func TestRequired(t *testing.T) {
	v := Required("")
	empty := []any{nil, "", "   ", (*bool)(nil), []string{}, map[string]any{}}
	for _, value := range empty {
		res := v.Validate(value)
		if res.Valid || res.Message == "" {
			t.Fatalf("expected %#v to fail with a message, got %+v", value, res)
		}
	}
	for _, value := range []any{"x", false, true, []string{"a"}} {
		if res := v.Validate(value); !res.Valid {
			t.Fatalf("expected %#v to pass, got %+v", value, res)
		}
	}
}

func TestFail_NeverEmptyMessage(t *testing.T) {
	if Fail("  ").Message == "" {
		t.Fatalf("failures must carry a message")
	}
}

func TestFormatValidators(t *testing.T) {
	cases := []struct {
		name string
		v    Validator
		good []any
		bad  []any
	}{
		{"phone", Phone(Messages{}), []any{"+1 809 555 0101", "8095550101"}, []any{"call me", "+1"}},
		{"passport", PassportNumber(Messages{}), []any{"X1234567", "ab12345"}, []any{"12", "AB-12345", "ABCDEFGHIJ"}},
		{"flight", FlightNumber(Messages{}), []any{"AA1234", "b6 123", "DAL45"}, []any{"12345678", "AA12345", "A"}},
		{"boolean", Boolean(Messages{}), []any{true, false}, []any{"yes"}},
		{"oneOf", OneOf(Messages{}, "arrival", "departure"), []any{"arrival"}, []any{"sideways"}},
		{"maxLength", MaxLength(3, Messages{}), []any{"abc"}, []any{"abcd"}},
		{"country", Country(Messages{}), []any{"DO", "DOM", "us"}, []any{"XX", "Atlantis", 42}},
	}
	for _, tc := range cases {
		for _, value := range tc.good {
			if res := tc.v.Validate(value); !res.Valid {
				t.Fatalf("%s: expected %#v valid, got %+v", tc.name, value, res)
			}
		}
		for _, value := range tc.bad {
			res := tc.v.Validate(value)
			if res.Valid || res.Message == "" {
				t.Fatalf("%s: expected %#v invalid with message, got %+v", tc.name, value, res)
			}
		}
	}
}

func TestDate(t *testing.T) {
	clock := WithClock(func() time.Time {
		return time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC)
	})

	past := Date(PastDate, Messages{}, clock)
	if res := past.Validate("1990-05-01"); !res.Valid {
		t.Fatalf("expected past date to pass: %+v", res)
	}
	if res := past.Validate("2026-03-11"); res.Valid {
		t.Fatalf("expected future date to fail for PastDate")
	}

	future := Date(FutureDate, Messages{Invalid: "too early"}, clock)
	if res := future.Validate("2026-03-10"); !res.Valid {
		t.Fatalf("today should satisfy FutureDate: %+v", res)
	}
	if res := future.Validate("2026-03-09"); res.Valid || res.Message != "too early" {
		t.Fatalf("expected custom message, got %+v", res)
	}
	if res := future.Validate("2026-02-30"); res.Valid {
		t.Fatalf("expected impossible date to fail")
	}
	if res := future.Validate("10/03/2026"); res.Valid {
		t.Fatalf("expected wrong layout to fail")
	}
}

func TestMustBeTrue(t *testing.T) {
	v := MustBeTrue("accept it")
	if res := v.Validate(true); !res.Valid {
		t.Fatalf("true should pass")
	}
	if res := v.Validate("on"); !res.Valid {
		t.Fatalf("checkbox 'on' should pass")
	}
	if res := v.Validate(false); res.Valid || res.Message != "accept it" {
		t.Fatalf("false should fail with message, got %+v", res)
	}
}

func TestSchema_UsesReasonWithoutMessage(t *testing.T) {
	v := Schema(openapi3.NewStringSchema().WithMinLength(3), Messages{})
	res := v.Validate("ab")
	if res.Valid || res.Message == "" {
		t.Fatalf("expected schema reason as message, got %+v", res)
	}
}

func TestSet_ComposesRegistry(t *testing.T) {
	registry := requirements.New(map[string]bool{
		"contactInfo.email":         true,
		"travelers.passport.number": true,
	})
	set := NewSet(registry).
		Add("contactInfo.email", Rule{Validator: Email(Messages{}), Required: "Email is required"}).
		Add("contactInfo.phone", Rule{Validator: Phone(Messages{})}).
		Add("travelers.passport.number", Rule{Validator: PassportNumber(Messages{}), Required: "Passport required"})

	if res := set.Validate("contactInfo.email", ""); res.Message != "Email is required" {
		t.Fatalf("expected required message, got %+v", res)
	}
	if res := set.Validate("contactInfo.phone", ""); !res.Valid {
		t.Fatalf("optional empty phone should pass, got %+v", res)
	}
	if res := set.Validate("contactInfo.phone", "abc"); res.Valid {
		t.Fatalf("optional phone still checks format when present")
	}
	if res := set.Validate("travelers.2.passport.number", ""); res.Message != "Passport required" {
		t.Fatalf("indexed path should resolve canonical rule, got %+v", res)
	}
	if res := set.Validate("unknown.path", nil); !res.Valid {
		t.Fatalf("unknown paths are valid, got %+v", res)
	}

	want := []string{"contactInfo.email", "contactInfo.phone", "travelers.passport.number"}
	if diff := cmp.Diff(want, set.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestDeclarationSet_CoversRegistry(t *testing.T) {
	set := DeclarationSet()
	rules := make(map[string]struct{})
	for _, path := range set.Paths() {
		rules[path] = struct{}{}
	}
	for _, path := range requirements.Default().Paths() {
		if _, ok := rules[path]; !ok {
			t.Fatalf("registry path %s has no validation rule", path)
		}
	}

	if res := set.Validate("travelers.0.passport.hasOtherNationality", false); !res.Valid {
		t.Fatalf("answered boolean should pass, got %+v", res)
	}
	if res := set.Validate("travelers.0.passport.hasOtherNationality", nil); res.Valid {
		t.Fatalf("unanswered required boolean should fail")
	}
	if res := set.Validate("customs.declarationAccepted", false); res.Valid {
		t.Fatalf("declaration must be accepted")
	}
}
