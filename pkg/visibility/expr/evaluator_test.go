package expr

import (
	"errors"
	"testing"

	"github.com/goliatone/go-eticket/pkg/fieldadapter"
	"github.com/goliatone/go-eticket/pkg/visibility"
)

func TestEvaluator_Rules(t *testing.T) {
	t.Parallel()

	values := map[string]any{
		"customs": map[string]any{
			"carriesCurrency": true,
			"carriesGoods":    false,
		},
		"flightInfo": map[string]any{"direction": "arrival", "passengers": 2.0},
		"travelers": []any{
			map[string]any{"passport": map[string]any{"hasOtherNationality": "true"}},
		},
		"contactInfo.email": "a@b.com",
	}
	extras := map[string]any{"kiosk": true}

	cases := []struct {
		rule string
		want bool
	}{
		{"", true},
		{"customs.carriesCurrency == true", true},
		{"customs.carriesCurrency", true},
		{"!customs.carriesGoods", true},
		{`customs.carriesCurrency == "yes"`, true},
		{`customs.carriesGoods == 'no'`, true},
		{`customs.carriesGoods != "no"`, false},
		{"customs.missing == null", true},
		{"customs.carriesGoods != null", true},
		{"travelers.0.passport.hasOtherNationality == true", true},
		{"travelers.1.passport.hasOtherNationality == true", false},
		{`flightInfo.direction == "arrival" && customs.carriesGoods`, false},
		{`flightInfo.direction == departure || customs.carriesCurrency`, true},
		{`!(flightInfo.direction == "arrival" && extras.kiosk)`, false},
		{"flightInfo.passengers == 2", true},
		{`contactInfo.email != ""`, true},
		{"extras.missing", false},
	}

	eval := New()
	for _, tc := range cases {
		got, err := eval.Eval("field", tc.rule, visibility.Context{Values: values, Extras: extras})
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.rule, err)
		}
		if got != tc.want {
			t.Fatalf("%q: want %v, got %v", tc.rule, tc.want, got)
		}
	}
}

func TestEvaluator_SyntaxErrors(t *testing.T) {
	t.Parallel()

	eval := New()
	for _, rule := range []string{
		"a ==",
		"(a == true",
		"a = true",
		`a == "open`,
		"== true",
		"a == true b",
	} {
		_, err := eval.Eval("field", rule, visibility.Context{})
		if !errors.Is(err, ErrSyntax) {
			t.Fatalf("%q: expected ErrSyntax, got %v", rule, err)
		}
	}
}

func TestEvaluator_CachesPrograms(t *testing.T) {
	t.Parallel()

	eval := New()
	first, err := eval.Compile("a && b")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	second, _ := eval.Compile("  a && b ")
	if first != second {
		t.Fatalf("expected cached program to be reused")
	}
}

func TestEvaluator_CustomMapping(t *testing.T) {
	t.Parallel()

	eval := New(WithMapping(fieldadapter.Mapping{TrueValue: "si", FalseValue: "no"}))
	ok, err := eval.Eval("field", `answer == "si"`, visibility.Context{Values: map[string]any{"answer": true}})
	if err != nil || !ok {
		t.Fatalf("expected mapped comparison to match, got %v %v", ok, err)
	}
}
