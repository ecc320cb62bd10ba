package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-eticket/pkg/fieldadapter"
	"github.com/goliatone/go-eticket/pkg/ids"
	pkgmodel "github.com/goliatone/go-eticket/pkg/model"
)

func passportDefinition() pkgmodel.StepDefinition {
	return pkgmodel.StepDefinition{
		ID:          "passport",
		Prefix:      "passport",
		PerTraveler: true,
		Sections: []pkgmodel.SectionDefinition{
			{
				Fields: []pkgmodel.FieldDefinition{
					{Name: "number", Type: pkgmodel.FieldTypeText},
					{Name: "hasOtherNationality", Type: pkgmodel.FieldTypeBoolean},
					{Name: "otherNationality", Type: pkgmodel.FieldTypeSelect, VisibleWhen: "@hasOtherNationality == true",
						Options: []pkgmodel.Option{{Value: "DOM", Label: "Dominican Republic"}, {Value: "USA"}}},
				},
			},
		},
	}
}

func TestBuilder_PerTravelerPathsAndIDs(t *testing.T) {
	step, err := New(Options{}).Build(passportDefinition(), 1)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	wantPaths := []string{
		"travelers.1.passport.number",
		"travelers.1.passport.hasOtherNationality",
		"travelers.1.passport.otherNationality",
	}
	if diff := cmp.Diff(wantPaths, step.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if step.Title != "Passport" || step.Traveler != 1 {
		t.Fatalf("unexpected step header: %+v", step)
	}

	number, _ := step.Field("travelers.1.passport.number")
	if number.ID != ids.ForTraveler(1, "passport", "number", "") {
		t.Fatalf("unexpected field id %q", number.ID)
	}
	if number.Label != "Number" {
		t.Fatalf("expected default label, got %q", number.Label)
	}

	boolean, _ := step.Field("travelers.1.passport.hasOtherNationality")
	if len(boolean.Options) != 2 || boolean.Options[0].Value != "yes" || boolean.Layout != pkgmodel.LayoutHorizontal {
		t.Fatalf("boolean field should get yes/no options: %+v", boolean)
	}
	if boolean.Options[1].ID != ids.ForTraveler(1, "passport", "hasOtherNationality", "no") {
		t.Fatalf("unexpected option id %q", boolean.Options[1].ID)
	}

	other, _ := step.Field("travelers.1.passport.otherNationality")
	if other.VisibleWhen != "travelers.1.passport.hasOtherNationality == true" {
		t.Fatalf("condition not resolved: %q", other.VisibleWhen)
	}
	if other.Options[1].Label != "USA" || other.Options[0].Label != "Dominican Republic" {
		t.Fatalf("option labels not defaulted: %+v", other.Options)
	}
}

func TestBuilder_SharedStepIgnoresTraveler(t *testing.T) {
	def := pkgmodel.StepDefinition{
		ID:     "contact-info",
		Title:  "Contact",
		Prefix: "contactInfo",
		Sections: []pkgmodel.SectionDefinition{{
			Fields: []pkgmodel.FieldDefinition{{Name: "email", Type: pkgmodel.FieldTypeEmail, Label: "Email"}},
		}},
	}
	step, err := Build(def, 3)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if step.Traveler != -1 {
		t.Fatalf("expected no traveler, got %d", step.Traveler)
	}
	field := step.Fields()[0]
	if field.Path != "contactInfo.email" || field.ID != ids.Generate("contact-info", "email", "") {
		t.Fatalf("unexpected field %+v", field)
	}
	if step.Sections[0].ID != "contact-info-section-1" {
		t.Fatalf("expected generated section id, got %q", step.Sections[0].ID)
	}
}

func TestBuilder_RejectsInvalidDefinitions(t *testing.T) {
	cases := map[string]struct {
		def      pkgmodel.StepDefinition
		traveler int
		want     error
	}{
		"missing id": {def: pkgmodel.StepDefinition{}, want: errStepIDMissing},
		"traveler":   {def: passportDefinition(), traveler: -1, want: errTravelerRequired},
		"numeric segment": {def: pkgmodel.StepDefinition{ID: "s", Sections: []pkgmodel.SectionDefinition{{
			Fields: []pkgmodel.FieldDefinition{{Name: "a.0.b"}},
		}}}, want: errFieldNameMissing},
		"duplicate": {def: pkgmodel.StepDefinition{ID: "s", Sections: []pkgmodel.SectionDefinition{
			{Fields: []pkgmodel.FieldDefinition{{Name: "a"}}},
			{Fields: []pkgmodel.FieldDefinition{{Name: "a"}}},
		}}, want: errDuplicateFieldPath},
		"radio without options": {def: pkgmodel.StepDefinition{ID: "s", Sections: []pkgmodel.SectionDefinition{{
			Fields: []pkgmodel.FieldDefinition{{Name: "a", Type: pkgmodel.FieldTypeRadio}},
		}}}, want: errOptionsMissing},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(Options{}).Build(tc.def, tc.traveler)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !IsDefinitionError(err) {
				t.Fatalf("expected definition error")
			}
		})
	}
}

func TestBuilder_CustomGenerator(t *testing.T) {
	builder := New(Options{IDs: ids.New(ids.WithPrefix("x"))})
	step, err := builder.Build(passportDefinition(), 0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := step.Fields()[0].ID; got != "x-passport--t0--number--_" {
		t.Fatalf("unexpected id %q", got)
	}
}

func TestDefaultLabeler(t *testing.T) {
	cases := map[string]string{
		"firstName":           "First name",
		"passport_number":     "Passport number",
		"passportIDNumber":    "Passport ID number",
		"hasOtherNationality": "Has other nationality",
		"USD":                 "USD",
		"address2":            "Address 2",
		"":                    "",
	}
	for in, want := range cases {
		if got := DefaultLabeler(in); got != want {
			t.Fatalf("DefaultLabeler(%q): want %q, got %q", in, want, got)
		}
	}
}

func TestBuilder_BoolMappingSetsOptionValues(t *testing.T) {
	mapping := fieldadapter.Mapping{TrueValue: "si", FalseValue: "no"}
	step, err := New(Options{BoolMapping: mapping}).Build(passportDefinition(), 0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	boolean, _ := step.Field("travelers.0.passport.hasOtherNationality")
	var got []string
	for _, option := range boolean.Options {
		got = append(got, option.Value)
	}
	if diff := cmp.Diff([]string{"si", "no"}, got); diff != "" {
		t.Fatalf("option values mismatch (-want +got):\n%s", diff)
	}
	if boolean.Options[0].ID != ids.ForTraveler(0, "passport", "hasOtherNationality", "si") {
		t.Fatalf("unexpected option id %q", boolean.Options[0].ID)
	}
}
