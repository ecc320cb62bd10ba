package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-eticket/pkg/model"
	"github.com/goliatone/go-eticket/pkg/render"
)

func TestMapErrorPayload_StepPaths(t *testing.T) {
	step := model.Step{
		ID:          "personal-info",
		PerTraveler: true,
		Traveler:    1,
		Sections: []model.Section{
			{ID: "personal", Fields: []model.Field{
				{Path: "travelers.1.personalInfo.firstName", Name: "firstName"},
				{Path: "travelers.1.personalInfo.birthDate", Name: "birthDate"},
			}},
			{ID: "passport", Fields: []model.Field{
				{Path: "travelers.1.passport.number", Name: "number"},
			}},
		},
	}

	payload := map[string][]string{
		"/body/travelers/1/personalInfo/firstName": {"First name is required"},
		"personalInfo.birthDate":                   {"Birth date must be in the past"},
		"$.data.passport.number[0]":                {"Passport number malformed"},
		"non_field_errors":                         {"Declaration rejected"},
		"request/body/unknown":                     {"Should fall back to form errors"},
		"":                                         {"  "},
	}

	mapped := render.MapErrorPayload(step, payload)

	wantFields := map[string][]string{
		"travelers.1.personalInfo.firstName": {"First name is required"},
		"travelers.1.personalInfo.birthDate": {"Birth date must be in the past"},
		"travelers.1.passport.number":        {"Passport number malformed"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Declaration rejected", "Should fall back to form errors"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMapErrorPayload_Empty(t *testing.T) {
	mapped := render.MapErrorPayload(model.Step{}, nil)
	if len(mapped.Fields) != 0 || len(mapped.Form) != 0 {
		t.Fatalf("expected empty mapping, got %+v", mapped)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
