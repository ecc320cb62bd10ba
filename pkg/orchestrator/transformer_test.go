package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-eticket/pkg/steps"
)

func TestJSONPresetTransformer_PatchesEveryTravelerSlot(t *testing.T) {
	fsys := fstest.MapFS{
		"presets.json": {Data: []byte(`{
			"personal-info": {
				"title": "Who is travelling?",
				"fields": {
					"travelers.personalInfo.occupation": {
						"label": "Profession",
						"placeholder": "Engineer",
						"uiHints": {"autocomplete": "organization-title"}
					}
				}
			}
		}`)},
	}
	transformer, err := NewJSONPresetTransformerFromFS(fsys, "presets.json")
	if err != nil {
		t.Fatalf("load preset: %v", err)
	}

	orch, renderer := newCaptureOrchestrator(t, WithTransformer(transformer))
	for _, traveler := range []int{0, 2} {
		if _, err := orch.Generate(context.Background(), Request{StepID: steps.PersonalInfoID, Traveler: traveler}); err != nil {
			t.Fatalf("generate traveler %d: %v", traveler, err)
		}
		if renderer.step.Title != "Who is travelling?" {
			t.Fatalf("title not patched: %q", renderer.step.Title)
		}
		field, ok := renderer.step.Field(travelerPath(traveler, "personalInfo.occupation"))
		if !ok {
			t.Fatalf("occupation field missing for traveler %d", traveler)
		}
		if field.Label != "Profession" || field.Placeholder != "Engineer" {
			t.Fatalf("field not patched: %+v", field)
		}
		if field.UIHints["autocomplete"] != "organization-title" {
			t.Fatalf("ui hints not merged: %#v", field.UIHints)
		}
	}
}

func TestJSONPresetTransformer_UnknownField(t *testing.T) {
	transformer, err := NewJSONPresetTransformer([]byte(`{"customs": {"fields": {"customs.nope": {"label": "x"}}}}`))
	if err != nil {
		t.Fatalf("parse preset: %v", err)
	}
	orch, _ := newCaptureOrchestrator(t, WithTransformer(transformer))

	_, err = orch.Generate(context.Background(), Request{StepID: steps.CustomsDeclarationID})
	if err == nil || !strings.Contains(err.Error(), "customs.nope") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestJSONPresetTransformer_RejectsEmptyDocument(t *testing.T) {
	if _, err := NewJSONPresetTransformer([]byte("   ")); err == nil {
		t.Fatalf("expected error for empty document")
	}
	if _, err := NewJSONPresetTransformer([]byte("{")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func travelerPath(traveler int, rel string) string {
	return fmt.Sprintf("travelers.%d.%s", traveler, rel)
}
