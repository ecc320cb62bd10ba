package vanilla

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-eticket/pkg/model"
	"github.com/goliatone/go-eticket/pkg/renderers/vanilla/components"
)

func TestBuildFieldMarkup(t *testing.T) {
	field := model.Field{
		Path:        "contactInfo.stayAddress",
		ID:          "et-contact-info--t--stayAddress--_",
		Label:       "Address during your stay",
		Description: "Hotel <em>name</em><script>x()</script>",
		Required:    true,
		UIHints:     map[string]string{"class": "wide et-field"},
	}

	got := buildFieldMarkup(field, components.NameTextarea, "<textarea></textarea>\n", []string{"Address is required"})
	want := `<div class="et-field wide" data-component="textarea" data-path="contactInfo.stayAddress" data-invalid="true">
    <label id="et-contact-info--t--stayAddress--___label" for="et-contact-info--t--stayAddress--_" class="et-label">Address during your stay<span class="et-required" aria-hidden="true"> *</span></label>
    <textarea></textarea>
    <p id="et-contact-info--t--stayAddress--___desc" class="et-description">Hotel <em>name</em></p>
    <ul id="et-contact-info--t--stayAddress--___error" class="et-field-errors" role="alert"><li>Address is required</li></ul>
</div>
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("markup mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildFieldMarkup_GroupsLabelThemselves(t *testing.T) {
	field := model.Field{Path: "customs.carriesCurrency", ID: "x", Label: "Carrying cash?"}
	got := buildFieldMarkup(field, components.NameBoolean, "<fieldset></fieldset>", nil)
	want := "<div class=\"et-field\" data-component=\"boolean\" data-path=\"customs.carriesCurrency\">\n    <fieldset></fieldset>\n</div>\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("markup mismatch (-want +got):\n%s", diff)
	}
}

func TestDescribedBy(t *testing.T) {
	field := model.Field{ID: "f", Description: "Help"}
	if got := describedBy(field, true); got != "f__desc f__error" {
		t.Fatalf("unexpected describedby %q", got)
	}
	if got := describedBy(model.Field{ID: "f"}, false); got != "" {
		t.Fatalf("expected empty describedby, got %q", got)
	}
}

func TestResolveComponentName(t *testing.T) {
	cases := map[model.FieldType]string{
		model.FieldTypeText:     components.NameInput,
		model.FieldTypeEmail:    components.NameInput,
		model.FieldTypeTextarea: components.NameTextarea,
		model.FieldTypeSelect:   components.NameSelect,
		model.FieldTypeRadio:    components.NameRadio,
		model.FieldTypeBoolean:  components.NameBoolean,
		model.FieldTypeCheckbox: components.NameCheckbox,
	}
	for fieldType, want := range cases {
		if got := resolveComponentName(model.Field{Type: fieldType}); got != want {
			t.Fatalf("%s: want %s, got %s", fieldType, want, got)
		}
	}
	override := model.Field{Type: model.FieldTypeText, UIHints: map[string]string{"component": "textarea"}}
	if got := resolveComponentName(override); got != components.NameTextarea {
		t.Fatalf("ui hint override ignored, got %s", got)
	}
}
