package model

import "strings"

// FieldType enumerates the input widgets a declaration step can render.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTel      FieldType = "tel"
	FieldTypeDate     FieldType = "date"
	FieldTypeSelect   FieldType = "select"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeBoolean  FieldType = "boolean"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeCheckbox FieldType = "checkbox"
)

// Layout values understood by radio groups and sections.
const (
	LayoutVertical   = "vertical"
	LayoutHorizontal = "horizontal"
	LayoutGrid       = "grid"
)

// Option is a static radio/select choice. ID is derived by the id generator
// unless the caller provided one explicitly.
type Option struct {
	Value       string `json:"value"`
	ID          string `json:"id,omitempty"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// Field describes a single input inside a step. Path is the dotted join key
// shared by the requirement registry, the validator set and the form state.
type Field struct {
	Path        string            `json:"path"`
	Name        string            `json:"name"`
	ID          string            `json:"id"`
	Type        FieldType         `json:"type"`
	Label       string            `json:"label,omitempty"`
	Description string            `json:"description,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Required    bool              `json:"required"`
	Layout      string            `json:"layout,omitempty"`
	Options     []Option          `json:"options,omitempty"`
	VisibleWhen string            `json:"visibleWhen,omitempty"`
	UIHints     map[string]string `json:"uiHints,omitempty"`
}

// Section groups related fields under an optional heading.
type Section struct {
	ID          string  `json:"id"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Fields      []Field `json:"fields"`
}

// Step is one page of the declaration wizard. Per-traveler steps are built
// once per traveler slot and carry the slot in Traveler.
type Step struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	PerTraveler bool      `json:"perTraveler,omitempty"`
	Traveler    int       `json:"traveler"`
	Sections    []Section `json:"sections"`
}

// Fields flattens every section in declaration order.
func (s Step) Fields() []Field {
	var out []Field
	for _, section := range s.Sections {
		out = append(out, section.Fields...)
	}
	return out
}

// Field looks up a field by its dotted path.
func (s Step) Field(path string) (Field, bool) {
	path = strings.TrimSpace(path)
	for _, section := range s.Sections {
		for _, field := range section.Fields {
			if field.Path == path {
				return field, true
			}
		}
	}
	return Field{}, false
}

// Paths returns every field path in declaration order.
func (s Step) Paths() []string {
	fields := s.Fields()
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, field.Path)
	}
	return out
}

// Wizard is the ordered list of steps for one declaration session.
type Wizard struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Steps []Step `json:"steps"`
}

// Step returns the step matching id and traveler slot.
func (w Wizard) Step(id string, traveler int) (Step, bool) {
	for _, step := range w.Steps {
		if step.ID != id {
			continue
		}
		if step.PerTraveler && step.Traveler != traveler {
			continue
		}
		return step, true
	}
	return Step{}, false
}

// Index returns the position of the step within the wizard or -1.
func (w Wizard) Index(id string, traveler int) int {
	for idx, step := range w.Steps {
		if step.ID == id && (!step.PerTraveler || step.Traveler == traveler) {
			return idx
		}
	}
	return -1
}
