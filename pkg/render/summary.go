package render

import (
	"fmt"

	"github.com/goliatone/go-eticket/pkg/fieldadapter"
	"github.com/goliatone/go-eticket/pkg/formstate"
	"github.com/goliatone/go-eticket/pkg/model"
)

// SummaryRow is one answered question.
type SummaryRow struct {
	Path   string `json:"path"`
	Label  string `json:"label"`
	Answer string `json:"answer"`
}

// SummarySection groups the answers of one step.
type SummarySection struct {
	StepID   string       `json:"step_id"`
	Traveler int          `json:"traveler"`
	Title    string       `json:"title"`
	Rows     []SummaryRow `json:"rows"`
}

// Summarize lists the answered fields of steps. Booleans and choices are
// shown with the label of the option they were answered through, checkbox
// answers as Yes/No. Steps without answers are omitted.
func Summarize(steps []model.Step, values map[string]any, mapping fieldadapter.Mapping) []SummarySection {
	var out []SummarySection
	for _, step := range steps {
		section := SummarySection{StepID: step.ID, Traveler: -1, Title: step.Title}
		if step.PerTraveler {
			section.Traveler = step.Traveler
			section.Title = fmt.Sprintf("%s (traveler %d)", step.Title, step.Traveler+1)
		}
		for _, field := range step.Fields() {
			raw, ok := formstate.GetPath(values, field.Path)
			if !ok || raw == nil {
				continue
			}
			answer := DisplayValue(field, raw, mapping)
			if answer == "" {
				continue
			}
			label := field.Label
			if label == "" {
				label = field.Name
			}
			section.Rows = append(section.Rows, SummaryRow{Path: field.Path, Label: label, Answer: answer})
		}
		if len(section.Rows) > 0 {
			out = append(out, section)
		}
	}
	return out
}

// DisplayValue formats a stored value for reading.
func DisplayValue(field model.Field, raw any, mapping fieldadapter.Mapping) string {
	value := fmt.Sprint(raw)
	switch field.Type {
	case model.FieldTypeBoolean:
		value = mapping.Format(raw)
		if len(field.Options) == 0 {
			labels := fieldadapter.DefaultLabels()
			switch value {
			case mapping.TrueValue:
				return labels.True
			case mapping.FalseValue:
				return labels.False
			}
		}
	case model.FieldTypeCheckbox:
		if b, ok := raw.(bool); ok {
			if b {
				return "Yes"
			}
			return "No"
		}
	}
	for _, option := range field.Options {
		if option.Value == value && option.Label != "" {
			return option.Label
		}
	}
	return value
}
