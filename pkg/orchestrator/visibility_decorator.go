package orchestrator

import (
	"fmt"

	"github.com/goliatone/go-eticket/pkg/model"
	"github.com/goliatone/go-eticket/pkg/visibility"
)

// applyVisibility evaluates every VisibleWhen rule of step and returns the
// hidden paths. With strip set, hidden fields are also removed from the step
// and sections left without fields are dropped.
func applyVisibility(step *model.Step, evaluator visibility.Evaluator, ctx visibility.Context, strip bool) (map[string]bool, error) {
	if step == nil || evaluator == nil {
		return nil, nil
	}

	hidden, err := visibility.Hidden(evaluator, *step, ctx)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: apply visibility: %w", err)
	}
	if strip && len(hidden) > 0 {
		step.Sections = filterVisibleSections(step.Sections, hidden)
	}
	return hidden, nil
}

func filterVisibleSections(sections []model.Section, hidden map[string]bool) []model.Section {
	result := make([]model.Section, 0, len(sections))
	for _, section := range sections {
		fields := make([]model.Field, 0, len(section.Fields))
		for _, field := range section.Fields {
			if hidden[field.Path] {
				continue
			}
			fields = append(fields, field)
		}
		if len(fields) == 0 {
			continue
		}
		section.Fields = fields
		result = append(result, section)
	}
	return result
}

// HiddenDecorator returns a decorator that strips fields hidden under values.
// It suits callers that build steps outside the orchestrator, such as the
// review page.
func HiddenDecorator(evaluator visibility.Evaluator, values map[string]any) model.Decorator {
	return model.DecoratorFunc(func(step *model.Step) error {
		_, err := applyVisibility(step, evaluator, visibility.Context{Values: values}, true)
		return err
	})
}
