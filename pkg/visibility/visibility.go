// Package visibility decides which conditional fields of a step are shown.
// A field's VisibleWhen rule is evaluated against the current form values;
// hidden fields are neither rendered nor validated.
package visibility

import (
	"fmt"

	"github.com/goliatone/go-eticket/pkg/model"
)

// Evaluator determines whether a field should be visible based on a rule
// string and the current values.
type Evaluator interface {
	Eval(fieldPath, rule string, ctx Context) (bool, error)
}

// Context carries the inputs of an evaluation. Values is the nested form
// value tree; Extras holds caller supplied flags reachable as "extras.<key>".
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldPath, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldPath, rule string, ctx Context) (bool, error) {
	return fn(fieldPath, rule, ctx)
}

// Hidden evaluates every rule of step and returns the set of hidden paths.
// Fields without a rule are always visible.
func Hidden(evaluator Evaluator, step model.Step, ctx Context) (map[string]bool, error) {
	hidden := make(map[string]bool)
	if evaluator == nil {
		return hidden, nil
	}
	for _, field := range step.Fields() {
		if field.VisibleWhen == "" {
			continue
		}
		visible, err := evaluator.Eval(field.Path, field.VisibleWhen, ctx)
		if err != nil {
			return nil, fmt.Errorf("visibility: field %s: %w", field.Path, err)
		}
		if !visible {
			hidden[field.Path] = true
		}
	}
	return hidden, nil
}

// VisiblePaths returns the step's field paths minus hidden ones, in order.
func VisiblePaths(step model.Step, hidden map[string]bool) []string {
	paths := step.Paths()
	out := paths[:0]
	for _, path := range paths {
		if !hidden[path] {
			out = append(out, path)
		}
	}
	return out
}
