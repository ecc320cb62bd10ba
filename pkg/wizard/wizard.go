// Package wizard moves a declaration through its steps. Next validates the
// visible fields of the current step and blocks on failure; Back is always
// allowed; GoTo only reaches steps already visited.
package wizard

import (
	"fmt"

	"github.com/goliatone/go-eticket/pkg/formstate"
	"github.com/goliatone/go-eticket/pkg/model"
	"github.com/goliatone/go-eticket/pkg/validation"
	"github.com/goliatone/go-eticket/pkg/visibility"
	"github.com/goliatone/go-eticket/pkg/visibility/expr"
)

// Navigator tracks the position of one form inside a wizard.
type Navigator struct {
	wizard    model.Wizard
	form      *formstate.Form
	rules     *validation.Set
	evaluator visibility.Evaluator
	extras    map[string]any
	current   int
	furthest  int
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithRules sets the validator set used on navigation.
func WithRules(rules *validation.Set) Option {
	return func(n *Navigator) { n.rules = rules }
}

// WithEvaluator overrides the visibility evaluator.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(n *Navigator) {
		if evaluator != nil {
			n.evaluator = evaluator
		}
	}
}

// WithExtras exposes additional flags to visibility rules.
func WithExtras(extras map[string]any) Option {
	return func(n *Navigator) { n.extras = extras }
}

// WithState restores a position saved with State.
func WithState(state State) Option {
	return func(n *Navigator) {
		n.current = state.Current
		n.furthest = state.Furthest
	}
}

// State is the serialisable navigation position.
type State struct {
	Current  int `json:"current"`
	Furthest int `json:"furthest"`
}

// Progress summarises how far the user is.
type Progress struct {
	Step    int    `json:"step"`
	Total   int    `json:"total"`
	Percent int    `json:"percent"`
	StepID  string `json:"stepId"`
	Title   string `json:"title"`
}

// New creates a Navigator positioned on the first step, or on the restored
// state clamped to the wizard.
func New(w model.Wizard, form *formstate.Form, options ...Option) (*Navigator, error) {
	if len(w.Steps) == 0 {
		return nil, ErrEmptyWizard
	}
	if form == nil {
		form = formstate.New()
	}
	n := &Navigator{
		wizard:    w,
		form:      form,
		rules:     validation.DeclarationSet(),
		evaluator: expr.New(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(n)
		}
	}
	n.current = clamp(n.current, len(w.Steps))
	n.furthest = clamp(n.furthest, len(w.Steps))
	if n.furthest < n.current {
		n.furthest = n.current
	}
	return n, nil
}

func clamp(v, length int) int {
	if v < 0 {
		return 0
	}
	if v >= length {
		return length - 1
	}
	return v
}

// Form returns the underlying form state.
func (n *Navigator) Form() *formstate.Form { return n.form }

// Wizard returns the wizard model.
func (n *Navigator) Wizard() model.Wizard { return n.wizard }

// State returns the position for persistence.
func (n *Navigator) State() State {
	return State{Current: n.current, Furthest: n.furthest}
}

// Current returns the active step.
func (n *Navigator) Current() model.Step {
	return n.wizard.Steps[n.current]
}

// IsLast reports whether the active step is the final one.
func (n *Navigator) IsLast() bool {
	return n.current == len(n.wizard.Steps)-1
}

// Visited reports whether the step at id/traveler has been reached.
func (n *Navigator) Visited(id string, traveler int) bool {
	idx := n.wizard.Index(id, traveler)
	return idx >= 0 && idx <= n.furthest
}

// Progress reports the 1-based position of the active step.
func (n *Navigator) Progress() Progress {
	total := len(n.wizard.Steps)
	step := n.Current()
	return Progress{
		Step:    n.current + 1,
		Total:   total,
		Percent: (n.current + 1) * 100 / total,
		StepID:  step.ID,
		Title:   step.Title,
	}
}

// Hidden returns the hidden paths of step under the current values.
func (n *Navigator) Hidden(step model.Step) (map[string]bool, error) {
	return visibility.Hidden(n.evaluator, step, visibility.Context{
		Values: n.form.Values(),
		Extras: n.extras,
	})
}

// Validate checks the visible fields of step, records the outcome on the
// form and returns the failures. Hidden fields have their errors cleared.
func (n *Navigator) Validate(step model.Step) (map[string]string, error) {
	hidden, err := n.Hidden(step)
	if err != nil {
		return nil, err
	}
	failures := make(map[string]string)
	for _, path := range step.Paths() {
		if hidden[path] {
			n.form.SetErrors(path)
			continue
		}
		value, _ := n.form.Get(path)
		res := n.rules.Validate(path, value)
		if res.Valid {
			n.form.SetErrors(path)
			continue
		}
		n.form.SetErrors(path, res.Message)
		failures[path] = res.Message
	}
	return failures, nil
}

// Next validates the active step and advances. A *ValidationError is
// returned, and the position kept, when any visible field fails.
func (n *Navigator) Next() error {
	step := n.Current()
	failures, err := n.Validate(step)
	if err != nil {
		return err
	}
	if len(failures) > 0 {
		return &ValidationError{StepID: step.ID, Traveler: step.Traveler, Failures: failures}
	}
	if n.IsLast() {
		return ErrLastStep
	}
	n.current++
	if n.current > n.furthest {
		n.furthest = n.current
	}
	return nil
}

// Back moves to the previous step without validating.
func (n *Navigator) Back() error {
	if n.current == 0 {
		return ErrFirstStep
	}
	n.current--
	return nil
}

// GoTo jumps to a visited step.
func (n *Navigator) GoTo(id string, traveler int) error {
	idx := n.wizard.Index(id, traveler)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownStep, id)
	}
	if idx > n.furthest {
		return fmt.Errorf("%w: %s", ErrNotVisited, id)
	}
	n.current = idx
	return nil
}

// Complete validates every step. On failure the navigator moves to the first
// failing step and returns its *ValidationError.
func (n *Navigator) Complete() error {
	for idx, step := range n.wizard.Steps {
		failures, err := n.Validate(step)
		if err != nil {
			return err
		}
		if len(failures) > 0 {
			if idx <= n.furthest {
				n.current = idx
			}
			return &ValidationError{StepID: step.ID, Traveler: step.Traveler, Failures: failures}
		}
	}
	return nil
}
