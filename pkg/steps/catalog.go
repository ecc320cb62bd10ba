// Package steps declares the declaration's wizard steps and turns them into
// render-ready models. A Catalog composes the requirement registry, the
// validator set, the boolean adapter options and the id generator.
package steps

import (
	"errors"
	"fmt"

	internalmodel "github.com/goliatone/go-eticket/internal/model"
	"github.com/goliatone/go-eticket/pkg/fieldadapter"
	"github.com/goliatone/go-eticket/pkg/model"
	"github.com/goliatone/go-eticket/pkg/requirements"
	"github.com/goliatone/go-eticket/pkg/validation"
)

var (
	// ErrUnknownStep is returned for step ids missing from the catalog.
	ErrUnknownStep = errors.New("steps: unknown step")
	// ErrTravelers is returned when a wizard is requested for fewer than one
	// or more than MaxTravelers travelers.
	ErrTravelers = errors.New("steps: invalid traveler count")
)

// MaxTravelers bounds one family group declaration.
const MaxTravelers = 10

// Catalog holds the ordered step definitions.
type Catalog struct {
	definitions []model.StepDefinition
	builder     model.Builder
	registry    *requirements.Registry
	rules       *validation.Set
	decorators  []model.Decorator
	mapping     fieldadapter.Mapping
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithRegistry overrides the requirement registry. The validator set is
// rebuilt over it unless WithRules is also given.
func WithRegistry(registry *requirements.Registry) Option {
	return func(c *Catalog) {
		if registry != nil {
			c.registry = registry
		}
	}
}

// WithRules overrides the validator set.
func WithRules(rules *validation.Set) Option {
	return func(c *Catalog) {
		c.rules = rules
	}
}

// WithBoolMapping sets the option values built for yes/no questions. The
// renderers and the server must bind answers through the same mapping.
func WithBoolMapping(mapping fieldadapter.Mapping) Option {
	return func(c *Catalog) {
		if mapping.TrueValue != "" && mapping.FalseValue != "" {
			c.mapping = mapping
		}
	}
}

// WithBuilder overrides the step builder.
func WithBuilder(builder model.Builder) Option {
	return func(c *Catalog) {
		if builder != nil {
			c.builder = builder
		}
	}
}

// WithDecorators appends decorators applied after the requirement flags.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(c *Catalog) {
		c.decorators = append(c.decorators, decorators...)
	}
}

// WithDefinitions replaces the step list.
func WithDefinitions(defs ...model.StepDefinition) Option {
	return func(c *Catalog) {
		c.definitions = append([]model.StepDefinition(nil), defs...)
	}
}

// Definitions returns the declaration steps in wizard order.
func Definitions() []model.StepDefinition {
	return []model.StepDefinition{
		PersonalInfo(),
		ContactInfo(),
		FlightInfo(),
		CustomsDeclaration(),
		Review(),
	}
}

// New constructs the default catalog.
func New(options ...Option) *Catalog {
	c := &Catalog{
		definitions: Definitions(),
		registry:    requirements.Default(),
		mapping:     fieldadapter.YesNo,
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	if c.builder == nil {
		c.builder = internalmodel.New(internalmodel.Options{BoolMapping: c.mapping})
	}
	if c.rules == nil {
		c.rules = validation.DeclarationSetWith(c.registry)
	}
	return c
}

// Registry returns the requirement registry in use.
func (c *Catalog) Registry() *requirements.Registry { return c.registry }

// BoolMapping returns the option values of yes/no questions.
func (c *Catalog) BoolMapping() fieldadapter.Mapping { return c.mapping }

// Rules returns the validator set in use.
func (c *Catalog) Rules() *validation.Set { return c.rules }

// Definitions returns a copy of the catalog's definitions.
func (c *Catalog) Definitions() []model.StepDefinition {
	return append([]model.StepDefinition(nil), c.definitions...)
}

// Definition looks up a definition by id.
func (c *Catalog) Definition(id string) (model.StepDefinition, bool) {
	for _, def := range c.definitions {
		if def.ID == id {
			return def, true
		}
	}
	return model.StepDefinition{}, false
}

// Step builds one step for a traveler slot and applies the decorators.
func (c *Catalog) Step(id string, traveler int) (model.Step, error) {
	def, ok := c.Definition(id)
	if !ok {
		return model.Step{}, fmt.Errorf("%w: %q", ErrUnknownStep, id)
	}
	step, err := c.builder.Build(def, traveler)
	if err != nil {
		return model.Step{}, fmt.Errorf("steps: build %s: %w", id, err)
	}
	decorators := append([]model.Decorator{c.registry.Decorator()}, c.decorators...)
	for _, decorator := range decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(&step); err != nil {
			return model.Step{}, fmt.Errorf("steps: decorate %s: %w", id, err)
		}
	}
	return step, nil
}

// Wizard expands the catalog for a group of travelers: per-traveler steps
// are repeated once per slot, in slot order, at their position in the list.
func (c *Catalog) Wizard(travelers int) (model.Wizard, error) {
	if travelers < 1 || travelers > MaxTravelers {
		return model.Wizard{}, fmt.Errorf("%w: %d", ErrTravelers, travelers)
	}
	wizard := model.Wizard{ID: "declaration", Title: "Electronic declaration"}
	for _, def := range c.definitions {
		slots := 1
		if def.PerTraveler {
			slots = travelers
		}
		for slot := 0; slot < slots; slot++ {
			step, err := c.Step(def.ID, slot)
			if err != nil {
				return model.Wizard{}, err
			}
			wizard.Steps = append(wizard.Steps, step)
		}
	}
	return wizard, nil
}

// ValidateStep validates the given visible paths of a step against values
// using the catalog's rules and returns the failures keyed by path.
func (c *Catalog) ValidateStep(step model.Step, lookup func(path string) any, hidden map[string]bool) map[string]string {
	failures := make(map[string]string)
	for _, field := range step.Fields() {
		if hidden[field.Path] {
			continue
		}
		if res := c.rules.Validate(field.Path, lookup(field.Path)); !res.Valid {
			failures[field.Path] = res.Message
		}
	}
	return failures
}
