package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/goliatone/go-eticket/pkg/model"
	"github.com/goliatone/go-eticket/pkg/render"
	"github.com/goliatone/go-eticket/pkg/renderers/jsonstep"
	"github.com/goliatone/go-eticket/pkg/renderers/vanilla"
	"github.com/goliatone/go-eticket/pkg/steps"
	"github.com/goliatone/go-eticket/pkg/visibility"
	"github.com/goliatone/go-eticket/pkg/visibility/expr"
	theme "github.com/goliatone/go-theme"
)

const defaultRendererName = vanilla.Name

var (
	// ErrStepRequired is returned when a request omits the step id.
	ErrStepRequired = errors.New("orchestrator: step id is required")
	// ErrNoRenderers is returned when the registry is empty.
	ErrNoRenderers = errors.New("orchestrator: no renderers registered")
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithCatalog injects the step catalog.
func WithCatalog(catalog *steps.Catalog) Option {
	return func(o *Orchestrator) {
		o.catalog = catalog
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer that can mutate steps after the
// catalog built them but before decorators run.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithDecorators registers decorators that run against the built step
// before rendering.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		if len(decorators) == 0 {
			return
		}
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithEvaluator overrides the visibility evaluator.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(o *Orchestrator) {
		o.evaluator = evaluator
	}
}

// WithStripHidden removes hidden fields from the step instead of only
// flagging them in RenderOptions.Hidden. Renderers that ignore the flag (JSON
// exports, custom renderers) then never see them.
func WithStripHidden(strip bool) Option {
	return func(o *Orchestrator) {
		o.stripHidden = strip
	}
}

// Orchestrator coordinates the pipeline from step id to rendered output. It
// applies sensible defaults (declaration catalog, vanilla renderer, expression
// evaluator) while remaining open to dependency injection.
type Orchestrator struct {
	catalog         *steps.Catalog
	registry        *render.Registry
	defaultRenderer string
	initialiseErr   error
	defaultsApplied bool
	decorators      []model.Decorator
	transformer     Transformer
	evaluator       visibility.Evaluator
	stripHidden     bool

	themeSelector  theme.ThemeSelector
	themeFallbacks map[string]string
	defaultTheme   string
	defaultVariant string
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to render one step.
type Request struct {
	// StepID selects the catalog step.
	StepID string

	// Traveler selects the slot of per-traveler steps. Ignored otherwise.
	Traveler int

	// Renderer names the renderer to use. If empty, the orchestrator falls
	// back to the configured default renderer.
	Renderer string

	// Values are the current form values (nested by path segment). They seed
	// inputs and drive visibility rules.
	Values map[string]any

	// Errors is a server error payload keyed by field path or JSON pointer.
	// Keys that match no field of the step surface as form-level errors.
	Errors map[string][]string

	// ThemeName and ThemeVariant select a go-theme manifest; empty values use
	// the configured defaults.
	ThemeName    string
	ThemeVariant string

	// Extras are exposed to visibility rules as "extras.<key>".
	Extras map[string]any

	// RenderOptions carries per-request instructions such as the form action,
	// hidden inputs or progress. Values, Errors, Hidden and Theme are filled
	// in by the orchestrator.
	RenderOptions render.RenderOptions
}

// Prepared is a resolved step with its render options, before rendering.
type Prepared struct {
	Step    model.Step
	Options render.RenderOptions
}

// Generate resolves the step, runs the decorators, computes visibility,
// resolves the theme and renders through the selected renderer.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	prepared, err := o.Prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, prepared.Step, prepared.Options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Prepare runs every stage of Generate except rendering.
func (o *Orchestrator) Prepare(ctx context.Context, req Request) (Prepared, error) {
	if ctx == nil {
		return Prepared{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Prepared{}, err
	}
	if err := o.initialiseErr; err != nil {
		return Prepared{}, err
	}
	if !o.defaultsApplied {
		o.applyDefaults()
		if err := o.initialiseErr; err != nil {
			return Prepared{}, err
		}
	}
	if req.StepID == "" {
		return Prepared{}, ErrStepRequired
	}

	step, err := o.catalog.Step(req.StepID, req.Traveler)
	if err != nil {
		return Prepared{}, fmt.Errorf("orchestrator: %w", err)
	}
	if err := o.applyTransformer(ctx, &step); err != nil {
		return Prepared{}, err
	}
	if err := o.applyDecorators(&step); err != nil {
		return Prepared{}, err
	}

	opts := req.RenderOptions
	if req.Values != nil {
		opts.Values = req.Values
	}

	hidden, err := applyVisibility(&step, o.evaluator, visibility.Context{
		Values: opts.Values,
		Extras: req.Extras,
	}, o.stripHidden)
	if err != nil {
		return Prepared{}, err
	}
	opts.Hidden = mergeHidden(opts.Hidden, hidden)

	if len(req.Errors) > 0 {
		mapped := render.MapErrorPayload(step, req.Errors)
		opts.Errors = mergeErrors(opts.Errors, mapped.Fields)
		opts.FormErrors = render.MergeFormErrors(opts.FormErrors, mapped.Form...)
	}

	if opts.Theme == nil {
		cfg, err := o.resolveTheme(req)
		if err != nil {
			return Prepared{}, err
		}
		opts.Theme = cfg
	}

	return Prepared{Step: step, Options: opts}, nil
}

// Catalog returns the step catalog in use.
func (o *Orchestrator) Catalog() *steps.Catalog {
	return o.catalog
}

// Registry returns the renderer registry in use.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, ErrNoRenderers
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDecorators(step *model.Step) error {
	for _, decorator := range o.decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(step); err != nil {
			return fmt.Errorf("orchestrator: decorate step: %w", err)
		}
	}
	return nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, step *model.Step) error {
	if o.transformer == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, step); err != nil {
		return fmt.Errorf("orchestrator: transform step: %w", err)
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.catalog == nil {
		o.catalog = steps.New()
	}
	mapping := o.catalog.BoolMapping()
	if o.evaluator == nil {
		o.evaluator = expr.New(expr.WithMapping(mapping))
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New(vanilla.WithBoolMapping(mapping))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
		o.registry.MustRegister(jsonstep.New(jsonstep.WithBoolMapping(mapping)))
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.themeFallbacks == nil {
		o.themeFallbacks = defaultThemeFallbacks()
	}

	o.defaultsApplied = true
}

func mergeHidden(dst, src map[string]bool) map[string]bool {
	if len(src) == 0 {
		return dst
	}
	out := make(map[string]bool, len(dst)+len(src))
	maps.Copy(out, dst)
	maps.Copy(out, src)
	return out
}

func mergeErrors(dst, src map[string][]string) map[string][]string {
	if len(src) == 0 {
		return dst
	}
	out := make(map[string][]string, len(dst)+len(src))
	for path, messages := range dst {
		out[path] = append([]string(nil), messages...)
	}
	for path, messages := range src {
		out[path] = append(out[path], messages...)
	}
	return out
}
