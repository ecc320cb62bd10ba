package vanilla

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/goliatone/go-eticket/pkg/fieldadapter"
	"github.com/goliatone/go-eticket/pkg/model"
	"github.com/goliatone/go-eticket/pkg/render"
	rendertemplate "github.com/goliatone/go-eticket/pkg/render/template"
	gotemplate "github.com/goliatone/go-eticket/pkg/render/template/gotemplate"
	"github.com/goliatone/go-eticket/pkg/renderers/vanilla/components"
)

// Name is the registry name of the HTML renderer.
const Name = "vanilla"

var errNoTemplates = errors.New("vanilla renderer: template renderer is nil")

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	mapping          fieldadapter.Mapping
	stylesheets      []string
	inlineStyles     bool
	travelerLabel    string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the default component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithBoolMapping sets the radio values used for yes/no questions.
func WithBoolMapping(mapping fieldadapter.Mapping) Option {
	return func(cfg *config) {
		if mapping.TrueValue != "" && mapping.FalseValue != "" {
			cfg.mapping = mapping
		}
	}
}

// WithStylesheet links an additional stylesheet on every page.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		if href = strings.TrimSpace(href); href != "" {
			cfg.stylesheets = append(cfg.stylesheets, href)
		}
	}
}

// WithDefaultStyles inlines the embedded stylesheet into the page.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

// WithTravelerLabel sets the heading prefix for per-traveler steps. The
// traveler's 1-based position is appended.
func WithTravelerLabel(label string) Option {
	return func(cfg *config) {
		cfg.travelerLabel = strings.TrimSpace(label)
	}
}

// Renderer renders one wizard step as an HTML form.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	cfg       config
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:    TemplatesFS(),
		mapping:       fieldadapter.YesNo,
		travelerLabel: "Traveler",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, cfg: cfg}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes the step's visible sections. Sections whose fields are all
// hidden are omitted.
func (r *Renderer) Render(ctx context.Context, step model.Step, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, errNoTemplates
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fields := newComponentRenderer(r.templates, r.cfg.registry, r.cfg.mapping, opts)

	sections := make([]map[string]any, 0, len(step.Sections))
	for _, section := range step.Sections {
		var markup strings.Builder
		visible := 0
		for _, field := range section.Fields {
			if opts.Hidden[field.Path] {
				continue
			}
			out, err := fields.render(field)
			if err != nil {
				return nil, fmt.Errorf("vanilla renderer: %w", err)
			}
			markup.WriteString(out)
			visible++
		}
		if visible == 0 {
			continue
		}
		sections = append(sections, map[string]any{
			"id":          section.ID,
			"title":       section.Title,
			"description": sanitizeText(section.Description),
			"fields":      markup.String(),
		})
	}

	payload := map[string]any{
		"step": map[string]any{
			"id":          step.ID,
			"title":       step.Title,
			"description": sanitizeText(step.Description),
			"traveler":    r.travelerHeading(step),
		},
		"sections":     sections,
		"form":         formAttributes(opts),
		"hidden":       hiddenInputs(opts.HiddenFields),
		"form_errors":  opts.FormErrors,
		"progress":     opts.Progress,
		"back_url":     opts.BackURL,
		"submit_label": submitLabel(opts.SubmitLabel),
		"classes":      Classes(),
		"stylesheets":  r.stylesheets(opts, fields.stylesheets()),
	}
	if r.cfg.inlineStyles {
		payload["inline_styles"] = defaultStylesheet()
	}
	if opts.Theme != nil {
		payload["theme"] = map[string]any{
			"name":     opts.Theme.Theme,
			"variant":  opts.Theme.Variant,
			"css_vars": opts.Theme.CSSVars,
		}
	}

	result, err := r.templates.RenderTemplate(r.stepTemplate(opts), payload)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) stepTemplate(opts render.RenderOptions) string {
	if opts.Theme != nil {
		if partial := strings.TrimSpace(opts.Theme.Partials[components.PartialStep]); partial != "" {
			return partial
		}
	}
	return "templates/step.tmpl"
}

func (r *Renderer) travelerHeading(step model.Step) string {
	if !step.PerTraveler || step.Traveler < 0 {
		return ""
	}
	return r.cfg.travelerLabel + " " + strconv.Itoa(step.Traveler+1)
}

// stylesheets orders configured links first, then the theme stylesheet, then
// component stylesheets.
func (r *Renderer) stylesheets(opts render.RenderOptions, componentSheets []string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(href string) {
		if href == "" {
			return
		}
		if _, ok := seen[href]; ok {
			return
		}
		seen[href] = struct{}{}
		out = append(out, href)
	}
	for _, href := range r.cfg.stylesheets {
		add(href)
	}
	if opts.Theme != nil && opts.Theme.AssetURL != nil {
		add(opts.Theme.AssetURL(StylesheetAssetKey))
	}
	for _, href := range componentSheets {
		add(href)
	}
	return out
}

func formAttributes(opts render.RenderOptions) map[string]any {
	method := strings.ToUpper(strings.TrimSpace(opts.Method))
	if method != "GET" {
		method = "POST"
	}
	return map[string]any{
		"action": strings.TrimSpace(opts.Action),
		"method": method,
	}
}

func hiddenInputs(fields map[string]string) []map[string]string {
	sorted := render.SortedHiddenFields(fields)
	out := make([]map[string]string, 0, len(sorted))
	for _, field := range sorted {
		out = append(out, map[string]string{"name": field.Name, "value": field.Value})
	}
	return out
}

func submitLabel(label string) string {
	if label = strings.TrimSpace(label); label != "" {
		return label
	}
	return "Continue"
}
