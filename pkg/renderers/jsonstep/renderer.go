// Package jsonstep renders a wizard step as a JSON document for API clients
// and tooling. The document carries the resolved fields, the current values
// and errors, the hidden paths and the theme tokens, in declaration order.
package jsonstep

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-eticket/pkg/fieldadapter"
	"github.com/goliatone/go-eticket/pkg/model"
	"github.com/goliatone/go-eticket/pkg/render"
)

// Name is the registry name of the JSON renderer.
const Name = "json"

type Option func(*Renderer)

// WithIndent pretty-prints the document.
func WithIndent(indent string) Option {
	return func(r *Renderer) { r.indent = indent }
}

// WithBoolMapping sets the radio values used to report boolean answers.
func WithBoolMapping(mapping fieldadapter.Mapping) Option {
	return func(r *Renderer) {
		if mapping.TrueValue != "" && mapping.FalseValue != "" {
			r.mapping = mapping
		}
	}
}

// WithIncludeHidden keeps hidden fields in the document, flagged with
// "hidden": true, instead of dropping them.
func WithIncludeHidden(include bool) Option {
	return func(r *Renderer) { r.includeHidden = include }
}

// Renderer implements render.Renderer.
type Renderer struct {
	indent        string
	mapping       fieldadapter.Mapping
	includeHidden bool
}

var _ render.Renderer = (*Renderer)(nil)

func New(options ...Option) *Renderer {
	r := &Renderer{mapping: fieldadapter.YesNo}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string { return Name }

func (r *Renderer) ContentType() string { return "application/json" }

func (r *Renderer) Render(ctx context.Context, step model.Step, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc := r.document(step, opts)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if r.indent != "" {
		enc.SetIndent("", r.indent)
	}
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("json renderer: marshal step: %w", err)
	}
	return buf.Bytes(), nil
}

type stepDocument struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Traveler    *int              `json:"traveler,omitempty"`
	Action      string            `json:"action,omitempty"`
	Method      string            `json:"method"`
	Progress    *render.Progress  `json:"progress,omitempty"`
	BackURL     string            `json:"backUrl,omitempty"`
	Sections    []sectionDocument `json:"sections"`
	FormErrors  []string          `json:"formErrors,omitempty"`
	Hidden      []string          `json:"hidden,omitempty"`
	Inputs      map[string]string `json:"inputs,omitempty"`
	Theme       *themeDocument    `json:"theme,omitempty"`
}

type sectionDocument struct {
	ID          string          `json:"id"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	Fields      []fieldDocument `json:"fields"`
}

type fieldDocument struct {
	Path        string            `json:"path"`
	ID          string            `json:"id"`
	Type        model.FieldType   `json:"type"`
	Label       string            `json:"label,omitempty"`
	Description string            `json:"description,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Required    bool              `json:"required"`
	Hidden      bool              `json:"hidden,omitempty"`
	Layout      string            `json:"layout,omitempty"`
	Value       any               `json:"value,omitempty"`
	Errors      []string          `json:"errors,omitempty"`
	Options     []model.Option    `json:"options,omitempty"`
	VisibleWhen string            `json:"visibleWhen,omitempty"`
	UIHints     map[string]string `json:"uiHints,omitempty"`
}

type themeDocument struct {
	Name    string            `json:"name,omitempty"`
	Variant string            `json:"variant,omitempty"`
	Tokens  map[string]string `json:"tokens,omitempty"`
	CSSVars map[string]string `json:"cssVars,omitempty"`
}

func (r *Renderer) document(step model.Step, opts render.RenderOptions) stepDocument {
	method := opts.Method
	if method == "" {
		method = "post"
	}
	doc := stepDocument{
		ID:          step.ID,
		Title:       step.Title,
		Description: step.Description,
		Action:      opts.Action,
		Method:      method,
		Progress:    opts.Progress,
		BackURL:     opts.BackURL,
		FormErrors:  opts.FormErrors,
		Inputs:      hiddenInputs(opts.HiddenFields),
		Theme:       buildTheme(opts.Theme),
		Sections:    []sectionDocument{},
	}
	if step.PerTraveler {
		traveler := step.Traveler
		doc.Traveler = &traveler
	}

	for _, section := range step.Sections {
		out := sectionDocument{
			ID:          section.ID,
			Title:       section.Title,
			Description: section.Description,
		}
		for _, field := range section.Fields {
			hidden := opts.Hidden[field.Path]
			if hidden {
				doc.Hidden = append(doc.Hidden, field.Path)
				if !r.includeHidden {
					continue
				}
			}
			out.Fields = append(out.Fields, r.field(field, hidden, opts))
		}
		if len(out.Fields) > 0 {
			doc.Sections = append(doc.Sections, out)
		}
	}
	return doc
}

func (r *Renderer) field(field model.Field, hidden bool, opts render.RenderOptions) fieldDocument {
	out := fieldDocument{
		Path:        field.Path,
		ID:          field.ID,
		Type:        field.Type,
		Label:       field.Label,
		Description: field.Description,
		Placeholder: field.Placeholder,
		Required:    field.Required,
		Hidden:      hidden,
		Layout:      field.Layout,
		Errors:      opts.Errors[field.Path],
		Options:     field.Options,
		VisibleWhen: field.VisibleWhen,
		UIHints:     field.UIHints,
	}
	if raw, ok := render.LookupValue(opts.Values, field.Path); ok && raw != nil {
		if field.Type == model.FieldTypeBoolean {
			out.Value = r.mapping.Format(raw)
		} else {
			out.Value = raw
		}
	}
	return out
}

func buildTheme(cfg *theme.RendererConfig) *themeDocument {
	if cfg == nil {
		return nil
	}
	doc := &themeDocument{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Tokens:  cfg.Tokens,
		CSSVars: cfg.CSSVars,
	}
	if doc.Name == "" && doc.Variant == "" && len(doc.Tokens) == 0 && len(doc.CSSVars) == 0 {
		return nil
	}
	return doc
}

func hiddenInputs(fields map[string]string) map[string]string {
	if len(fields) == 0 {
		return nil
	}
	return fields
}
