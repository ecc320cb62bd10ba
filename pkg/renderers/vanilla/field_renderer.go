package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-eticket/pkg/fieldadapter"
	"github.com/goliatone/go-eticket/pkg/ids"
	"github.com/goliatone/go-eticket/pkg/model"
	"github.com/goliatone/go-eticket/pkg/render"
	"github.com/goliatone/go-eticket/pkg/render/template"
	"github.com/goliatone/go-eticket/pkg/renderers/vanilla/components"
)

// componentRenderer renders the fields of one step for one request.
type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	mapping   fieldadapter.Mapping
	partials  map[string]string
	values    map[string]any
	errors    map[string][]string

	usedComponents map[string]struct{}
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, mapping fieldadapter.Mapping, opts render.RenderOptions) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	var partials map[string]string
	if opts.Theme != nil {
		partials = opts.Theme.Partials
	}
	return &componentRenderer{
		templates:      templates,
		registry:       registry,
		mapping:        mapping,
		partials:       partials,
		values:         opts.Values,
		errors:         opts.Errors,
		usedComponents: make(map[string]struct{}),
	}
}

func (r *componentRenderer) render(field model.Field) (string, error) {
	componentName := resolveComponentName(field)

	descriptor, ok := r.registry.Descriptor(componentName)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", componentName, field.Path)
	}

	errs := r.errors[field.Path]
	data := components.ComponentData{
		Template:      r.templates,
		Control:       r.control(field, componentName, errs),
		ThemePartials: r.partials,
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, field, data); err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", componentName, field.Path, err)
	}

	r.usedComponents[componentName] = struct{}{}

	return buildFieldMarkup(field, componentName, control.String(), errs), nil
}

func (r *componentRenderer) control(field model.Field, componentName string, errs []string) components.Control {
	value := r.value(field)
	ctrl := components.Control{
		ID:          field.ID,
		Name:        field.Path,
		InputType:   inputType(field.Type),
		Value:       value,
		Invalid:     len(errs) > 0,
		LabelID:     ids.LabelID(field.ID),
		DescribedBy: describedBy(field, len(errs) > 0),
	}
	if componentName == components.NameCheckbox {
		ctrl.Checked = isChecked(value)
	}
	for _, option := range field.Options {
		oc := components.OptionControl{
			ID:          option.ID,
			Value:       option.Value,
			Label:       option.Label,
			Description: option.Description,
			Icon:        sanitizeIcon(option.Icon),
			Checked:     value != "" && option.Value == value,
		}
		if oc.Description != "" {
			oc.DescriptionID = ids.DescriptionID(option.ID)
		}
		ctrl.Options = append(ctrl.Options, oc)
	}
	return ctrl
}

// value formats the stored value for the control. Yes/no questions store
// booleans, so their value goes through the adapter mapping to select the
// matching radio option.
func (r *componentRenderer) value(field model.Field) string {
	if field.Type == model.FieldTypeBoolean {
		raw, ok := render.LookupValue(r.values, field.Path)
		if !ok {
			return ""
		}
		s, isString := raw.(string)
		if !isString {
			return r.mapping.Format(raw)
		}
		if parsed, err := strconv.ParseBool(s); err == nil {
			return r.mapping.Format(parsed)
		}
		if s == r.mapping.TrueValue || s == r.mapping.FalseValue {
			return s
		}
		return ""
	}
	return render.StringValue(r.values, field.Path)
}

func (r *componentRenderer) stylesheets() []string {
	if r.registry == nil || len(r.usedComponents) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.usedComponents))
	for name := range r.usedComponents {
		names = append(names, name)
	}
	slices.Sort(names)
	return r.registry.Stylesheets(names)
}

func resolveComponentName(field model.Field) string {
	if name := strings.TrimSpace(field.UIHints["component"]); name != "" {
		return name
	}
	switch field.Type {
	case model.FieldTypeTextarea:
		return components.NameTextarea
	case model.FieldTypeSelect:
		return components.NameSelect
	case model.FieldTypeRadio:
		return components.NameRadio
	case model.FieldTypeBoolean:
		return components.NameBoolean
	case model.FieldTypeCheckbox:
		return components.NameCheckbox
	default:
		return components.NameInput
	}
}

func inputType(t model.FieldType) string {
	switch t {
	case model.FieldTypeEmail, model.FieldTypeTel, model.FieldTypeDate:
		return string(t)
	default:
		return "text"
	}
}

func isChecked(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "on", "yes", "1":
		return true
	default:
		return false
	}
}

// buildFieldMarkup wraps a control in its chrome. Group components (radio,
// yes/no, checkbox) label themselves, so only the description and error list
// are added around them.
func buildFieldMarkup(field model.Field, componentName, control string, errs []string) string {
	var builder strings.Builder
	builder.Grow(len(control) + 256)

	builder.WriteString(`<div class="`)
	builder.WriteString(string(ClassField))
	if cls := sanitizeClassList(field.UIHints["class"]); cls != "" {
		builder.WriteByte(' ')
		builder.WriteString(html.EscapeString(cls))
	}
	builder.WriteString(`" data-component="`)
	builder.WriteString(html.EscapeString(componentName))
	builder.WriteString(`" data-path="`)
	builder.WriteString(html.EscapeString(field.Path))
	builder.WriteString(`"`)
	if len(errs) > 0 {
		builder.WriteString(` data-invalid="true"`)
	}
	builder.WriteString(">\n")

	if !componentLabelsItself(componentName) && strings.TrimSpace(field.Label) != "" {
		builder.WriteString(`    <label id="`)
		builder.WriteString(html.EscapeString(ids.LabelID(field.ID)))
		builder.WriteString(`" for="`)
		builder.WriteString(html.EscapeString(field.ID))
		builder.WriteString(`" class="`)
		builder.WriteString(string(ClassLabel))
		builder.WriteString(`">`)
		builder.WriteString(html.EscapeString(field.Label))
		if field.Required {
			builder.WriteString(`<span class="et-required" aria-hidden="true"> *</span>`)
		}
		builder.WriteString("</label>\n")
	}

	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString("    ")
		builder.WriteString(line)
		builder.WriteByte('\n')
	}

	if desc := sanitizeText(field.Description); desc != "" {
		builder.WriteString(`    <p id="`)
		builder.WriteString(html.EscapeString(ids.DescriptionID(field.ID)))
		builder.WriteString(`" class="`)
		builder.WriteString(string(ClassDescription))
		builder.WriteString(`">`)
		builder.WriteString(desc)
		builder.WriteString("</p>\n")
	}

	if len(errs) > 0 {
		builder.WriteString(`    <ul id="`)
		builder.WriteString(html.EscapeString(ids.ErrorID(field.ID)))
		builder.WriteString(`" class="`)
		builder.WriteString(string(ClassFieldErrors))
		builder.WriteString(`" role="alert">`)
		for _, msg := range errs {
			builder.WriteString(`<li>`)
			builder.WriteString(html.EscapeString(msg))
			builder.WriteString(`</li>`)
		}
		builder.WriteString("</ul>\n")
	}

	builder.WriteString("</div>\n")
	return builder.String()
}
