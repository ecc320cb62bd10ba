package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-eticket/pkg/model"
)

// NewDefaultRegistry constructs a registry pre-populated with the built-in
// components used by the vanilla renderer.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(NameInput, Descriptor{
		Renderer: templateComponentRenderer(PartialInput, TemplatePrefix+"input.tmpl"),
	})
	registry.MustRegister(NameTextarea, Descriptor{
		Renderer: templateComponentRenderer(PartialTextarea, TemplatePrefix+"textarea.tmpl"),
	})
	registry.MustRegister(NameSelect, Descriptor{
		Renderer: templateComponentRenderer(PartialSelect, TemplatePrefix+"select.tmpl"),
	})
	registry.MustRegister(NameRadio, Descriptor{
		Renderer: templateComponentRenderer(PartialRadio, TemplatePrefix+"radio.tmpl"),
	})
	// Yes/no questions share the radio markup; themes can restyle them through
	// their own partial.
	registry.MustRegister(NameBoolean, Descriptor{
		Renderer: templateComponentRenderer(PartialBoolean, TemplatePrefix+"radio.tmpl"),
	})
	registry.MustRegister(NameCheckbox, Descriptor{
		Renderer: templateComponentRenderer(PartialCheckbox, TemplatePrefix+"checkbox.tmpl"),
	})

	return registry
}

// DefaultTemplates maps each theme partial key to its embedded template.
func DefaultTemplates() map[string]string {
	return map[string]string{
		PartialInput:    TemplatePrefix + "input.tmpl",
		PartialTextarea: TemplatePrefix + "textarea.tmpl",
		PartialSelect:   TemplatePrefix + "select.tmpl",
		PartialRadio:    TemplatePrefix + "radio.tmpl",
		PartialBoolean:  TemplatePrefix + "radio.tmpl",
		PartialCheckbox: TemplatePrefix + "checkbox.tmpl",
		PartialStep:     "templates/step.tmpl",
	}
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, field model.Field, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolvedTemplate := templateName
		if data.ThemePartials != nil {
			if candidate := strings.TrimSpace(data.ThemePartials[partialKey]); candidate != "" {
				resolvedTemplate = candidate
			}
		}

		payload := map[string]any{
			"field":   field,
			"control": data.Control,
		}
		rendered, err := data.Template.RenderTemplate(resolvedTemplate, payload)
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolvedTemplate, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}
