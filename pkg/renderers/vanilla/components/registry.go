package components

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-eticket/pkg/model"
	rendertemplate "github.com/goliatone/go-eticket/pkg/render/template"
)

// Renderer writes the control markup for a field into buf. The surrounding
// chrome (label, description, errors) is written by the vanilla renderer.
type Renderer func(buf *bytes.Buffer, field model.Field, data ComponentData) error

// ComponentData carries the template engine, the resolved control state and
// the active theme partials.
type ComponentData struct {
	Template      rendertemplate.TemplateRenderer
	Control       Control
	ThemePartials map[string]string
}

// Control is the per-request state of a field: its current value, errors and
// the ARIA ids wiring it to its label, description and error list.
type Control struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	InputType   string          `json:"input_type,omitempty"`
	Value       string          `json:"value"`
	Checked     bool            `json:"checked,omitempty"`
	Invalid     bool            `json:"invalid,omitempty"`
	LabelID     string          `json:"label_id"`
	DescribedBy string          `json:"described_by,omitempty"`
	Options     []OptionControl `json:"options,omitempty"`
}

// OptionControl is a radio/select option with its selection state. Icon is
// sanitised SVG markup; Description is plain text.
type OptionControl struct {
	ID            string `json:"id"`
	Value         string `json:"value"`
	Label         string `json:"label"`
	Description   string `json:"description,omitempty"`
	DescriptionID string `json:"description_id,omitempty"`
	Icon          string `json:"icon,omitempty"`
	Checked       bool   `json:"checked,omitempty"`
}

// Descriptor bundles the renderer implementation with the stylesheets it
// needs linked once per page.
type Descriptor struct {
	Name        string
	Renderer    Renderer
	Stylesheets []string
}

// Registry tracks component descriptors keyed by name. Callers can register new
// components or replace the defaults.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Descriptor
}

// ErrComponentName is returned when registering a component without a name.
var ErrComponentName = errors.New("components: component name is required")

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		components: make(map[string]Descriptor),
	}
}

// Clone returns a deep copy of the registry to allow isolated mutations.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := New()
	for name, descriptor := range r.components {
		cloned.components[name] = cloneDescriptor(descriptor)
	}
	return cloned
}

// Register associates a descriptor with the provided name. Existing entries are
// replaced.
func (r *Registry) Register(name string, descriptor Descriptor) error {
	if name = normalize(name); name == "" {
		return ErrComponentName
	}
	if descriptor.Renderer == nil {
		return fmt.Errorf("components: renderer for %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	descriptor.Name = name
	r.components[name] = cloneDescriptor(descriptor)
	return nil
}

// MustRegister mirrors Register but panics on error, simplifying default registry
// setup.
func (r *Registry) MustRegister(name string, descriptor Descriptor) {
	if err := r.Register(name, descriptor); err != nil {
		panic(err)
	}
}

// Descriptor fetches a descriptor by name.
func (r *Registry) Descriptor(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.components[normalize(name)]
	if !ok {
		return Descriptor{}, false
	}
	return cloneDescriptor(descriptor), true
}

// Names returns a sorted slice of registered component names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Stylesheets returns the deduplicated stylesheets of the named components in
// order of first use.
func (r *Registry) Stylesheets(names []string) []string {
	if len(names) == 0 {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var stylesheets []string
	seenStyles := make(map[string]struct{})

	for _, name := range names {
		descriptor, ok := r.components[normalize(name)]
		if !ok {
			continue
		}
		for _, href := range descriptor.Stylesheets {
			if href == "" {
				continue
			}
			if _, exists := seenStyles[href]; exists {
				continue
			}
			seenStyles[href] = struct{}{}
			stylesheets = append(stylesheets, href)
		}
	}
	return stylesheets
}

func cloneDescriptor(src Descriptor) Descriptor {
	return Descriptor{
		Name:        src.Name,
		Renderer:    src.Renderer,
		Stylesheets: slices.Clone(src.Stylesheets),
	}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
