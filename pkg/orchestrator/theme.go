package orchestrator

import (
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-eticket/pkg/renderers/vanilla/components"
	theme "github.com/goliatone/go-theme"
)

var (
	// ErrThemeNotFound is returned by ManifestSelector for unknown themes.
	ErrThemeNotFound = errors.New("orchestrator: theme not found")
	// ErrVariantNotFound is returned for variants the manifest does not declare.
	ErrVariantNotFound = errors.New("orchestrator: theme variant not found")
)

// WithThemeSelector resolves themes through selector. Requests without a
// theme name use the default given to WithDefaultTheme.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemeManifests builds a ManifestSelector over manifests and selects
// defaultTheme/defaultVariant when a request names none.
func WithThemeManifests(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) Option {
	return func(o *Orchestrator) {
		selector, err := NewManifestSelector(manifests...)
		if err != nil {
			o.initialiseErr = err
			return
		}
		o.themeSelector = selector
		o.defaultTheme = defaultTheme
		o.defaultVariant = defaultVariant
	}
}

// WithDefaultTheme sets the theme and variant used when a request names none.
func WithDefaultTheme(name, variant string) Option {
	return func(o *Orchestrator) {
		o.defaultTheme = name
		o.defaultVariant = variant
	}
}

// WithThemeFallbacks replaces the partials used when a manifest does not
// override a template key.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = maps.Clone(fallbacks)
	}
}

func defaultThemeFallbacks() map[string]string {
	return components.DefaultTemplates()
}

func (o *Orchestrator) resolveTheme(req Request) (*theme.RendererConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}

	name := strings.TrimSpace(req.ThemeName)
	if name == "" {
		name = o.defaultTheme
	}
	variant := strings.TrimSpace(req.ThemeVariant)
	if variant == "" && name == o.defaultTheme {
		variant = o.defaultVariant
	}

	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme %q: %w", name, err)
	}
	if selection == nil {
		return nil, nil
	}
	return rendererConfig(selection, o.themeFallbacks), nil
}

// rendererConfig flattens a selection into what renderers consume: partials
// layered fallbacks → manifest → variant, tokens layered manifest → variant,
// one CSS custom property per token and an asset resolver honouring the
// variant's files first.
func rendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: maps.Clone(fallbacks),
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}
	if cfg.Partials == nil {
		cfg.Partials = map[string]string{}
	}

	manifest := selection.Manifest
	if manifest == nil {
		return cfg
	}

	variant, hasVariant := manifest.Variants[selection.Variant]

	maps.Copy(cfg.Partials, manifest.Templates)
	maps.Copy(cfg.Tokens, manifest.Tokens)
	assets := maps.Clone(manifest.Assets.Files)
	if assets == nil {
		assets = map[string]string{}
	}
	prefix := manifest.Assets.Prefix

	if hasVariant {
		maps.Copy(cfg.Partials, variant.Templates)
		maps.Copy(cfg.Tokens, variant.Tokens)
		maps.Copy(assets, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	for token, value := range cfg.Tokens {
		cfg.CSSVars["--"+token] = value
	}

	cfg.AssetURL = func(key string) string {
		file, ok := assets[key]
		if !ok || file == "" {
			return ""
		}
		if strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
			return file
		}
		if prefix == "" {
			return file
		}
		return strings.TrimRight(prefix, "/") + "/" + file
	}
	return cfg
}

// manifestRegistry is the part of the go-theme registry used to validate
// manifests on registration.
type manifestRegistry interface {
	Register(*theme.Manifest) error
}

// ManifestSelector is a theme.ThemeSelector over an in-memory set of
// manifests. An empty name selects the only manifest when exactly one is
// registered.
type ManifestSelector struct {
	mu        sync.RWMutex
	registry  manifestRegistry
	manifests map[string]*theme.Manifest
}

// NewManifestSelector registers manifests with a go-theme registry and
// indexes them by name.
func NewManifestSelector(manifests ...*theme.Manifest) (*ManifestSelector, error) {
	s := &ManifestSelector{
		registry:  theme.NewRegistry(),
		manifests: make(map[string]*theme.Manifest, len(manifests)),
	}
	for _, manifest := range manifests {
		if err := s.Register(manifest); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register adds a manifest. Names must be unique.
func (s *ManifestSelector) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return errors.New("orchestrator: theme manifest name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.manifests[manifest.Name]; exists {
		return fmt.Errorf("orchestrator: theme %q already registered", manifest.Name)
	}
	if err := s.registry.Register(manifest); err != nil {
		return fmt.Errorf("orchestrator: register theme %q: %w", manifest.Name, err)
	}
	s.manifests[manifest.Name] = manifest
	return nil
}

// Names lists registered theme names, sorted.
func (s *ManifestSelector) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select implements theme.ThemeSelector. Query options are accepted for
// interface compatibility and ignored.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if name == "" && len(s.manifests) == 1 {
		for only := range s.manifests {
			name = only
		}
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q in theme %q", ErrVariantNotFound, variant, name)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)
