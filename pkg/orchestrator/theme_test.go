package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-eticket/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-eticket/pkg/steps"
	theme "github.com/goliatone/go-theme"
)

type selectorCall struct {
	name    string
	variant string
}

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
	calls     []selectorCall
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, selectorCall{name: name, variant: variant})
	return s.selection, s.err
}

func acmeManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand": "#123456",
		},
		Templates: map[string]string{
			components.PartialInput: "themes/acme/input.tmpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files: map[string]string{
				"vanilla.stylesheet": "theme.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"brand": "#654321",
				},
				Templates: map[string]string{
					components.PartialCheckbox: "themes/acme/dark/checkbox.tmpl",
				},
				Assets: theme.Assets{
					Files: map[string]string{
						"vanilla.logo": "logo.dark.svg",
					},
				},
			},
		},
	}
}

func TestGenerate_PassesThemeConfigToRenderer(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens:  map[string]string{"brand": "#123456"},
	}
	selector := &stubThemeSelector{selection: &theme.Selection{
		Theme:    "acme",
		Variant:  "custom-variant",
		Manifest: manifest,
	}}

	orch, renderer := newCaptureOrchestrator(t, WithThemeSelector(selector))
	_, err := orch.Generate(context.Background(), Request{
		StepID:       steps.ContactInfoID,
		ThemeName:    "custom-theme",
		ThemeVariant: "custom-variant",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(selector.calls) != 1 {
		t.Fatalf("expected selector called once, got %d", len(selector.calls))
	}
	if selector.calls[0] != (selectorCall{name: "custom-theme", variant: "custom-variant"}) {
		t.Fatalf("unexpected selector args: %+v", selector.calls[0])
	}

	cfg := renderer.options.Theme
	if cfg == nil {
		t.Fatalf("expected theme config passed to renderer")
	}
	if cfg.Theme != "acme" || cfg.Variant != "custom-variant" {
		t.Fatalf("unexpected selection in config: %s/%s", cfg.Theme, cfg.Variant)
	}
	if got := cfg.Partials[components.PartialInput]; got != defaultThemeFallbacks()[components.PartialInput] {
		t.Fatalf("partials not merged with fallbacks: got %s", got)
	}
	if cfg.Tokens["brand"] != "#123456" || cfg.CSSVars["--brand"] != "#123456" {
		t.Fatalf("tokens not propagated: %#v %#v", cfg.Tokens, cfg.CSSVars)
	}
	if cfg.AssetURL == nil || cfg.AssetURL("missing") != "" {
		t.Fatalf("expected AssetURL resolver returning empty for unknown keys")
	}
}

func TestGenerate_ThemeManifestsUseDefaults(t *testing.T) {
	orch, renderer := newCaptureOrchestrator(t, WithThemeManifests("acme", "dark", acmeManifest()))

	if _, err := orch.Generate(context.Background(), Request{StepID: steps.ContactInfoID}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	cfg := renderer.options.Theme
	if cfg == nil {
		t.Fatalf("expected theme config passed to renderer")
	}
	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("unexpected selection %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.Partials[components.PartialInput] != "themes/acme/input.tmpl" {
		t.Fatalf("expected base template override, got %s", cfg.Partials[components.PartialInput])
	}
	if cfg.Partials[components.PartialCheckbox] != "themes/acme/dark/checkbox.tmpl" {
		t.Fatalf("expected variant template override, got %s", cfg.Partials[components.PartialCheckbox])
	}
	if cfg.Partials[components.PartialTextarea] != defaultThemeFallbacks()[components.PartialTextarea] {
		t.Fatalf("fallback partial not applied for textarea")
	}
	if cfg.Tokens["brand"] != "#654321" || cfg.CSSVars["--brand"] != "#654321" {
		t.Fatalf("variant tokens not applied: %#v", cfg.Tokens)
	}
	if got := cfg.AssetURL("vanilla.logo"); got != "/assets/themes/acme/logo.dark.svg" {
		t.Fatalf("unexpected variant asset url: %s", got)
	}
	if got := cfg.AssetURL("vanilla.stylesheet"); got != "/assets/themes/acme/theme.css" {
		t.Fatalf("unexpected stylesheet asset url: %s", got)
	}
}

func TestGenerate_ThemeFallbacksOverride(t *testing.T) {
	fallbacks := map[string]string{components.PartialInput: "custom/input.tmpl"}
	orch, renderer := newCaptureOrchestrator(t,
		WithThemeManifests("acme", "", acmeManifest()),
		WithThemeFallbacks(fallbacks),
	)

	if _, err := orch.Generate(context.Background(), Request{StepID: steps.ContactInfoID}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	cfg := renderer.options.Theme
	if _, ok := cfg.Partials[components.PartialTextarea]; ok {
		t.Fatalf("custom fallbacks replace the defaults")
	}
	if cfg.Tokens["brand"] != "#123456" {
		t.Fatalf("base tokens expected without a variant, got %s", cfg.Tokens["brand"])
	}
}

func TestGenerate_UnknownThemeFails(t *testing.T) {
	orch, _ := newCaptureOrchestrator(t, WithThemeManifests("acme", "", acmeManifest()))

	_, err := orch.Generate(context.Background(), Request{StepID: steps.ContactInfoID, ThemeName: "nope"})
	if !errors.Is(err, ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
	_, err = orch.Generate(context.Background(), Request{StepID: steps.ContactInfoID, ThemeVariant: "neon"})
	if !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("expected ErrVariantNotFound, got %v", err)
	}
}

func TestManifestSelector_Register(t *testing.T) {
	selector, err := NewManifestSelector(acmeManifest())
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}
	if err := selector.Register(acmeManifest()); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := selector.Register(&theme.Manifest{}); err == nil {
		t.Fatalf("expected nameless manifest to fail")
	}

	selection, err := selector.Select("", "")
	if err != nil {
		t.Fatalf("select only theme: %v", err)
	}
	if selection.Theme != "acme" || selection.Manifest == nil {
		t.Fatalf("unexpected selection %+v", selection)
	}
	if got := selector.Names(); len(got) != 1 || got[0] != "acme" {
		t.Fatalf("unexpected names %v", got)
	}
}
