package eticket

import (
	"context"

	"github.com/goliatone/go-eticket/pkg/fieldadapter"
	"github.com/goliatone/go-eticket/pkg/orchestrator"
	"github.com/goliatone/go-eticket/pkg/render"
	"github.com/goliatone/go-eticket/pkg/steps"
	theme "github.com/goliatone/go-theme"
)

// RenderOptions describes per-request overrides that renderers use to prefill
// values, surface server-side errors or show wizard progress.
type RenderOptions = render.RenderOptions

// SummarySection aliases one step of the review summary.
type SummarySection = render.SummarySection

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewCatalog builds the declaration step catalog with the embedded
// requirement registry unless options replace it.
func NewCatalog(options ...steps.Option) *steps.Catalog {
	return steps.New(options...)
}

// RenderStep builds the requested step of the declaration for one traveler
// slot and renders it with the named renderer ("vanilla" or "json"). values
// seed the inputs and drive conditional visibility.
func RenderStep(ctx context.Context, stepID string, traveler int, rendererName string, values map[string]any, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		StepID:   stepID,
		Traveler: traveler,
		Renderer: rendererName,
		Values:   values,
	})
}

// Summarize lists the answered fields of every step of a declaration with
// the given number of travelers, as shown on the review page.
func Summarize(values map[string]any, travelers int) ([]SummarySection, error) {
	wiz, err := steps.New().Wizard(travelers)
	if err != nil {
		return nil, err
	}
	return render.Summarize(wiz.Steps, values, fieldadapter.YesNo), nil
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme and variant choices are resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithThemeManifests registers go-theme manifests with the orchestrator.
func WithThemeManifests(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) orchestrator.Option {
	return orchestrator.WithThemeManifests(defaultTheme, defaultVariant, manifests...)
}

// WithThemeFallbacks forwards fallback partials used when deriving renderer
// configuration from a theme selection.
func WithThemeFallbacks(fallbacks map[string]string) orchestrator.Option {
	return orchestrator.WithThemeFallbacks(fallbacks)
}
