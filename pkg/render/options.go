package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request data that renderers use to customise
// their output without mutating the step produced by the catalog.
type RenderOptions struct {
	// Action is the URL the step form posts to. Empty renders no action
	// attribute so the browser posts back to the current URL.
	Action string
	// Method defaults to POST.
	Method string
	// Values pre-populates controls. Keys are dotted field paths; nested maps
	// as produced by formstate.Form.Values are accepted as well.
	Values map[string]any
	// Errors surfaces validation feedback keyed by field path.
	Errors map[string][]string
	// FormErrors are messages that could not be attributed to a field.
	FormErrors []string
	// Hidden lists field paths whose visibility condition evaluated false.
	// Renderers skip them entirely.
	Hidden map[string]bool
	// HiddenFields are emitted as <input type="hidden">, e.g. CSRF tokens.
	HiddenFields map[string]string
	// Theme carries the partials, tokens and asset resolver picked by the
	// orchestrator.
	Theme *theme.RendererConfig
	// Progress, when set, renders the wizard position above the step.
	Progress *Progress
	// BackURL renders a secondary "Back" link when non-empty.
	BackURL string
	// SubmitLabel overrides the primary button copy.
	SubmitLabel string
}

// Progress mirrors wizard.Progress without importing the wizard package.
type Progress struct {
	Step    int `json:"step"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}
