package tui

import (
	"github.com/goliatone/go-eticket/pkg/fieldadapter"
	"github.com/goliatone/go-eticket/pkg/validation"
	"github.com/goliatone/go-eticket/pkg/visibility"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits the nested values as application/json.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits dotted keys as
	// application/x-www-form-urlencoded, the shape the HTML step forms post.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits one "path: value" line per answer.
	OutputFormatPrettyText OutputFormat = "pretty"
	// OutputFormatMarkdown emits the step summary rendered by glamour.
	OutputFormatMarkdown OutputFormat = "markdown"
)

// Theme captures message prefixes applied to prompts, section headers and
// validation feedback.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

// SubmitTransformer mutates collected values before serialization.
type SubmitTransformer func(map[string]any) (map[string]any, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithRules replaces the declaration validator set.
func WithRules(rules *validation.Set) Option {
	return func(r *Renderer) {
		if rules != nil {
			r.rules = rules
		}
	}
}

// WithEvaluator replaces the visibility evaluator used to skip conditional
// questions while prompting.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(r *Renderer) {
		if evaluator != nil {
			r.evaluator = evaluator
		}
	}
}

// WithBoolMapping sets the option values yes/no questions are stored through.
func WithBoolMapping(mapping fieldadapter.Mapping) Option {
	return func(r *Renderer) {
		if mapping.TrueValue != "" && mapping.FalseValue != "" {
			r.mapping = mapping
		}
	}
}

// WithSubmitTransformer allows callers to mutate collected values prior to
// serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithMarkdownStyle selects the glamour style for OutputFormatMarkdown
// ("dark", "light", "notty", ...).
func WithMarkdownStyle(style string) Option {
	return func(r *Renderer) {
		if style != "" {
			r.markdownStyle = style
		}
	}
}
