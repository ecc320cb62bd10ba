package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-eticket/pkg/fieldadapter"
	"github.com/goliatone/go-eticket/pkg/formstate"
	"github.com/goliatone/go-eticket/pkg/model"
	"github.com/goliatone/go-eticket/pkg/render"
	"github.com/goliatone/go-eticket/pkg/validation"
	"github.com/goliatone/go-eticket/pkg/visibility"
	"github.com/goliatone/go-eticket/pkg/visibility/expr"
)

// Name is the registry name of the terminal renderer.
const Name = "tui"

// Renderer implements render.Renderer for terminal sessions: it prompts for
// every visible field of a step and serializes the answers.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	rules             *validation.Set
	evaluator         visibility.Evaluator
	mapping           fieldadapter.Mapping
	submitTransformer SubmitTransformer
	theme             Theme
	markdownStyle     string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output,
// declaration validators).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat:  OutputFormatJSON,
		mapping:       fieldadapter.YesNo,
		markdownStyle: "notty",
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	if r.rules == nil {
		r.rules = validation.DeclarationSet()
	}
	if r.evaluator == nil {
		r.evaluator = expr.New(expr.WithMapping(r.mapping))
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	case OutputFormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for the step seeded with opts.Values and returns the
// serialized values.
func (r *Renderer) Render(ctx context.Context, step model.Step, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	form := formstate.New(
		formstate.WithValues(opts.Values),
		formstate.WithRules(r.rules),
	)
	for path, messages := range opts.Errors {
		form.SetErrors(path, messages...)
	}
	if err := r.Collect(ctx, step, form); err != nil {
		return nil, err
	}

	values := form.Values()
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}

	return r.serialize(step, values)
}

// Collect prompts for every visible field of step, writing answers into
// form. Visibility is re-evaluated before each field so follow-up questions
// appear as soon as the answer that unlocks them is given.
func (r *Renderer) Collect(ctx context.Context, step model.Step, form *formstate.Form) error {
	if r.driver == nil {
		return ErrNoDriver
	}
	if err := r.info(ctx, r.theme.InfoPrefix+stepHeading(step)); err != nil {
		return err
	}

	for _, section := range step.Sections {
		announced := false
		for _, field := range section.Fields {
			visible, err := r.visible(field, form)
			if err != nil {
				return err
			}
			if !visible {
				continue
			}
			if !announced && section.Title != "" {
				if err := r.info(ctx, r.theme.InfoPrefix+section.Title); err != nil {
					return err
				}
				announced = true
			}
			if err := r.promptField(ctx, field, form); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) visible(field model.Field, form *formstate.Form) (bool, error) {
	if strings.TrimSpace(field.VisibleWhen) == "" {
		return true, nil
	}
	ok, err := r.evaluator.Eval(field.Path, field.VisibleWhen, visibility.Context{Values: form.Values()})
	if err != nil {
		return false, fmt.Errorf("tui: field %s: %w", field.Path, err)
	}
	return ok, nil
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, form *formstate.Form) error {
	for _, message := range form.ErrorsFor(field.Path) {
		if err := r.info(ctx, r.theme.ErrorPrefix+message); err != nil {
			return err
		}
	}
	switch field.Type {
	case model.FieldTypeBoolean:
		return r.promptBoolean(ctx, field, form)
	case model.FieldTypeCheckbox:
		return r.promptCheckbox(ctx, field, form)
	case model.FieldTypeSelect, model.FieldTypeRadio:
		return r.promptChoice(ctx, field, form)
	case model.FieldTypeTextarea:
		return r.promptText(ctx, field, form, true)
	default:
		return r.promptText(ctx, field, form, false)
	}
}

func (r *Renderer) promptText(ctx context.Context, field model.Field, form *formstate.Form, multiline bool) error {
	fd := form.Field(field.Path)
	label := r.label(field)
	validator := func(answer string) error {
		return resultErr(r.rules.Validate(field.Path, strings.TrimSpace(answer)))
	}

	for {
		var (
			response string
			err      error
		)
		if multiline {
			response, err = r.driver.TextArea(ctx, TextAreaConfig{
				Message: label,
				Default: fd.String(),
				Help:    help(field),
			})
		} else {
			response, err = r.driver.Input(ctx, InputConfig{
				Message:   label,
				Default:   fd.String(),
				Help:      help(field),
				Validator: validator,
			})
		}
		if err != nil {
			return err
		}

		response = strings.TrimSpace(response)
		if response == "" {
			fd.Unset()
		} else if err := fd.SetValue(response); err != nil {
			return err
		}
		if ok, err := r.check(ctx, form, field.Path); err != nil || ok {
			return err
		}
	}
}

func (r *Renderer) promptChoice(ctx context.Context, field model.Field, form *formstate.Form) error {
	if len(field.Options) == 0 {
		return fmt.Errorf("%w: %s", ErrNoOptions, field.Path)
	}
	fd := form.Field(field.Path)
	labels := optionLabels(field.Options)

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      r.label(field),
			Options:      labels,
			DefaultIndex: optionIndex(field.Options, fd.String()),
			Help:         help(field),
			PageSize:     12,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(field.Options) {
			if err := r.info(ctx, r.theme.ErrorPrefix+"Please pick one of the listed options."); err != nil {
				return err
			}
			continue
		}
		if err := fd.SetValue(field.Options[idx].Value); err != nil {
			return err
		}
		if ok, err := r.check(ctx, form, field.Path); err != nil || ok {
			return err
		}
	}
}

// promptBoolean asks a yes/no question as a two-option choice and stores the
// answer as a boolean through the field adapter.
func (r *Renderer) promptBoolean(ctx context.Context, field model.Field, form *formstate.Form) error {
	options := field.Options
	if len(options) == 0 {
		options = r.mapping.Options("", "", fieldadapter.DefaultLabels(), -1)
	}
	adapter := fieldadapter.NewBool(form.Field(field.Path), r.mapping)
	labels := optionLabels(options)

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      r.label(field),
			Options:      labels,
			DefaultIndex: optionIndex(options, adapter.Value()),
			Help:         help(field),
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			continue
		}
		if err := adapter.SetValue(options[idx].Value); err != nil {
			return err
		}
		if ok, err := r.check(ctx, form, field.Path); err != nil || ok {
			return err
		}
	}
}

func (r *Renderer) promptCheckbox(ctx context.Context, field model.Field, form *formstate.Form) error {
	fd := form.Field(field.Path)
	current, _ := fd.Bool()

	for {
		answer, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: r.label(field),
			Default: current,
			Help:    help(field),
		})
		if err != nil {
			return err
		}
		if err := fd.SetBool(answer); err != nil {
			return err
		}
		if ok, err := r.check(ctx, form, field.Path); err != nil || ok {
			return err
		}
	}
}

// check validates path through the form and reports the failure to the
// user. ok is false when the question must be asked again.
func (r *Renderer) check(ctx context.Context, form *formstate.Form, path string) (bool, error) {
	res := form.Validate(path)
	if res.Valid {
		return true, nil
	}
	return false, r.info(ctx, r.theme.ErrorPrefix+res.Message)
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	if strings.TrimSpace(msg) == "" {
		return nil
	}
	return r.driver.Info(ctx, msg)
}

func (r *Renderer) label(field model.Field) string {
	label := field.Label
	if label == "" {
		label = field.Name
	}
	if field.Required {
		label += " *"
	}
	return r.theme.PromptPrefix + label
}

func (r *Renderer) serialize(step model.Step, values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	case OutputFormatMarkdown:
		out, err := RenderMarkdown(Markdown([]model.Step{step}, values, r.mapping), r.markdownStyle, 0)
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	default:
		return json.Marshal(values)
	}
}

func stepHeading(step model.Step) string {
	if step.PerTraveler && step.Traveler >= 0 {
		return fmt.Sprintf("%s (traveler %d)", step.Title, step.Traveler+1)
	}
	return step.Title
}

func help(field model.Field) string {
	return stripTags(field.Description)
}

func resultErr(res validation.Result) error {
	if res.Valid {
		return nil
	}
	return errors.New(res.Message)
}

func optionLabels(options []model.Option) []string {
	out := make([]string, 0, len(options))
	for _, option := range options {
		label := option.Label
		if label == "" {
			label = option.Value
		}
		out = append(out, label)
	}
	return out
}

func optionIndex(options []model.Option, value string) int {
	if value == "" {
		return -1
	}
	for i, option := range options {
		if option.Value == value {
			return i
		}
	}
	return -1
}

// stripTags removes inline markup from descriptions for terminal output.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>' && inTag:
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	for path, value := range formstate.Flatten(values) {
		flattened.Set(path, fmt.Sprint(value))
	}
	return flattened.Encode()
}

func prettyPrint(values map[string]any) string {
	flat := formstate.Flatten(values)
	var b strings.Builder
	for _, path := range formstate.SortedKeys(flat) {
		fmt.Fprintf(&b, "%s: %v\n", path, flat[path])
	}
	return b.String()
}
