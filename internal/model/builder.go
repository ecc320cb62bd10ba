package model

import (
	"strconv"
	"strings"

	pkgmodel "github.com/goliatone/go-eticket/pkg/model"
)

// Builder converts step definitions into render-ready steps: it resolves
// field paths, generates DOM ids and fills default labels and options.
type Builder struct {
	opts Options
}

var _ pkgmodel.Builder = (*Builder)(nil)

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	if options.IDs != nil {
		opts.IDs = options.IDs
	}
	if options.BoolLabels.True != "" || options.BoolLabels.False != "" {
		opts.BoolLabels = options.BoolLabels
	}
	if options.BoolMapping.TrueValue != "" && options.BoolMapping.FalseValue != "" {
		opts.BoolMapping = options.BoolMapping
	}
	return &Builder{opts: opts}
}

// Build resolves def for a traveler slot. The slot is ignored for steps that
// are not per traveler.
func (b *Builder) Build(def pkgmodel.StepDefinition, traveler int) (pkgmodel.Step, error) {
	if err := validateDefinition(def, traveler); err != nil {
		return pkgmodel.Step{}, err
	}
	if !def.PerTraveler {
		traveler = -1
	}

	step := pkgmodel.Step{
		ID:          def.ID,
		Title:       def.Title,
		Description: def.Description,
		PerTraveler: def.PerTraveler,
		Traveler:    traveler,
		Sections:    make([]pkgmodel.Section, 0, len(def.Sections)),
	}
	if step.Title == "" {
		step.Title = b.opts.Labeler(def.ID)
	}

	for idx, sectionDef := range def.Sections {
		base := pathBase(def, sectionDef, traveler)
		section := pkgmodel.Section{
			ID:          sectionDef.ID,
			Title:       sectionDef.Title,
			Description: sectionDef.Description,
			Fields:      make([]pkgmodel.Field, 0, len(sectionDef.Fields)),
		}
		if section.ID == "" {
			section.ID = def.ID + "-section-" + strconv.Itoa(idx+1)
		}
		for _, fieldDef := range sectionDef.Fields {
			section.Fields = append(section.Fields, b.field(def.ID, base, traveler, fieldDef))
		}
		step.Sections = append(step.Sections, section)
	}
	return step, nil
}

func (b *Builder) field(stepID, base string, traveler int, def pkgmodel.FieldDefinition) pkgmodel.Field {
	field := pkgmodel.Field{
		Path:        joinPath(base, def.Name),
		Name:        def.Name,
		ID:          b.opts.IDs.ForTraveler(traveler, stepID, def.Name, ""),
		Type:        def.Type,
		Label:       def.Label,
		Description: def.Description,
		Placeholder: def.Placeholder,
		Layout:      def.Layout,
		VisibleWhen: resolveCondition(base, def.VisibleWhen),
		UIHints:     cloneHints(def.UIHints),
	}
	if field.Type == "" {
		field.Type = pkgmodel.FieldTypeText
	}
	if field.Label == "" {
		field.Label = b.opts.Labeler(lastSegment(def.Name))
	}

	if field.Type == pkgmodel.FieldTypeBoolean && len(def.Options) == 0 {
		field.Options = b.opts.BoolMapping.Options(stepID, def.Name, b.opts.BoolLabels, traveler)
		for i := range field.Options {
			field.Options[i].ID = b.opts.IDs.ForTraveler(traveler, stepID, def.Name, field.Options[i].Value)
		}
		if field.Layout == "" {
			field.Layout = pkgmodel.LayoutHorizontal
		}
		return field
	}

	if len(def.Options) > 0 {
		field.Options = make([]pkgmodel.Option, len(def.Options))
		for i, opt := range def.Options {
			if opt.ID == "" {
				opt.ID = b.opts.IDs.ForTraveler(traveler, stepID, def.Name, opt.Value)
			}
			if opt.Label == "" {
				opt.Label = b.opts.Labeler(opt.Value)
			}
			field.Options[i] = opt
		}
	}
	if field.Type == pkgmodel.FieldTypeRadio && field.Layout == "" {
		field.Layout = pkgmodel.LayoutVertical
	}
	return field
}

func pathBase(def pkgmodel.StepDefinition, section pkgmodel.SectionDefinition, traveler int) string {
	prefix := strings.Trim(def.Prefix, ".")
	if section.Prefix != "" {
		prefix = strings.Trim(section.Prefix, ".")
	}
	if !def.PerTraveler {
		return prefix
	}
	return joinPath(pkgmodel.TravelersPrefix+"."+strconv.Itoa(traveler), prefix)
}

func joinPath(base, name string) string {
	switch {
	case base == "":
		return name
	case name == "":
		return base
	default:
		return base + "." + name
	}
}

// resolveCondition rewrites "@name" references in a visibility rule into
// full paths under base, so definitions can refer to sibling fields without
// knowing the traveler slot.
func resolveCondition(base, rule string) string {
	if !strings.Contains(rule, "@") {
		return rule
	}
	var out strings.Builder
	for i := 0; i < len(rule); i++ {
		if rule[i] != '@' {
			out.WriteByte(rule[i])
			continue
		}
		j := i + 1
		for j < len(rule) && isPathByte(rule[j]) {
			j++
		}
		out.WriteString(joinPath(base, rule[i+1:j]))
		i = j - 1
	}
	return out.String()
}

func isPathByte(c byte) bool {
	return c == '.' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func lastSegment(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

func cloneHints(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Build is a convenience wrapper using default options.
func Build(def pkgmodel.StepDefinition, traveler int) (pkgmodel.Step, error) {
	return New(Options{}).Build(def, traveler)
}
