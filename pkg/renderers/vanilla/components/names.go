package components

// Canonical component names used by the vanilla renderer and default registry.
const (
	NameInput    = "input"
	NameTextarea = "textarea"
	NameSelect   = "select"
	NameRadio    = "radio"
	NameBoolean  = "boolean"
	NameCheckbox = "checkbox"
)

// Theme partial keys consulted before the embedded component templates.
const (
	PartialInput    = "forms.input"
	PartialTextarea = "forms.textarea"
	PartialSelect   = "forms.select"
	PartialRadio    = "forms.radio"
	PartialBoolean  = "forms.boolean"
	PartialCheckbox = "forms.checkbox"
	PartialStep     = "forms.step"
)

// TemplatePrefix is the embedded directory holding component templates.
const TemplatePrefix = "templates/components/"
