package model

// TravelersPrefix is the path segment under which per-traveler values live.
const TravelersPrefix = "travelers"

// FieldDefinition declares a field relative to its step prefix.
type FieldDefinition struct {
	Name        string
	Type        FieldType
	Label       string
	Description string
	Placeholder string
	Layout      string
	Options     []Option
	VisibleWhen string
	UIHints     map[string]string
}

// SectionDefinition declares a group of fields. A non-empty Prefix replaces
// the step prefix for the section's fields.
type SectionDefinition struct {
	ID          string
	Title       string
	Description string
	Prefix      string
	Fields      []FieldDefinition
}

// StepDefinition declares a wizard step. Prefix is prepended to every field
// name to build its path; per-traveler steps are additionally nested under
// "travelers.<index>".
type StepDefinition struct {
	ID          string
	Title       string
	Description string
	Prefix      string
	PerTraveler bool
	Sections    []SectionDefinition
}
