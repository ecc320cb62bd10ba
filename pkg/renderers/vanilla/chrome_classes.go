package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassForm        ChromeClass = "et-form"
	ClassHeader      ChromeClass = "et-header"
	ClassProgress    ChromeClass = "et-progress"
	ClassSection     ChromeClass = "et-section"
	ClassField       ChromeClass = "et-field"
	ClassLabel       ChromeClass = "et-label"
	ClassDescription ChromeClass = "et-description"
	ClassFieldErrors ChromeClass = "et-field-errors"
	ClassActions     ChromeClass = "et-actions"
	ClassErrors      ChromeClass = "et-errors"
)

// Classes returns the chrome classes keyed by the names the step template
// uses.
func Classes() map[string]string {
	return map[string]string{
		"form":     string(ClassForm),
		"header":   string(ClassHeader),
		"progress": string(ClassProgress),
		"section":  string(ClassSection),
		"actions":  string(ClassActions),
		"errors":   string(ClassErrors),
	}
}
