package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	pkgmodel "github.com/goliatone/go-eticket/pkg/model"
)

var (
	errStepIDMissing      = errors.New("model builder: step id is required")
	errFieldNameMissing   = errors.New("model builder: field name is required")
	errTravelerRequired   = errors.New("model builder: per-traveler step requires a traveler index")
	errOptionsMissing     = errors.New("model builder: choice field requires options")
	errDuplicateFieldPath = errors.New("model builder: duplicate field path")
)

// IsDefinitionError reports whether err came from an invalid step definition.
func IsDefinitionError(err error) bool {
	for _, target := range []error{errStepIDMissing, errFieldNameMissing, errTravelerRequired, errOptionsMissing, errDuplicateFieldPath} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func validateDefinition(def pkgmodel.StepDefinition, traveler int) error {
	if strings.TrimSpace(def.ID) == "" {
		return errStepIDMissing
	}
	if def.PerTraveler && traveler < 0 {
		return fmt.Errorf("%w: step %q", errTravelerRequired, def.ID)
	}
	seen := make(map[string]struct{})
	for _, section := range def.Sections {
		for _, field := range section.Fields {
			if err := validateFieldName(field.Name); err != nil {
				return fmt.Errorf("step %q: %w", def.ID, err)
			}
			if _, dup := seen[field.Name]; dup {
				return fmt.Errorf("%w: %s.%s", errDuplicateFieldPath, def.ID, field.Name)
			}
			seen[field.Name] = struct{}{}
			switch field.Type {
			case pkgmodel.FieldTypeRadio, pkgmodel.FieldTypeSelect:
				if len(field.Options) == 0 {
					return fmt.Errorf("%w: %s.%s", errOptionsMissing, def.ID, field.Name)
				}
			}
		}
	}
	return nil
}

// Field names may be dotted to nest values, but no segment may be empty or
// numeric: numeric segments are reserved for traveler slots.
func validateFieldName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errFieldNameMissing
	}
	for _, segment := range strings.Split(name, ".") {
		if segment == "" {
			return fmt.Errorf("%w: empty segment in %q", errFieldNameMissing, name)
		}
		if _, err := strconv.Atoi(segment); err == nil {
			return fmt.Errorf("%w: numeric segment in %q", errFieldNameMissing, name)
		}
	}
	return nil
}
