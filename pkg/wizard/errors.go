package wizard

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrEmptyWizard = errors.New("wizard: no steps")
	ErrLastStep    = errors.New("wizard: already on the last step")
	ErrFirstStep   = errors.New("wizard: already on the first step")
	ErrUnknownStep = errors.New("wizard: unknown step")
	ErrNotVisited  = errors.New("wizard: step not reached yet")
	ErrInvalid     = errors.New("wizard: step has invalid fields")
)

// ValidationError lists the failing fields that blocked navigation.
type ValidationError struct {
	StepID   string
	Traveler int
	Failures map[string]string
}

func (e *ValidationError) Error() string {
	paths := make([]string, 0, len(e.Failures))
	for path := range e.Failures {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return fmt.Sprintf("wizard: step %s has %d invalid field(s): %s", e.StepID, len(paths), strings.Join(paths, ", "))
}

// Is lets callers match with errors.Is(err, ErrInvalid).
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}
