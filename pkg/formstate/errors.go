package formstate

import "errors"

var (
	// ErrNilValues is returned when writing into a missing value tree.
	ErrNilValues = errors.New("formstate: values map is nil")
	// ErrInvalidPath reports a malformed dotted path or a path that crosses a
	// scalar value.
	ErrInvalidPath = errors.New("formstate: invalid path")
)
