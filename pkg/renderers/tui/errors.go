package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoDriver is returned when the renderer was built without a driver.
	ErrNoDriver = errors.New("tui: prompt driver is nil")
	// ErrNoOptions is returned for choice fields without options.
	ErrNoOptions = errors.New("tui: choice field has no options")
)
