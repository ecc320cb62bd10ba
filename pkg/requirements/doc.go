// Package requirements holds the field requirement registry: a static table
// from dotted field paths to a required flag. Renderers consult it to show
// the required indicator and the validator set consults it to decide whether
// an empty value is acceptable. Absent paths are optional.
package requirements
