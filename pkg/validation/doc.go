// Package validation provides synchronous, single-shot field validators.
//
// Format checks are schema-backed: an OpenAPI schema (kin-openapi) parses the
// value and any failure is reported with a human-readable message. A Set
// joins these validators with the requirement registry on the field path so
// required fields reject empty input while optional ones accept it.
package validation
