// Package model defines the typed declaration model consumed by renderers.
// A Wizard is an ordered list of Steps; each Step groups Fields into
// Sections. Fields are addressed by dotted paths (for example
// "contactInfo.email" or "travelers.1.personalInfo.lastName") which act as the
// join key between the requirement registry, the validator set, the form
// state and the rendered markup. Definitions describe steps declaratively and
// are turned into concrete Steps by a Builder, which fills in labels, paths,
// DOM identifiers and traveler indices.
package model
