// Package ids produces stable DOM identifiers for labels, inputs and radio
// options so ARIA attributes can reference them.
//
// An identifier is built from four segments: step, traveler slot, field name
// and option value. Each segment is slugified into [A-Za-z0-9-] with accents
// folded and runs of other characters collapsed into a single hyphen. When the
// slug differs from the raw segment, a "_" marker and the xxhash of the raw
// segment are appended, so two distinct inputs never share an identifier.
// Segments are joined with "--", which a slug never contains.
package ids

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultPrefix is prepended to every generated identifier.
const DefaultPrefix = "et"

const (
	separator    = "--"
	lossyMarker  = "_"
	emptySegment = "_"
	noTraveler   = "t"
)

// Generator builds identifiers with a fixed prefix.
type Generator struct {
	prefix string
}

// Option configures a Generator.
type Option func(*Generator)

// WithPrefix overrides the identifier prefix. The prefix is slugified like any
// other segment; an empty prefix disables it.
func WithPrefix(prefix string) Option {
	return func(g *Generator) {
		g.prefix = Slug(prefix)
	}
}

// New constructs a Generator.
func New(options ...Option) *Generator {
	g := &Generator{prefix: DefaultPrefix}
	for _, opt := range options {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

var defaultGenerator = New()

// Generate returns the identifier for a field (option == "") or one of its
// options outside of any traveler slot.
func Generate(step, field, option string) string {
	return defaultGenerator.Generate(step, field, option)
}

// ForTraveler returns the identifier for a field or option scoped to a
// traveler slot. Negative indices are treated as "no traveler".
func ForTraveler(index int, step, field, option string) string {
	return defaultGenerator.ForTraveler(index, step, field, option)
}

// Generate returns the identifier for a field or option without a traveler.
func (g *Generator) Generate(step, field, option string) string {
	return g.build(-1, step, field, option)
}

// ForTraveler returns the identifier scoped to a traveler slot.
func (g *Generator) ForTraveler(index int, step, field, option string) string {
	return g.build(index, step, field, option)
}

func (g *Generator) build(index int, step, field, option string) string {
	var b strings.Builder
	b.Grow(len(g.prefix) + len(step) + len(field) + len(option) + 16)
	if g.prefix != "" {
		b.WriteString(g.prefix)
		b.WriteByte('-')
	}
	b.WriteString(encodeSegment(step))
	b.WriteString(separator)
	b.WriteString(travelerSegment(index))
	b.WriteString(separator)
	b.WriteString(encodeSegment(field))
	b.WriteString(separator)
	b.WriteString(encodeSegment(option))
	return b.String()
}

// LabelID derives the identifier of the label element for a control id.
func LabelID(id string) string { return id + "__label" }

// DescriptionID derives the identifier of the description element.
func DescriptionID(id string) string { return id + "__desc" }

// ErrorID derives the identifier of the inline error element.
func ErrorID(id string) string { return id + "__error" }

func travelerSegment(index int) string {
	if index < 0 {
		return noTraveler
	}
	return noTraveler + strconv.Itoa(index)
}

func encodeSegment(raw string) string {
	if raw == "" {
		return emptySegment
	}
	slug := Slug(raw)
	if slug == raw {
		return slug
	}
	return slug + lossyMarker + strconv.FormatUint(xxhash.Sum64String(raw), 16)
}

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slug folds accents and reduces s to ASCII letters, digits and single
// hyphens. Case is preserved because DOM ids are case sensitive.
func Slug(s string) string {
	folded, _, err := transform.String(foldAccents, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if isSlugRune(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

func isSlugRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
