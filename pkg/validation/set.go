package validation

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-eticket/pkg/requirements"
)

// Rule binds a field path to its format validator and the message shown when
// a required value is missing.
type Rule struct {
	Validator Validator
	Required  string
}

// Set resolves the validator for a field path by combining the rule table
// with the requirement registry: required paths fail on empty input, optional
// paths skip format checks when empty. Paths are matched exactly first and
// then without traveler indices.
type Set struct {
	mu       sync.RWMutex
	rules    map[string]Rule
	registry *requirements.Registry
}

// NewSet creates an empty set backed by registry. A nil registry treats every
// field as optional.
func NewSet(registry *requirements.Registry) *Set {
	return &Set{
		rules:    make(map[string]Rule),
		registry: registry,
	}
}

// Add registers a rule for path, replacing any previous one.
func (s *Set) Add(path string, rule Rule) *Set {
	key := strings.TrimSpace(path)
	if key == "" {
		return s
	}
	s.mu.Lock()
	s.rules[key] = rule
	s.mu.Unlock()
	return s
}

// For returns the composed validator for path. It never returns nil.
func (s *Set) For(path string) Validator {
	rule, _ := s.rule(path)
	if s.registry.IsRequired(path) {
		return Chain(Required(rule.Required), rule.Validator)
	}
	return Optional(rule.Validator)
}

// Validate runs the composed validator for path against value.
func (s *Set) Validate(path string, value any) Result {
	return s.For(path).Validate(value)
}

// Paths returns every path with an explicit rule, sorted.
func (s *Set) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.rules))
	for path := range s.rules {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

func (s *Set) rule(path string) (Rule, bool) {
	key := strings.TrimSpace(path)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rule, ok := s.rules[key]; ok {
		return rule, true
	}
	rule, ok := s.rules[requirements.CanonicalPath(key)]
	return rule, ok
}
