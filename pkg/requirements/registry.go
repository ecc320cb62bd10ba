package requirements

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-eticket/pkg/model"
)

//go:embed requirements.yaml
var defaultDocument []byte

var errEmptyPath = errors.New("requirements: field path is required")

// Registry maps dotted field paths to their required flag. It is immutable
// once constructed; lookups never fail.
type Registry struct {
	fields map[string]bool
}

type document struct {
	Fields map[string]bool `yaml:"fields"`
}

// New builds a registry from an explicit table. Keys are trimmed; empty keys
// are ignored.
func New(fields map[string]bool) *Registry {
	out := make(map[string]bool, len(fields))
	for path, required := range fields {
		key := strings.TrimSpace(path)
		if key == "" {
			continue
		}
		out[key] = required
	}
	return &Registry{fields: out}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry for the declaration form, parsed from the
// embedded requirements.yaml.
func Default() *Registry {
	defaultOnce.Do(func() {
		registry, err := Parse(defaultDocument)
		if err != nil {
			panic(fmt.Sprintf("requirements: embedded document: %v", err))
		}
		defaultRegistry = registry
	})
	return defaultRegistry
}

// Parse decodes a YAML document of the form `fields: {path: bool}`.
func Parse(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("requirements: decode document: %w", err)
	}
	for path := range doc.Fields {
		if strings.TrimSpace(path) == "" {
			return nil, errEmptyPath
		}
	}
	return New(doc.Fields), nil
}

// Load reads and parses a requirements document from fsys.
func Load(fsys fs.FS, name string) (*Registry, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("requirements: read %s: %w", name, err)
	}
	return Parse(data)
}

// IsRequired reports whether the field at path is required. Unknown paths
// are optional. Traveler slot indices are ignored when the exact path has no
// entry, so "travelers.2.passport.number" resolves through
// "travelers.passport.number".
func (r *Registry) IsRequired(path string) bool {
	if r == nil || len(r.fields) == 0 {
		return false
	}
	key := strings.TrimSpace(path)
	if required, ok := r.fields[key]; ok {
		return required
	}
	if stripped := CanonicalPath(key); stripped != key {
		return r.fields[stripped]
	}
	return false
}

// Paths returns every configured path, sorted.
func (r *Registry) Paths() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.fields))
	for path := range r.fields {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Decorator marks step fields as required according to the registry.
func (r *Registry) Decorator() model.Decorator {
	return model.DecoratorFunc(func(step *model.Step) error {
		if step == nil {
			return nil
		}
		for si := range step.Sections {
			fields := step.Sections[si].Fields
			for fi := range fields {
				fields[fi].Required = r.IsRequired(fields[fi].Path)
			}
		}
		return nil
	})
}

// CanonicalPath drops numeric segments (traveler slots, list indices) from a
// dotted path.
func CanonicalPath(path string) string {
	if path == "" {
		return path
	}
	parts := strings.Split(path, ".")
	out := parts[:0:0]
	for _, part := range parts {
		if _, err := strconv.Atoi(part); err == nil {
			continue
		}
		out = append(out, part)
	}
	return strings.Join(out, ".")
}
