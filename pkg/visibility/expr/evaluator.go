// Package expr implements the visibility rule language used by declaration
// steps.
//
//	customs.carriesCurrency == true
//	customs.carriesCurrency == "yes"
//	flightInfo.direction != "departure" && !extras.kiosk
//	(a || b) && c
//
// Identifiers are dotted paths into the form values; numeric segments index
// traveler slots. Bare identifiers test truthiness. Comparing a boolean value
// with a string literal formats the boolean through the yes/no mapping, so
// rules can be written against either representation. Rules are compiled once
// and cached.
package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-eticket/pkg/fieldadapter"
	"github.com/goliatone/go-eticket/pkg/formstate"
	"github.com/goliatone/go-eticket/pkg/visibility"
)

var (
	// ErrSyntax wraps every parse failure.
	ErrSyntax = errors.New("visibility/expr: syntax error")
)

// Evaluator compiles and evaluates rules.
type Evaluator struct {
	mapping fieldadapter.Mapping
	cache   sync.Map // rule -> node
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithMapping sets the mapping used to compare booleans with strings.
func WithMapping(m fieldadapter.Mapping) Option {
	return func(e *Evaluator) { e.mapping = m }
}

// New constructs an Evaluator.
func New(options ...Option) *Evaluator {
	e := &Evaluator{mapping: fieldadapter.YesNo}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

var _ visibility.Evaluator = (*Evaluator)(nil)

// Eval reports whether the field guarded by rule is visible. An empty rule
// is always visible.
func (e *Evaluator) Eval(_ string, rule string, ctx visibility.Context) (bool, error) {
	node, err := e.Compile(rule)
	if err != nil {
		return false, err
	}
	if node == nil {
		return true, nil
	}
	return node.eval(e, ctx), nil
}

// Compile parses rule, returning a cached program when available. A nil
// program means "always visible".
func (e *Evaluator) Compile(rule string) (Program, error) {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return nil, nil
	}
	if cached, ok := e.cache.Load(rule); ok {
		return cached.(Program), nil
	}
	tokens, err := lex(rule)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("%w: unexpected %q", ErrSyntax, p.tokens[p.pos].text)
	}
	e.cache.Store(rule, node)
	return node, nil
}

// Program is a compiled rule.
type Program interface {
	eval(e *Evaluator, ctx visibility.Context) bool
}

type (
	orNode      struct{ left, right Program }
	andNode     struct{ left, right Program }
	notNode     struct{ inner Program }
	truthyNode  struct{ path string }
	compareNode struct {
		path   string
		negate bool
		value  literal
	}
)

func (n orNode) eval(e *Evaluator, ctx visibility.Context) bool {
	return n.left.eval(e, ctx) || n.right.eval(e, ctx)
}

func (n andNode) eval(e *Evaluator, ctx visibility.Context) bool {
	return n.left.eval(e, ctx) && n.right.eval(e, ctx)
}

func (n notNode) eval(e *Evaluator, ctx visibility.Context) bool {
	return !n.inner.eval(e, ctx)
}

func (n truthyNode) eval(_ *Evaluator, ctx visibility.Context) bool {
	value, _ := lookup(ctx, n.path)
	return truthy(value)
}

func (n compareNode) eval(e *Evaluator, ctx visibility.Context) bool {
	value, _ := lookup(ctx, n.path)
	equal := n.value.matches(value, e.mapping)
	if n.negate {
		return !equal
	}
	return equal
}

type literalKind int

const (
	literalString literalKind = iota
	literalNumber
	literalBool
	literalNull
)

type literal struct {
	kind   literalKind
	text   string
	number float64
	truth  bool
}

func (l literal) matches(value any, mapping fieldadapter.Mapping) bool {
	switch l.kind {
	case literalNull:
		return value == nil
	case literalBool:
		got, ok := asBool(value)
		return ok && got == l.truth
	case literalNumber:
		got, ok := asNumber(value)
		return ok && got == l.number
	default:
		if b, ok := value.(bool); ok {
			return mapping.Format(b) == l.text
		}
		return asString(value) == l.text
	}
}

func lookup(ctx visibility.Context, path string) (any, bool) {
	if rest, ok := strings.CutPrefix(path, "extras."); ok {
		return formstate.GetPath(ctx.Extras, rest)
	}
	if v, ok := ctx.Values[path]; ok {
		return v, true
	}
	return formstate.GetPath(ctx.Values, path)
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func asBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		return parsed, err == nil
	default:
		return false, false
	}
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
