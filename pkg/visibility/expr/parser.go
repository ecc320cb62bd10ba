package expr

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokPath tokenKind = iota
	tokString
	tokNumber
	tokTrue
	tokFalse
	tokNull
	tokEq
	tokNeq
	tokAnd
	tokOr
	tokNot
	tokOpen
	tokClose
)

type token struct {
	kind tokenKind
	text string
}

type operator struct {
	text string
	kind tokenKind
}

var operators = []operator{
	{"==", tokEq},
	{"!=", tokNeq},
	{"&&", tokAnd},
	{"||", tokOr},
	{"!", tokNot},
	{"(", tokOpen},
	{")", tokClose},
}

func lex(input string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(input); {
		c := input[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			i++
			continue
		}
		if op, ok := matchOperator(input[i:]); ok {
			tokens = append(tokens, token{kind: op.kind, text: op.text})
			i += len(op.text)
			continue
		}
		if c == '"' || c == '\'' {
			end := closingQuote(input, i)
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated string", ErrSyntax)
			}
			raw := input[i+1 : end]
			text, err := strconv.Unquote(`"` + strings.ReplaceAll(raw, `"`, `\"`) + `"`)
			if err != nil {
				text = raw
			}
			tokens = append(tokens, token{kind: tokString, text: text})
			i = end + 1
			continue
		}
		start := i
		for i < len(input) && isWordByte(input[i]) {
			i++
		}
		if start == i {
			return nil, fmt.Errorf("%w: unexpected %q", ErrSyntax, string(c))
		}
		tokens = append(tokens, word(input[start:i]))
	}
	return tokens, nil
}

func matchOperator(s string) (operator, bool) {
	for _, op := range operators {
		if strings.HasPrefix(s, op.text) {
			return op, true
		}
	}
	return operator{}, false
}

func closingQuote(input string, open int) int {
	quote := input[open]
	for i := open + 1; i < len(input); i++ {
		switch input[i] {
		case '\\':
			i++
		case quote:
			return i
		}
	}
	return -1
}

func isWordByte(c byte) bool {
	return c == '.' || c == '_' || c == '-' || c == '+' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func word(text string) token {
	switch strings.ToLower(text) {
	case "true":
		return token{kind: tokTrue, text: text}
	case "false":
		return token{kind: tokFalse, text: text}
	case "null", "nil":
		return token{kind: tokNull, text: text}
	}
	if _, err := strconv.ParseFloat(text, 64); err == nil {
		return token{kind: tokNumber, text: text}
	}
	return token{kind: tokPath, text: text}
}

// parser is a recursive descent parser; precedence is ! over && over ||.
type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) accept(kind tokenKind) bool {
	if tok, ok := p.peek(); ok && tok.kind == kind {
		p.pos++
		return true
	}
	return false
}

func (p *parser) parseOr() (Program, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.accept(tokOr) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Program, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.accept(tokAnd) {
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Program, error) {
	if p.accept(tokNot) {
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Program, error) {
	if p.accept(tokOpen) {
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.accept(tokClose) {
			return nil, fmt.Errorf("%w: missing ')'", ErrSyntax)
		}
		return inner, nil
	}

	tok, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("%w: unexpected end of rule", ErrSyntax)
	}
	if tok.kind != tokPath {
		return nil, fmt.Errorf("%w: expected field path, got %q", ErrSyntax, tok.text)
	}
	p.pos++

	switch {
	case p.accept(tokEq):
		lit, err := p.parseLiteral()
		return compareNode{path: tok.text, value: lit}, err
	case p.accept(tokNeq):
		lit, err := p.parseLiteral()
		return compareNode{path: tok.text, negate: true, value: lit}, err
	default:
		return truthyNode{path: tok.text}, nil
	}
}

func (p *parser) parseLiteral() (literal, error) {
	tok, ok := p.peek()
	if !ok {
		return literal{}, fmt.Errorf("%w: missing value after comparison", ErrSyntax)
	}
	p.pos++
	switch tok.kind {
	case tokString, tokPath:
		return literal{kind: literalString, text: tok.text}, nil
	case tokNumber:
		n, _ := strconv.ParseFloat(tok.text, 64)
		return literal{kind: literalNumber, number: n}, nil
	case tokTrue, tokFalse:
		return literal{kind: literalBool, truth: tok.kind == tokTrue}, nil
	case tokNull:
		return literal{kind: literalNull}, nil
	default:
		return literal{}, fmt.Errorf("%w: expected value, got %q", ErrSyntax, tok.text)
	}
}
