// Package query implements the pattern micro-language used to locate nodes
// in a syntax tree. A query string is compiled once into an immutable
// Pattern; matching never re-parses the string per node visited.
//
// Grammar (tokens separated by whitespace):
//
//	query  := simple (("and" | "or") simple)*
//	simple := verb operand | "*"
//	verb   := "call" | "assign" | "name" | "def" | "class"
//
// where operand is "*" (any), a bare identifier (exact match), or /regex/.
// "and" binds tighter than "or"; both are left-associative.
package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pylens/pylens/internal/ast"
)

// Pattern is a compiled, reusable predicate over nodes. Implementations are
// immutable and safe for concurrent use.
type Pattern interface {
	// Match reports whether the pattern accepts the node.
	Match(n ast.Node) bool
	// String renders the pattern in query syntax.
	String() string
}

var (
	_ Pattern = (*WildcardPattern)(nil)
	_ Pattern = (*CallPattern)(nil)
	_ Pattern = (*AssignPattern)(nil)
	_ Pattern = (*NamePattern)(nil)
	_ Pattern = (*DefPattern)(nil)
	_ Pattern = (*ClassPattern)(nil)
	_ Pattern = (*AndPattern)(nil)
	_ Pattern = (*OrPattern)(nil)
)

// Matcher accepts or rejects an operand string. One of Any, Exact, or Regex.
type Matcher interface {
	MatchString(s string) bool
	String() string
}

type anyMatcher struct{}

func (anyMatcher) MatchString(string) bool { return true }
func (anyMatcher) String() string          { return "*" }

type exactMatcher struct{ lit string }

func (m exactMatcher) MatchString(s string) bool { return s == m.lit }
func (m exactMatcher) String() string            { return m.lit }

type regexMatcher struct{ re *regexp.Regexp }

func (m regexMatcher) MatchString(s string) bool { return m.re.MatchString(s) }
func (m regexMatcher) String() string            { return "/" + m.re.String() + "/" }

// Any matches every operand.
func Any() Matcher { return anyMatcher{} }

// Exact matches the operand literally.
func Exact(lit string) Matcher { return exactMatcher{lit: lit} }

// Regex matches the operand against a compiled regular expression.
func Regex(expr string) (Matcher, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return regexMatcher{re: re}, nil
}

// WildcardPattern matches every node.
type WildcardPattern struct{}

func (WildcardPattern) Match(ast.Node) bool { return true }
func (WildcardPattern) String() string      { return "*" }

// CallPattern matches Call nodes whose callee identifier satisfies Name.
// A bare Name callee contributes its identifier; an Attribute chain
// contributes its full dotted path.
type CallPattern struct{ Name Matcher }

func (p CallPattern) Match(n ast.Node) bool {
	call, ok := n.(*ast.Call)
	if !ok {
		return false
	}
	callee, ok := CalleeName(call)
	if !ok {
		return false
	}
	return p.Name.MatchString(callee)
}

func (p CallPattern) String() string { return "call " + p.Name.String() }

// CalleeName resolves the identifier a call targets: Name.ID for bare
// names, the dotted path for Attribute chains rooted at a Name.
func CalleeName(call *ast.Call) (string, bool) {
	return dottedPath(call.Func)
}

func dottedPath(n ast.Node) (string, bool) {
	switch n := n.(type) {
	case *ast.Name:
		return n.ID, true
	case *ast.Attribute:
		base, ok := dottedPath(n.Value)
		if !ok {
			return "", false
		}
		return base + "." + n.Attr, true
	}
	return "", false
}

// AssignPattern matches Assign nodes where at least one target is a Name
// accepted by the matcher.
type AssignPattern struct{ Name Matcher }

func (p AssignPattern) Match(n ast.Node) bool {
	assign, ok := n.(*ast.Assign)
	if !ok {
		return false
	}
	for _, target := range assign.Targets {
		if name, ok := target.(*ast.Name); ok && p.Name.MatchString(name.ID) {
			return true
		}
	}
	return false
}

func (p AssignPattern) String() string { return "assign " + p.Name.String() }

// NamePattern matches bare Name nodes.
type NamePattern struct{ Name Matcher }

func (p NamePattern) Match(n ast.Node) bool {
	name, ok := n.(*ast.Name)
	return ok && p.Name.MatchString(name.ID)
}

func (p NamePattern) String() string { return "name " + p.Name.String() }

// DefPattern matches FunctionDef nodes by name.
type DefPattern struct{ Name Matcher }

func (p DefPattern) Match(n ast.Node) bool {
	fn, ok := n.(*ast.FunctionDef)
	return ok && p.Name.MatchString(fn.Name)
}

func (p DefPattern) String() string { return "def " + p.Name.String() }

// ClassPattern matches ClassDef nodes by name.
type ClassPattern struct{ Name Matcher }

func (p ClassPattern) Match(n ast.Node) bool {
	cls, ok := n.(*ast.ClassDef)
	return ok && p.Name.MatchString(cls.Name)
}

func (p ClassPattern) String() string { return "class " + p.Name.String() }

// AndPattern matches when both sides match. Left is always evaluated first;
// the right side is skipped once the left is false.
type AndPattern struct{ Left, Right Pattern }

func (p AndPattern) Match(n ast.Node) bool { return p.Left.Match(n) && p.Right.Match(n) }
func (p AndPattern) String() string {
	return fmt.Sprintf("%s and %s", p.Left, p.Right)
}

// OrPattern matches when either side matches. Left is always evaluated
// first; the right side is skipped once the left is true.
type OrPattern struct{ Left, Right Pattern }

func (p OrPattern) Match(n ast.Node) bool { return p.Left.Match(n) || p.Right.Match(n) }
func (p OrPattern) String() string {
	return fmt.Sprintf("%s or %s", p.Left, p.Right)
}

// SyntaxError reports a query string that does not match the grammar.
type SyntaxError struct {
	Query string
	Pos   int // token index, 0-based
	Msg   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid query %q: %s (token %d)", e.Query, e.Msg, e.Pos)
}

func syntaxErr(query string, pos int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Query: query, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

var verbs = map[string]func(Matcher) Pattern{
	"call":   func(m Matcher) Pattern { return CallPattern{Name: m} },
	"assign": func(m Matcher) Pattern { return AssignPattern{Name: m} },
	"name":   func(m Matcher) Pattern { return NamePattern{Name: m} },
	"def":    func(m Matcher) Pattern { return DefPattern{Name: m} },
	"class":  func(m Matcher) Pattern { return ClassPattern{Name: m} },
}

// Compile parses a query string into a Pattern. The whole string must be
// consumed; anything less is a *SyntaxError.
func Compile(src string) (Pattern, error) {
	tokens := strings.Fields(src)
	if len(tokens) == 0 {
		return nil, syntaxErr(src, 0, "empty query")
	}
	p := &parser{query: src, tokens: tokens}
	pattern, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.tokens) {
		return nil, syntaxErr(src, p.pos, "unexpected trailing token %q", p.tokens[p.pos])
	}
	return pattern, nil
}

// MustCompile is like Compile but panics on error. For patterns known good
// at build time.
func MustCompile(src string) Pattern {
	p, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return p
}

type parser struct {
	query  string
	tokens []string
	pos    int
}

func (p *parser) parseOr() (Pattern, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.pos < len(p.tokens) && p.tokens[p.pos] == "or" {
		p.pos++
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = OrPattern{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Pattern, error) {
	left, err := p.parseSimple()
	if err != nil {
		return nil, err
	}
	for p.pos < len(p.tokens) && p.tokens[p.pos] == "and" {
		p.pos++
		right, err := p.parseSimple()
		if err != nil {
			return nil, err
		}
		left = AndPattern{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseSimple() (Pattern, error) {
	if p.pos >= len(p.tokens) {
		return nil, syntaxErr(p.query, p.pos, "unexpected end of query")
	}
	tok := p.tokens[p.pos]
	p.pos++

	if tok == "*" {
		return WildcardPattern{}, nil
	}

	build, ok := verbs[tok]
	if !ok {
		return nil, syntaxErr(p.query, p.pos-1, "unknown verb %q", tok)
	}
	if p.pos >= len(p.tokens) {
		return nil, syntaxErr(p.query, p.pos, "verb %q needs an operand", tok)
	}
	operand := p.tokens[p.pos]
	p.pos++

	m, err := p.parseOperand(operand)
	if err != nil {
		return nil, err
	}
	return build(m), nil
}

func (p *parser) parseOperand(operand string) (Matcher, error) {
	switch {
	case operand == "*":
		return Any(), nil
	case strings.HasPrefix(operand, "/"):
		if len(operand) < 2 || !strings.HasSuffix(operand, "/") {
			return nil, syntaxErr(p.query, p.pos-1, "unterminated regex %q", operand)
		}
		m, err := Regex(operand[1 : len(operand)-1])
		if err != nil {
			return nil, syntaxErr(p.query, p.pos-1, "bad regex %q: %v", operand, err)
		}
		return m, nil
	case operand == "and" || operand == "or":
		return nil, syntaxErr(p.query, p.pos-1, "%q cannot be an operand", operand)
	default:
		return Exact(operand), nil
	}
}
