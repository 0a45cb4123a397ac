// Package frontend parses Python source into a syntax tree. It drives the
// tree-sitter Python grammar and converts the concrete syntax tree into
// the node model; concrete-syntax kinds with no counterpart become
// Extension nodes so downstream traversal stays total.
package frontend

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/pylens/pylens/internal/ast"
)

// Parser converts Python source into syntax trees. A Parser is safe to
// reuse across files; each parse gets its own tree-sitter parser.
type Parser struct {
	lang *sitter.Language
}

// NewParser returns a parser backed by the Python grammar.
func NewParser() *Parser {
	return &Parser{lang: sitter.NewLanguage(tree_sitter_python.Language())}
}

// ParseFile reads and parses the file at path.
func (p *Parser) ParseFile(path string) (*ast.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	program, err := p.ParseSource(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return program, nil
}

// ParseSource parses Python source. Grammar errors abort the parse; the
// converted tree never contains error placeholders.
func (p *Parser) ParseSource(src []byte) (*ast.Program, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(p.lang); err != nil {
		return nil, fmt.Errorf("load python grammar: %w", err)
	}

	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse failed")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		if bad := firstError(root); bad != nil {
			pos := bad.StartPosition()
			return nil, fmt.Errorf("syntax error at line %d, column %d", pos.Row+1, pos.Column+1)
		}
		return nil, fmt.Errorf("syntax error")
	}

	c := &converter{src: src}
	return &ast.Program{Body: c.block(root)}, nil
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if bad := firstError(n.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}

type converter struct {
	src []byte
}

func (c *converter) text(n *sitter.Node) string {
	return string(c.src[n.StartByte():n.EndByte()])
}

// block converts the named statements of a module, block, or clause body.
func (c *converter) block(n *sitter.Node) []ast.Node {
	var body []ast.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child.Kind() == "comment" {
			continue
		}
		body = append(body, c.stmt(child)...)
	}
	return body
}

// stmt converts one concrete statement. Most map to exactly one node;
// decorated definitions fold their decorators into the definition.
func (c *converter) stmt(n *sitter.Node) []ast.Node {
	switch n.Kind() {
	case "function_definition":
		return []ast.Node{c.functionDef(n, nil)}

	case "class_definition":
		return []ast.Node{c.classDef(n, nil)}

	case "decorated_definition":
		return []ast.Node{c.decorated(n)}

	case "expression_statement":
		var out []ast.Node
		for i := uint(0); i < n.NamedChildCount(); i++ {
			expr := n.NamedChild(i)
			if expr.Kind() == "assignment" {
				out = append(out, c.assignment(expr))
				continue
			}
			out = append(out, &ast.Expr{Value: c.expr(expr)})
		}
		return out

	case "return_statement":
		ret := &ast.Return{}
		if n.NamedChildCount() > 0 {
			ret.Value = c.expr(n.NamedChild(0))
		}
		return []ast.Node{ret}

	case "if_statement":
		return []ast.Node{c.ifStmt(n)}

	case "for_statement":
		stmt := &ast.For{
			Target: c.store(n.ChildByFieldName("left")),
			Iter:   c.expr(n.ChildByFieldName("right")),
			Body:   c.block(n.ChildByFieldName("body")),
		}
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			stmt.Else = c.elseClause(alt)
		}
		return []ast.Node{stmt}

	case "while_statement":
		stmt := &ast.While{
			Test: c.expr(n.ChildByFieldName("condition")),
			Body: c.block(n.ChildByFieldName("body")),
		}
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			stmt.Else = c.elseClause(alt)
		}
		return []ast.Node{stmt}

	case "import_statement":
		return []ast.Node{&ast.Import{Names: c.aliases(n)}}

	case "import_from_statement":
		return []ast.Node{c.importFrom(n)}

	case "raise_statement":
		stmt := &ast.Raise{}
		if n.NamedChildCount() > 0 {
			stmt.Exc = c.expr(n.NamedChild(0))
		}
		if cause := n.ChildByFieldName("cause"); cause != nil {
			stmt.Cause = c.expr(cause)
		}
		return []ast.Node{stmt}

	case "break_statement":
		return []ast.Node{&ast.Break{}}
	case "continue_statement":
		return []ast.Node{&ast.Continue{}}
	case "pass_statement":
		return []ast.Node{&ast.Pass{}}
	}

	return []ast.Node{c.extension(n)}
}

func (c *converter) decorated(n *sitter.Node) ast.Node {
	var decorators []ast.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child.Kind() == "decorator" {
			decorators = append(decorators, c.expr(child.NamedChild(0)))
		}
	}
	def := n.ChildByFieldName("definition")
	switch def.Kind() {
	case "function_definition":
		return c.functionDef(def, decorators)
	case "class_definition":
		return c.classDef(def, decorators)
	}
	return c.extension(n)
}

func (c *converter) functionDef(n *sitter.Node, decorators []ast.Node) *ast.FunctionDef {
	def := &ast.FunctionDef{
		Name:       c.text(n.ChildByFieldName("name")),
		Body:       c.block(n.ChildByFieldName("body")),
		Decorators: decorators,
	}
	params := n.ChildByFieldName("parameters")
	for i := uint(0); i < params.NamedChildCount(); i++ {
		param := params.NamedChild(i)
		switch param.Kind() {
		case "identifier":
			def.Params = append(def.Params, c.text(param))
		case "default_parameter", "typed_parameter", "typed_default_parameter":
			if name := param.ChildByFieldName("name"); name != nil {
				def.Params = append(def.Params, c.text(name))
			} else if param.NamedChildCount() > 0 && param.NamedChild(0).Kind() == "identifier" {
				def.Params = append(def.Params, c.text(param.NamedChild(0)))
			}
		}
	}
	return def
}

func (c *converter) classDef(n *sitter.Node, decorators []ast.Node) *ast.ClassDef {
	def := &ast.ClassDef{
		Name:       c.text(n.ChildByFieldName("name")),
		Body:       c.block(n.ChildByFieldName("body")),
		Decorators: decorators,
	}
	if supers := n.ChildByFieldName("superclasses"); supers != nil {
		for i := uint(0); i < supers.NamedChildCount(); i++ {
			def.Bases = append(def.Bases, c.expr(supers.NamedChild(i)))
		}
	}
	return def
}

func (c *converter) assignment(n *sitter.Node) ast.Node {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if right == nil {
		// Annotation-only statement (x: int); no binding to model.
		return c.extension(n)
	}
	assign := &ast.Assign{Value: c.expr(right)}

	// Chained assignment targets arrive as nested assignments on the right;
	// the grammar keeps one left per level, so a single target suffices.
	if left.Kind() == "pattern_list" || left.Kind() == "tuple_pattern" {
		for i := uint(0); i < left.NamedChildCount(); i++ {
			assign.Targets = append(assign.Targets, c.store(left.NamedChild(i)))
		}
	} else {
		assign.Targets = append(assign.Targets, c.store(left))
	}
	return assign
}

func (c *converter) ifStmt(n *sitter.Node) *ast.If {
	stmt := &ast.If{
		Test: c.expr(n.ChildByFieldName("condition")),
		Body: c.block(n.ChildByFieldName("consequence")),
	}
	// elif chains become nested If nodes in the else branch.
	cursor := stmt
	for i := uint(0); i < n.ChildCount(); i++ {
		clause := n.Child(i)
		switch clause.Kind() {
		case "elif_clause":
			next := &ast.If{
				Test: c.expr(clause.ChildByFieldName("condition")),
				Body: c.block(clause.ChildByFieldName("consequence")),
			}
			cursor.Else = []ast.Node{next}
			cursor = next
		case "else_clause":
			cursor.Else = c.elseClause(clause)
		}
	}
	return stmt
}

func (c *converter) elseClause(n *sitter.Node) []ast.Node {
	if body := n.ChildByFieldName("body"); body != nil {
		return c.block(body)
	}
	return c.block(n)
}

func (c *converter) aliases(n *sitter.Node) []ast.Alias {
	var names []ast.Alias
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "dotted_name", "identifier":
			names = append(names, ast.Alias{Name: c.text(child)})
		case "aliased_import":
			names = append(names, ast.Alias{
				Name:   c.text(child.ChildByFieldName("name")),
				AsName: c.text(child.ChildByFieldName("alias")),
			})
		}
	}
	return names
}

func (c *converter) importFrom(n *sitter.Node) *ast.ImportFrom {
	stmt := &ast.ImportFrom{}
	module := n.ChildByFieldName("module_name")
	if module != nil {
		if module.Kind() == "relative_import" {
			raw := c.text(module)
			stmt.Module = strings.TrimLeft(raw, ".")
			stmt.Level = len(raw) - len(stmt.Module)
		} else {
			stmt.Module = c.text(module)
		}
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if module != nil && child.StartByte() == module.StartByte() {
			continue
		}
		switch child.Kind() {
		case "dotted_name", "identifier":
			stmt.Names = append(stmt.Names, ast.Alias{Name: c.text(child)})
		case "aliased_import":
			stmt.Names = append(stmt.Names, ast.Alias{
				Name:   c.text(child.ChildByFieldName("name")),
				AsName: c.text(child.ChildByFieldName("alias")),
			})
		case "wildcard_import":
			stmt.Names = append(stmt.Names, ast.Alias{Name: "*"})
		}
	}
	return stmt
}

// expr converts one concrete expression in load context.
func (c *converter) expr(n *sitter.Node) ast.Node {
	switch n.Kind() {
	case "identifier":
		return &ast.Name{ID: c.text(n), Ctx: ast.Load}

	case "attribute":
		return &ast.Attribute{
			Value: c.expr(n.ChildByFieldName("object")),
			Attr:  c.text(n.ChildByFieldName("attribute")),
			Ctx:   ast.Load,
		}

	case "call":
		call := &ast.Call{Func: c.expr(n.ChildByFieldName("function"))}
		args := n.ChildByFieldName("arguments")
		for i := uint(0); i < args.NamedChildCount(); i++ {
			call.Args = append(call.Args, c.expr(args.NamedChild(i)))
		}
		return call

	case "binary_operator", "boolean_operator":
		return &ast.BinOp{
			Left:  c.expr(n.ChildByFieldName("left")),
			Op:    c.text(n.ChildByFieldName("operator")),
			Right: c.expr(n.ChildByFieldName("right")),
		}

	case "comparison_operator":
		return c.comparison(n)

	case "unary_operator":
		return &ast.UnaryOp{
			Op:      c.text(n.ChildByFieldName("operator")),
			Operand: c.expr(n.ChildByFieldName("argument")),
		}

	case "not_operator":
		return &ast.UnaryOp{
			Op:      "not",
			Operand: c.expr(n.ChildByFieldName("argument")),
		}

	case "parenthesized_expression":
		if n.NamedChildCount() == 1 {
			return c.expr(n.NamedChild(0))
		}

	case "integer":
		if v, err := strconv.ParseInt(c.text(n), 0, 64); err == nil {
			return &ast.Constant{Value: v}
		}

	case "float":
		if v, err := strconv.ParseFloat(c.text(n), 64); err == nil {
			return &ast.Constant{Value: v}
		}

	case "string":
		return &ast.Constant{Value: stringLiteral(c.text(n))}

	case "true":
		return &ast.Constant{Value: true}
	case "false":
		return &ast.Constant{Value: false}
	case "none":
		return &ast.Constant{Value: nil}
	}

	return c.extension(n)
}

// comparison flattens a chained comparison left to right, so a < b < c
// becomes (a < b) < c. Chained comparisons are rare enough in the inputs
// this tool sees that the approximation has not mattered.
func (c *converter) comparison(n *sitter.Node) ast.Node {
	left := c.expr(n.NamedChild(0))
	opIndex := 0
	ops := comparisonOps(n)
	for i := uint(1); i < n.NamedChildCount(); i++ {
		op := "=="
		if opIndex < len(ops) {
			op = ops[opIndex]
		}
		opIndex++
		left = &ast.BinOp{Left: left, Op: op, Right: c.expr(n.NamedChild(i))}
	}
	return left
}

func comparisonOps(n *sitter.Node) []string {
	var ops []string
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if !child.IsNamed() {
			ops = append(ops, child.Kind())
		}
	}
	return ops
}

// store converts an assignment or loop target, marking names and
// attributes with store context.
func (c *converter) store(n *sitter.Node) ast.Node {
	switch n.Kind() {
	case "identifier":
		return &ast.Name{ID: c.text(n), Ctx: ast.Store}
	case "attribute":
		return &ast.Attribute{
			Value: c.expr(n.ChildByFieldName("object")),
			Attr:  c.text(n.ChildByFieldName("attribute")),
			Ctx:   ast.Store,
		}
	}
	return c.extension(n)
}

// extension wraps a concrete-syntax node the model has no variant for.
// The raw source text rides along so nothing is silently lost.
func (c *converter) extension(n *sitter.Node) *ast.Extension {
	return &ast.Extension{
		Tag:    n.Kind(),
		Fields: map[string]any{"source": c.text(n)},
	}
}

// stringLiteral strips Python string prefixes and quoting. Escape
// sequences are kept verbatim; the tree carries source-level literals.
func stringLiteral(s string) string {
	for len(s) > 0 {
		switch s[0] {
		case 'r', 'R', 'b', 'B', 'u', 'U', 'f', 'F':
			s = s[1:]
			continue
		}
		break
	}
	for _, quote := range []string{`"""`, "'''", `"`, "'"} {
		if strings.HasPrefix(s, quote) && strings.HasSuffix(s, quote) && len(s) >= 2*len(quote) {
			return s[len(quote) : len(s)-len(quote)]
		}
	}
	return s
}
