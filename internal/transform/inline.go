package transform

import (
	"github.com/pylens/pylens/internal/ast"
	"github.com/pylens/pylens/internal/symbols"
)

// FunctionInlining replaces calls to trivially inlinable module-level
// functions with their return expression, substituting actual arguments for
// parameters positionally. A function qualifies only when its body is a
// single Return with a value; a call site qualifies only when the argument
// count matches and no parameter name is live at the call site (a live name
// would be captured by the substituted expression). Anything else is left
// uninlined; there is no partial inlining.
type FunctionInlining struct{}

// NewFunctionInlining returns the inlining pass.
func NewFunctionInlining() *FunctionInlining { return &FunctionInlining{} }

func (*FunctionInlining) Name() string { return "function-inlining" }

func (p *FunctionInlining) Transform(tree ast.Node) (ast.Node, error) {
	prog, ok := tree.(*ast.Program)
	if !ok {
		return tree, nil
	}

	candidates := make(map[string]*ast.FunctionDef)
	for _, stmt := range prog.Body {
		if fn, ok := stmt.(*ast.FunctionDef); ok && inlinable(fn) {
			candidates[fn.Name] = fn
		}
	}
	if len(candidates) == 0 {
		return tree, nil
	}

	table := symbols.Analyze(tree)
	rw := &inliner{candidates: candidates, table: table}
	rw.rewrite(prog, table.Module)
	return tree, nil
}

// inlinable accepts a function whose body is exactly one Return with a
// value: no nested control flow, nothing to partially inline.
func inlinable(fn *ast.FunctionDef) bool {
	if len(fn.Body) != 1 {
		return false
	}
	ret, ok := fn.Body[0].(*ast.Return)
	return ok && ret.Value != nil
}

type inliner struct {
	candidates map[string]*ast.FunctionDef
	table      *symbols.Table
}

// rewrite walks the tree tracking the current scope so the shadowing check
// sees exactly the names live at each call site.
func (r *inliner) rewrite(n ast.Node, scope *symbols.Scope) ast.Node {
	switch n := n.(type) {
	case *ast.FunctionDef:
		rewriteList(n.Decorators, func(c ast.Node) ast.Node { return r.rewrite(c, scope) })
		inner := scope
		if sc, ok := r.table.ScopeFor(n); ok {
			inner = sc
		}
		rewriteList(n.Body, func(c ast.Node) ast.Node { return r.rewrite(c, inner) })
		return n
	case *ast.ClassDef:
		rewriteList(n.Decorators, func(c ast.Node) ast.Node { return r.rewrite(c, scope) })
		rewriteList(n.Bases, func(c ast.Node) ast.Node { return r.rewrite(c, scope) })
		inner := scope
		if sc, ok := r.table.ScopeFor(n); ok {
			inner = sc
		}
		rewriteList(n.Body, func(c ast.Node) ast.Node { return r.rewrite(c, inner) })
		return n
	case *ast.Call:
		rewriteChildren(n, func(c ast.Node) ast.Node { return r.rewrite(c, scope) })
		return r.tryInline(n, scope)
	default:
		rewriteChildren(n, func(c ast.Node) ast.Node { return r.rewrite(c, scope) })
		return n
	}
}

func (r *inliner) tryInline(call *ast.Call, scope *symbols.Scope) ast.Node {
	callee, ok := call.Func.(*ast.Name)
	if !ok {
		return call
	}
	fn, ok := r.candidates[callee.ID]
	if !ok || len(call.Args) != len(fn.Params) {
		return call
	}
	for _, param := range fn.Params {
		if _, live := scope.Resolve(param); live {
			return call
		}
	}

	binds := make(map[string]ast.Node, len(fn.Params))
	for i, param := range fn.Params {
		binds[param] = call.Args[i]
	}
	body := ast.Clone(fn.Body[0].(*ast.Return).Value)
	return substitute(body, binds)
}

// substitute replaces parameter reads in an owned expression clone with
// clones of the bound arguments.
func substitute(n ast.Node, binds map[string]ast.Node) ast.Node {
	if name, ok := n.(*ast.Name); ok && name.Ctx == ast.Load {
		if arg, bound := binds[name.ID]; bound {
			return ast.Clone(arg)
		}
	}
	rewriteChildren(n, func(c ast.Node) ast.Node { return substitute(c, binds) })
	return n
}
