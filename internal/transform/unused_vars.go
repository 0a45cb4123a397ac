package transform

import (
	"github.com/pylens/pylens/internal/ast"
	"github.com/pylens/pylens/internal/symbols"
)

// UnusedVariableRemoval drops assignments whose only target is a variable
// with no recorded use. It builds a fresh symbol table on its input; any
// earlier table is stale by contract. Assignments whose value contains a
// Call are not dropped outright: the call may have effects, so the
// statement is demoted to a bare expression statement and the whole value
// expression is kept.
type UnusedVariableRemoval struct{}

// NewUnusedVariableRemoval returns the unused-assignment removal pass.
func NewUnusedVariableRemoval() *UnusedVariableRemoval { return &UnusedVariableRemoval{} }

func (*UnusedVariableRemoval) Name() string { return "unused-variable-removal" }

func (p *UnusedVariableRemoval) Transform(tree ast.Node) (ast.Node, error) {
	table := symbols.Analyze(tree)
	switch n := tree.(type) {
	case *ast.Program:
		n.Body = p.rewriteBlock(n.Body, table.Module, table)
	}
	return tree, nil
}

func (p *UnusedVariableRemoval) rewriteBlock(body []ast.Node, scope *symbols.Scope, table *symbols.Table) []ast.Node {
	out := make([]ast.Node, 0, len(body))
	for _, stmt := range body {
		switch s := stmt.(type) {
		case *ast.Assign:
			if replacement, drop := p.rewriteAssign(s, scope); drop {
				continue
			} else if replacement != nil {
				out = append(out, replacement)
				continue
			}
		case *ast.FunctionDef:
			if inner, ok := table.ScopeFor(s); ok {
				s.Body = ensureBody(p.rewriteBlock(s.Body, inner, table))
			}
		case *ast.ClassDef:
			if inner, ok := table.ScopeFor(s); ok {
				s.Body = ensureBody(p.rewriteBlock(s.Body, inner, table))
			}
		case *ast.If:
			s.Body = p.rewriteBlock(s.Body, scope, table)
			s.Else = p.rewriteBlock(s.Else, scope, table)
		case *ast.For:
			s.Body = p.rewriteBlock(s.Body, scope, table)
			s.Else = p.rewriteBlock(s.Else, scope, table)
		case *ast.While:
			s.Body = p.rewriteBlock(s.Body, scope, table)
			s.Else = p.rewriteBlock(s.Else, scope, table)
		}
		out = append(out, stmt)
	}
	return out
}

// rewriteAssign decides the fate of one assignment: dropped, demoted to an
// expression statement, or kept. Only single-target Name assignments are
// candidates.
func (p *UnusedVariableRemoval) rewriteAssign(assign *ast.Assign, scope *symbols.Scope) (replacement ast.Node, drop bool) {
	if len(assign.Targets) != 1 {
		return nil, false
	}
	name, ok := assign.Targets[0].(*ast.Name)
	if !ok {
		return nil, false
	}
	sym, ok := scope.Lookup(name.ID)
	if !ok || sym.Used() {
		return nil, false
	}
	if containsCall(assign.Value) {
		return &ast.Expr{Value: assign.Value}, false
	}
	return nil, true
}
