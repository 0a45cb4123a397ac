package transform

import (
	"github.com/pylens/pylens/internal/ast"
)

// DeadCodeElimination removes statements unreachable by straight-line
// control flow: everything after a terminator (Return, Raise, Break,
// Continue) within the same block, and the untaken branch of an If whose
// condition is a constant. Reachability across blocks is out of scope.
type DeadCodeElimination struct{}

// NewDeadCodeElimination returns the dead code elimination pass.
func NewDeadCodeElimination() *DeadCodeElimination { return &DeadCodeElimination{} }

func (*DeadCodeElimination) Name() string { return "dead-code-elimination" }

func (p *DeadCodeElimination) Transform(tree ast.Node) (ast.Node, error) {
	switch n := tree.(type) {
	case *ast.Program:
		n.Body = p.rewriteBlock(n.Body)
	default:
		p.rewriteStmt(tree)
	}
	return tree, nil
}

// rewriteBlock processes one statement list: nested blocks first, constant
// If branches spliced in place, and the tail after a terminator dropped.
func (p *DeadCodeElimination) rewriteBlock(body []ast.Node) []ast.Node {
	out := make([]ast.Node, 0, len(body))
	for _, stmt := range body {
		spliced := p.rewriteStmt(stmt)
		terminated := false
		for _, s := range spliced {
			out = append(out, s)
			if isTerminator(s) {
				terminated = true
				break
			}
		}
		if terminated {
			break
		}
	}
	return out
}

// rewriteStmt returns the statements replacing stmt: usually the statement
// itself, or a constant If's taken branch.
func (p *DeadCodeElimination) rewriteStmt(stmt ast.Node) []ast.Node {
	switch s := stmt.(type) {
	case *ast.If:
		s.Body = ensureBody(p.rewriteBlock(s.Body))
		s.Else = p.rewriteBlock(s.Else)
		if truth, ok := constTruth(s.Test); ok {
			if truth {
				return s.Body
			}
			return s.Else
		}
	case *ast.For:
		s.Body = ensureBody(p.rewriteBlock(s.Body))
		s.Else = p.rewriteBlock(s.Else)
	case *ast.While:
		s.Body = ensureBody(p.rewriteBlock(s.Body))
		s.Else = p.rewriteBlock(s.Else)
	case *ast.FunctionDef:
		s.Body = ensureBody(p.rewriteBlock(s.Body))
	case *ast.ClassDef:
		s.Body = ensureBody(p.rewriteBlock(s.Body))
	}
	return []ast.Node{stmt}
}

func isTerminator(n ast.Node) bool {
	switch n.Kind() {
	case ast.KindReturn, ast.KindRaise, ast.KindBreak, ast.KindContinue:
		return true
	}
	return false
}

// ensureBody keeps a block syntactically valid when elimination empties it.
func ensureBody(body []ast.Node) []ast.Node {
	if len(body) == 0 {
		return []ast.Node{&ast.Pass{}}
	}
	return body
}
