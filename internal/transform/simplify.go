package transform

import (
	"github.com/pylens/pylens/internal/ast"
)

// ExpressionSimplification applies identity rewrites wherever an identity
// element appears as a constant operand: x + 0, 0 + x, x - 0, x * 1, 1 * x
// reduce to x; x * 0 and 0 * x reduce to the zero constant; double negation
// ("-" and "not") is eliminated. The other operand does not need to be
// constant.
type ExpressionSimplification struct{}

// NewExpressionSimplification returns the identity-rewrite pass.
func NewExpressionSimplification() *ExpressionSimplification {
	return &ExpressionSimplification{}
}

func (*ExpressionSimplification) Name() string { return "expression-simplification" }

func (p *ExpressionSimplification) Transform(tree ast.Node) (ast.Node, error) {
	return p.simplify(tree), nil
}

func (p *ExpressionSimplification) simplify(n ast.Node) ast.Node {
	rewriteChildren(n, p.simplify)

	switch n := n.(type) {
	case *ast.BinOp:
		return simplifyBinOp(n)
	case *ast.UnaryOp:
		inner, ok := n.Operand.(*ast.UnaryOp)
		if ok && n.Op == inner.Op && (n.Op == "-" || n.Op == "not") {
			return inner.Operand
		}
	}
	return n
}

func simplifyBinOp(n *ast.BinOp) ast.Node {
	switch n.Op {
	case "+":
		if isZero(n.Right) {
			return n.Left
		}
		if isZero(n.Left) {
			return n.Right
		}
	case "-":
		if isZero(n.Right) {
			return n.Left
		}
	case "*":
		if isOne(n.Right) {
			return n.Left
		}
		if isOne(n.Left) {
			return n.Right
		}
		// x * 0 folds to the zero literal regardless of x.
		if isZero(n.Right) {
			return n.Right
		}
		if isZero(n.Left) {
			return n.Left
		}
	}
	return n
}

func isZero(n ast.Node) bool {
	c, ok := n.(*ast.Constant)
	if !ok {
		return false
	}
	switch v := c.Value.(type) {
	case int64:
		return v == 0
	case float64:
		return v == 0
	}
	return false
}

func isOne(n ast.Node) bool {
	c, ok := n.(*ast.Constant)
	if !ok {
		return false
	}
	switch v := c.Value.(type) {
	case int64:
		return v == 1
	case float64:
		return v == 1
	}
	return false
}
