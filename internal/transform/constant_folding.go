package transform

import (
	"math"

	"github.com/pylens/pylens/internal/ast"
)

// ConstantFolding replaces binary operations over two constants with the
// computed constant, bottom-up, so folds compose within one traversal
// (1 + 2 * 3 collapses fully). It runs a single traversal, not a fixed
// point: rewrites that only become constant after an unrelated pass need
// another run. Division or modulo by a literal zero is left unfolded; the
// fault stays a runtime property of the program, not a transform error.
type ConstantFolding struct{}

// NewConstantFolding returns the constant folding pass.
func NewConstantFolding() *ConstantFolding { return &ConstantFolding{} }

func (*ConstantFolding) Name() string { return "constant-folding" }

func (p *ConstantFolding) Transform(tree ast.Node) (ast.Node, error) {
	return p.fold(tree), nil
}

func (p *ConstantFolding) fold(n ast.Node) ast.Node {
	rewriteChildren(n, p.fold)

	bin, ok := n.(*ast.BinOp)
	if !ok {
		return n
	}
	left, ok := bin.Left.(*ast.Constant)
	if !ok {
		return n
	}
	right, ok := bin.Right.(*ast.Constant)
	if !ok {
		return n
	}
	if value, ok := evalBinOp(bin.Op, left.Value, right.Value); ok {
		return &ast.Constant{Value: value}
	}
	return n
}

// evalBinOp computes op over two literal values. The second result is false
// when the operands are incompatible or the operation cannot be folded.
func evalBinOp(op string, left, right any) (any, bool) {
	if l, lok := left.(string); lok {
		r, rok := right.(string)
		if !rok {
			return nil, false
		}
		switch op {
		case "+":
			return l + r, true
		case "==":
			return l == r, true
		case "!=":
			return l != r, true
		}
		return nil, false
	}

	li, lInt := left.(int64)
	ri, rInt := right.(int64)
	if lInt && rInt {
		return evalInt(op, li, ri)
	}

	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	if !lok || !rok {
		return nil, false
	}
	return evalFloat(op, lf, rf)
}

func evalInt(op string, l, r int64) (any, bool) {
	switch op {
	case "+":
		return l + r, true
	case "-":
		return l - r, true
	case "*":
		return l * r, true
	case "/":
		if r == 0 {
			return nil, false
		}
		return float64(l) / float64(r), true
	case "//":
		if r == 0 {
			return nil, false
		}
		q := l / r
		if (l%r != 0) && ((l < 0) != (r < 0)) {
			q--
		}
		return q, true
	case "%":
		if r == 0 {
			return nil, false
		}
		m := l % r
		if m != 0 && ((m < 0) != (r < 0)) {
			m += r
		}
		return m, true
	case "**":
		if r < 0 {
			return math.Pow(float64(l), float64(r)), true
		}
		result := int64(1)
		for i := int64(0); i < r; i++ {
			result *= l
		}
		return result, true
	case "==":
		return l == r, true
	case "!=":
		return l != r, true
	case "<":
		return l < r, true
	case "<=":
		return l <= r, true
	case ">":
		return l > r, true
	case ">=":
		return l >= r, true
	}
	return nil, false
}

func evalFloat(op string, l, r float64) (any, bool) {
	switch op {
	case "+":
		return l + r, true
	case "-":
		return l - r, true
	case "*":
		return l * r, true
	case "/":
		if r == 0 {
			return nil, false
		}
		return l / r, true
	case "//":
		if r == 0 {
			return nil, false
		}
		return math.Floor(l / r), true
	case "%":
		if r == 0 {
			return nil, false
		}
		m := math.Mod(l, r)
		if m != 0 && ((m < 0) != (r < 0)) {
			m += r
		}
		return m, true
	case "**":
		return math.Pow(l, r), true
	case "==":
		return l == r, true
	case "!=":
		return l != r, true
	case "<":
		return l < r, true
	case "<=":
		return l <= r, true
	case ">":
		return l > r, true
	case ">=":
		return l >= r, true
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}
