package transform

import (
	"github.com/pylens/pylens/internal/ast"
)

// rewriteChildren applies fn to every owned child slot of n, storing the
// result back in place. The caller owns n for the duration of its pass, so
// in-place replacement is safe; fn must return a node the pass owns.
func rewriteChildren(n ast.Node, fn func(ast.Node) ast.Node) {
	apply := func(slot ast.Node) ast.Node {
		if slot == nil {
			return nil
		}
		return fn(slot)
	}
	switch n := n.(type) {
	case *ast.Program:
		rewriteList(n.Body, fn)
	case *ast.FunctionDef:
		rewriteList(n.Decorators, fn)
		rewriteList(n.Body, fn)
	case *ast.ClassDef:
		rewriteList(n.Decorators, fn)
		rewriteList(n.Bases, fn)
		rewriteList(n.Body, fn)
	case *ast.Assign:
		rewriteList(n.Targets, fn)
		n.Value = apply(n.Value)
	case *ast.Return:
		n.Value = apply(n.Value)
	case *ast.If:
		n.Test = apply(n.Test)
		rewriteList(n.Body, fn)
		rewriteList(n.Else, fn)
	case *ast.For:
		n.Target = apply(n.Target)
		n.Iter = apply(n.Iter)
		rewriteList(n.Body, fn)
		rewriteList(n.Else, fn)
	case *ast.While:
		n.Test = apply(n.Test)
		rewriteList(n.Body, fn)
		rewriteList(n.Else, fn)
	case *ast.BinOp:
		n.Left = apply(n.Left)
		n.Right = apply(n.Right)
	case *ast.UnaryOp:
		n.Operand = apply(n.Operand)
	case *ast.Call:
		n.Func = apply(n.Func)
		rewriteList(n.Args, fn)
	case *ast.Attribute:
		n.Value = apply(n.Value)
	case *ast.Expr:
		n.Value = apply(n.Value)
	case *ast.Raise:
		n.Exc = apply(n.Exc)
		n.Cause = apply(n.Cause)
	case *ast.Extension:
		rewriteList(n.Kids, fn)
	}
}

func rewriteList(list []ast.Node, fn func(ast.Node) ast.Node) {
	for i, item := range list {
		if item != nil {
			list[i] = fn(item)
		}
	}
}

// containsCall reports whether any descendant of n is a Call. Calls are
// conservatively treated as side-effecting.
func containsCall(n ast.Node) bool {
	found := false
	ast.Walk(n, func(c ast.Node) bool {
		if found {
			return false
		}
		if c.Kind() == ast.KindCall {
			found = true
			return false
		}
		return true
	})
	return found
}

// constTruth evaluates the truthiness of a constant expression node.
// The second result is false when the node is not a constant.
func constTruth(n ast.Node) (truth, ok bool) {
	c, isConst := n.(*ast.Constant)
	if !isConst {
		return false, false
	}
	switch v := c.Value.(type) {
	case nil:
		return false, true
	case bool:
		return v, true
	case int64:
		return v != 0, true
	case float64:
		return v != 0, true
	case string:
		return v != "", true
	}
	return false, false
}
