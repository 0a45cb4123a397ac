package ast

import (
	"errors"
	"fmt"
)

// ErrInvalidTree reports a tree that violates the structural invariants
// (acyclicity, single ownership). It is never repaired silently.
var ErrInvalidTree = errors.New("invalid syntax tree")

// maxDepth bounds Validate against cyclic-by-bug trees. Acyclicity is an
// invariant of well-formed input, not a runtime guarantee.
const maxDepth = 10000

// Children returns the owned child nodes in declaration order. Nil child
// slots are skipped so the result is always dense.
func Children(n Node) []Node {
	var out []Node
	add := func(kids ...Node) {
		for _, kid := range kids {
			if kid != nil {
				out = append(out, kid)
			}
		}
	}
	switch n := n.(type) {
	case *Program:
		add(n.Body...)
	case *FunctionDef:
		add(n.Decorators...)
		add(n.Body...)
	case *ClassDef:
		add(n.Decorators...)
		add(n.Bases...)
		add(n.Body...)
	case *Assign:
		add(n.Targets...)
		add(n.Value)
	case *Return:
		add(n.Value)
	case *If:
		add(n.Test)
		add(n.Body...)
		add(n.Else...)
	case *For:
		add(n.Target, n.Iter)
		add(n.Body...)
		add(n.Else...)
	case *While:
		add(n.Test)
		add(n.Body...)
		add(n.Else...)
	case *BinOp:
		add(n.Left, n.Right)
	case *UnaryOp:
		add(n.Operand)
	case *Call:
		add(n.Func)
		add(n.Args...)
	case *Attribute:
		add(n.Value)
	case *Expr:
		add(n.Value)
	case *Raise:
		add(n.Exc, n.Cause)
	case *Extension:
		add(n.Kids...)
	}
	return out
}

// Walk visits n and its descendants in pre-order: parent before children,
// children in declaration order. Returning false from fn prunes the subtree.
func Walk(n Node, fn func(Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, child := range Children(n) {
		Walk(child, fn)
	}
}

// Count returns the total number of nodes in the tree rooted at n.
func Count(n Node) int {
	total := 0
	Walk(n, func(Node) bool {
		total++
		return true
	})
	return total
}

// Validate checks the structural invariants the rest of the system depends
// on: every node reachable from exactly one parent, no cycles, bounded
// depth. A violation is fatal to the operation that received the tree.
func Validate(n Node) error {
	if n == nil {
		return fmt.Errorf("%w: nil root", ErrInvalidTree)
	}
	seen := make(map[Node]struct{})
	return validate(n, seen, 0)
}

func validate(n Node, seen map[Node]struct{}, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("%w: depth exceeds %d, tree is cyclic or pathological", ErrInvalidTree, maxDepth)
	}
	if _, dup := seen[n]; dup {
		return fmt.Errorf("%w: %s node reachable from more than one parent", ErrInvalidTree, n.Kind())
	}
	seen[n] = struct{}{}
	for _, child := range Children(n) {
		if err := validate(child, seen, depth+1); err != nil {
			return err
		}
	}
	return nil
}
