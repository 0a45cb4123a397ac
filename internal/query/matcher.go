package query

import (
	"github.com/pylens/pylens/internal/ast"
)

// FindMatches returns every node in the tree the pattern accepts, in
// pre-order: parent before children, children in declaration order. The
// traversal never mutates the tree, so independent calls may run
// concurrently over the same unmutated tree.
func FindMatches(tree ast.Node, pattern Pattern) []ast.Node {
	var matches []ast.Node
	ast.Walk(tree, func(n ast.Node) bool {
		if pattern.Match(n) {
			matches = append(matches, n)
		}
		return true
	})
	return matches
}

// CountMatches returns the number of nodes the pattern accepts.
func CountMatches(tree ast.Node, pattern Pattern) int {
	return len(FindMatches(tree, pattern))
}

// HasMatch reports whether the pattern accepts any node. It stops at the
// first hit.
func HasMatch(tree ast.Node, pattern Pattern) bool {
	found := false
	ast.Walk(tree, func(n ast.Node) bool {
		if found {
			return false
		}
		if pattern.Match(n) {
			found = true
			return false
		}
		return true
	})
	return found
}

// FindFunctions returns every function definition in pre-order.
func FindFunctions(tree ast.Node) []*ast.FunctionDef {
	var out []*ast.FunctionDef
	for _, n := range FindMatches(tree, DefPattern{Name: Any()}) {
		out = append(out, n.(*ast.FunctionDef))
	}
	return out
}

// FindCalls returns calls whose callee matches name; an empty name matches
// every call with a resolvable callee.
func FindCalls(tree ast.Node, name string) []*ast.Call {
	var out []*ast.Call
	for _, n := range FindMatches(tree, CallPattern{Name: nameFilter(name)}) {
		out = append(out, n.(*ast.Call))
	}
	return out
}

// FindAssignments returns assignments with a Name target matching name; an
// empty name matches any Name target.
func FindAssignments(tree ast.Node, name string) []*ast.Assign {
	var out []*ast.Assign
	for _, n := range FindMatches(tree, AssignPattern{Name: nameFilter(name)}) {
		out = append(out, n.(*ast.Assign))
	}
	return out
}

// FindNames returns bare Name nodes matching name; an empty name matches all.
func FindNames(tree ast.Node, name string) []*ast.Name {
	var out []*ast.Name
	for _, n := range FindMatches(tree, NamePattern{Name: nameFilter(name)}) {
		out = append(out, n.(*ast.Name))
	}
	return out
}

func nameFilter(name string) Matcher {
	if name == "" {
		return Any()
	}
	return Exact(name)
}
