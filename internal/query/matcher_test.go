package query

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pylens/pylens/internal/ast"
)

// buildTree is the equivalent of:
//
//	def add(a, b):
//	    return a + b
//	def sub(a, b):
//	    return a - b
//	x = add(1, 2)
//	y = sub(3, 4)
//	print(x)
func buildTree() *ast.Program {
	def := func(name, op string) *ast.FunctionDef {
		return &ast.FunctionDef{
			Name:   name,
			Params: []string{"a", "b"},
			Body: []ast.Node{
				&ast.Return{Value: &ast.BinOp{
					Left:  &ast.Name{ID: "a", Ctx: ast.Load},
					Op:    op,
					Right: &ast.Name{ID: "b", Ctx: ast.Load},
				}},
			},
		}
	}
	call := func(fn string, args ...int64) *ast.Call {
		c := &ast.Call{Func: &ast.Name{ID: fn, Ctx: ast.Load}}
		for _, a := range args {
			c.Args = append(c.Args, &ast.Constant{Value: a})
		}
		return c
	}
	return &ast.Program{Body: []ast.Node{
		def("add", "+"),
		def("sub", "-"),
		&ast.Assign{Targets: []ast.Node{&ast.Name{ID: "x", Ctx: ast.Store}}, Value: call("add", 1, 2)},
		&ast.Assign{Targets: []ast.Node{&ast.Name{ID: "y", Ctx: ast.Store}}, Value: call("sub", 3, 4)},
		&ast.Expr{Value: &ast.Call{
			Func: &ast.Name{ID: "print", Ctx: ast.Load},
			Args: []ast.Node{&ast.Name{ID: "x", Ctx: ast.Load}},
		}},
	}}
}

func TestFindMatchesPreOrder(t *testing.T) {
	tree := buildTree()
	matches := FindMatches(tree, MustCompile("def *"))

	require.Len(t, matches, 2)
	// Declaration order: add before sub.
	assert.Equal(t, "add", matches[0].(*ast.FunctionDef).Name)
	assert.Equal(t, "sub", matches[1].(*ast.FunctionDef).Name)
}

func TestFindMatchesDeterministic(t *testing.T) {
	tree := buildTree()
	pattern := MustCompile("name *")

	first := FindMatches(tree, pattern)
	second := FindMatches(tree, pattern)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Same(t, first[i], second[i], "repeated calls over an unmutated tree yield identical sequences")
	}
}

func TestWildcardMatchesEveryNode(t *testing.T) {
	tree := buildTree()
	matches := FindMatches(tree, WildcardPattern{})
	assert.Len(t, matches, ast.Count(tree))
}

func TestFindMatchesEmptyResult(t *testing.T) {
	tree := buildTree()
	matches := FindMatches(tree, MustCompile("call nonexistent"))
	assert.Empty(t, matches, "zero matches is a valid outcome, not an error")
}

func TestConvenienceFinders(t *testing.T) {
	tree := buildTree()

	t.Run("functions", func(t *testing.T) {
		assert.Len(t, FindFunctions(tree), 2)
	})

	t.Run("calls filtered", func(t *testing.T) {
		calls := FindCalls(tree, "add")
		require.Len(t, calls, 1)
		assert.Len(t, calls[0].Args, 2)
	})

	t.Run("calls unfiltered", func(t *testing.T) {
		assert.Len(t, FindCalls(tree, ""), 3)
	})

	t.Run("assignments filtered", func(t *testing.T) {
		assigns := FindAssignments(tree, "y")
		require.Len(t, assigns, 1)
	})

	t.Run("assignments unfiltered", func(t *testing.T) {
		assert.Len(t, FindAssignments(tree, ""), 2)
	})

	t.Run("names", func(t *testing.T) {
		assert.Len(t, FindNames(tree, "x"), 2, "store target and print argument")
	})
}

func TestCountAndHas(t *testing.T) {
	tree := buildTree()

	assert.Equal(t, 3, CountMatches(tree, MustCompile("call *")))
	assert.True(t, HasMatch(tree, MustCompile("call print")))
	assert.False(t, HasMatch(tree, MustCompile("class *")))
}

func TestConcurrentReadOnlyTraversals(t *testing.T) {
	tree := buildTree()
	pattern := MustCompile("name * or call *")

	var wg sync.WaitGroup
	results := make([][]ast.Node, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = FindMatches(tree, pattern)
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		assert.Equal(t, len(results[0]), len(results[i]))
	}
}
