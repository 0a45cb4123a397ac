package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pylens/pylens/internal/ast"
)

func name(id string) *ast.Name      { return &ast.Name{ID: id, Ctx: ast.Load} }
func store(id string) *ast.Name     { return &ast.Name{ID: id, Ctx: ast.Store} }
func intConst(v int64) *ast.Constant { return &ast.Constant{Value: v} }

func TestAnalyzeScopes(t *testing.T) {
	// def f(a, b):
	//     c = a + b
	//     return c
	fn := &ast.FunctionDef{
		Name:   "f",
		Params: []string{"a", "b"},
		Body: []ast.Node{
			&ast.Assign{
				Targets: []ast.Node{store("c")},
				Value:   &ast.BinOp{Left: name("a"), Op: "+", Right: name("b")},
			},
			&ast.Return{Value: name("c")},
		},
	}
	tree := &ast.Program{Body: []ast.Node{fn}}

	table := Analyze(tree)

	require.Len(t, table.Scopes(), 2, "module scope plus one function scope")

	fnScope, ok := table.ScopeFor(fn)
	require.True(t, ok)
	assert.Equal(t, table.Module, fnScope.Parent)

	fSym, ok := table.Module.Lookup("f")
	require.True(t, ok)
	assert.Equal(t, KindFunction, fSym.Kind)

	for _, param := range []string{"a", "b"} {
		sym, ok := fnScope.Lookup(param)
		require.True(t, ok, param)
		assert.Equal(t, KindParameter, sym.Kind)
		assert.True(t, sym.Used())
	}

	cSym, ok := fnScope.Lookup("c")
	require.True(t, ok)
	assert.Equal(t, KindLocal, cSym.Kind)
	assert.Len(t, cSym.Uses, 1)
}

func TestUnusedVariables(t *testing.T) {
	// def f(n, unused_param):
	//     return n
	// dead = 1
	tree := &ast.Program{Body: []ast.Node{
		&ast.FunctionDef{
			Name:   "f",
			Params: []string{"n", "unused_param"},
			Body:   []ast.Node{&ast.Return{Value: name("n")}},
		},
		&ast.Assign{Targets: []ast.Node{store("dead")}, Value: intConst(1)},
	}}

	table := Analyze(tree)
	unused := table.UnusedVariables()

	var names []string
	for _, sym := range unused {
		names = append(names, sym.Name)
	}
	assert.Equal(t, []string{"dead", "unused_param"}, names)
}

func TestModuleFunctionsExcludedFromUnused(t *testing.T) {
	// Module-level defs are treated as exported even when never called.
	tree := &ast.Program{Body: []ast.Node{
		&ast.FunctionDef{Name: "api", Body: []ast.Node{&ast.Pass{}}},
		&ast.ClassDef{Name: "Config", Body: []ast.Node{&ast.Pass{}}},
	}}

	table := Analyze(tree)
	assert.Empty(t, table.UnusedVariables())
}

func TestUndefinedVariables(t *testing.T) {
	// x = unknown + also_unknown
	// y = unknown
	tree := &ast.Program{Body: []ast.Node{
		&ast.Assign{
			Targets: []ast.Node{store("x")},
			Value:   &ast.BinOp{Left: name("unknown"), Op: "+", Right: name("also_unknown")},
		},
		&ast.Assign{Targets: []ast.Node{store("y")}, Value: name("unknown")},
	}}

	table := Analyze(tree)

	// Deduplicated, first-seen order.
	assert.Equal(t, []string{"unknown", "also_unknown"}, table.UndefinedVariables())
}

func TestScopeChainResolution(t *testing.T) {
	// g = 1
	// def outer():
	//     def inner():
	//         return g
	//     return inner
	inner := &ast.FunctionDef{
		Name: "inner",
		Body: []ast.Node{&ast.Return{Value: name("g")}},
	}
	outer := &ast.FunctionDef{
		Name: "outer",
		Body: []ast.Node{inner, &ast.Return{Value: name("inner")}},
	}
	tree := &ast.Program{Body: []ast.Node{
		&ast.Assign{Targets: []ast.Node{store("g")}, Value: intConst(1)},
		outer,
	}}

	table := Analyze(tree)

	gSym, ok := table.Module.Lookup("g")
	require.True(t, ok)
	assert.Len(t, gSym.Uses, 1, "nested read resolves to the module symbol")
	assert.Empty(t, table.UndefinedVariables())
}

func TestImportBindings(t *testing.T) {
	tree := &ast.Program{Body: []ast.Node{
		&ast.Import{Names: []ast.Alias{{Name: "os.path"}, {Name: "numpy", AsName: "np"}}},
		&ast.ImportFrom{Module: "collections", Names: []ast.Alias{{Name: "deque"}}},
		&ast.Expr{Value: &ast.Call{Func: name("np"), Args: []ast.Node{name("deque")}}},
	}}

	table := Analyze(tree)

	osSym, ok := table.Module.Lookup("os")
	require.True(t, ok, "import os.path binds the top-level segment")
	assert.Equal(t, KindImport, osSym.Kind)
	assert.False(t, osSym.Used())

	npSym, ok := table.Module.Lookup("np")
	require.True(t, ok)
	assert.True(t, npSym.Used())

	dequeSym, ok := table.Module.Lookup("deque")
	require.True(t, ok)
	assert.True(t, dequeSym.Used())
}

func TestForLoopTargetBinds(t *testing.T) {
	// for i in range(10): total = total + i
	tree := &ast.Program{Body: []ast.Node{
		&ast.Assign{Targets: []ast.Node{store("total")}, Value: intConst(0)},
		&ast.For{
			Target: store("i"),
			Iter:   &ast.Call{Func: name("range"), Args: []ast.Node{intConst(10)}},
			Body: []ast.Node{
				&ast.Assign{
					Targets: []ast.Node{store("total")},
					Value:   &ast.BinOp{Left: name("total"), Op: "+", Right: name("i")},
				},
			},
		},
	}}

	table := Analyze(tree)

	iSym, ok := table.Module.Lookup("i")
	require.True(t, ok)
	assert.True(t, iSym.Used())
	assert.Equal(t, []string{"range"}, table.UndefinedVariables())
}

func TestDefinedBeforeUse(t *testing.T) {
	// x = late  (late read before its declaration)
	// late = 1
	tree := &ast.Program{Body: []ast.Node{
		&ast.Assign{Targets: []ast.Node{store("x")}, Value: name("late")},
		&ast.Assign{Targets: []ast.Node{store("late")}, Value: intConst(1)},
	}}

	table := Analyze(tree)

	lateSym, ok := table.Module.Lookup("late")
	require.True(t, ok)
	assert.False(t, lateSym.DefinedBeforeUse)

	xSym, ok := table.Module.Lookup("x")
	require.True(t, ok)
	assert.True(t, xSym.DefinedBeforeUse)
}

func TestDefinedBeforeUseOuterScopeRead(t *testing.T) {
	// x = 1
	// def f():
	//     y = x   (resolves to the module x)
	//     x = 2   (local rebinding after the read)
	fn := &ast.FunctionDef{
		Name: "f",
		Body: []ast.Node{
			&ast.Assign{Targets: []ast.Node{store("y")}, Value: name("x")},
			&ast.Assign{Targets: []ast.Node{store("x")}, Value: intConst(2)},
		},
	}
	tree := &ast.Program{Body: []ast.Node{
		&ast.Assign{Targets: []ast.Node{store("x")}, Value: intConst(1)},
		fn,
	}}

	table := Analyze(tree)

	scope, ok := table.ScopeFor(fn)
	require.True(t, ok)
	localX, ok := scope.Lookup("x")
	require.True(t, ok)

	// The read resolved to the module binding, so the local rebinding is
	// not flagged. Symbol documents this single-pass behavior.
	assert.True(t, localX.DefinedBeforeUse)
	assert.Empty(t, table.UndefinedVariables())
}

func TestScopeSummary(t *testing.T) {
	tree := &ast.Program{Body: []ast.Node{
		&ast.Assign{Targets: []ast.Node{store("x")}, Value: intConst(1)},
		&ast.Expr{Value: name("x")},
	}}

	table := Analyze(tree)
	summary := table.ScopeSummary()

	require.Contains(t, summary, table.Module.ID)
	assert.Equal(t, SymbolSummary{Kind: "local", Uses: 1}, summary[table.Module.ID]["x"])
}

func TestAnalyzeNeverFailsOnOpaqueKinds(t *testing.T) {
	tree := &ast.Program{Body: []ast.Node{
		&ast.Extension{Tag: "Weird", Kids: []ast.Node{name("ghost")}},
	}}

	table := Analyze(tree)
	assert.Equal(t, []string{"ghost"}, table.UndefinedVariables())
}
