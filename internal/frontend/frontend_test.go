package frontend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pylens/pylens/internal/ast"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	program, err := NewParser().ParseSource([]byte(src))
	require.NoError(t, err)
	require.NoError(t, ast.Validate(program))
	return program
}

func TestParseFunctionDef(t *testing.T) {
	program := parse(t, `def add(a, b):
    return a + b
`)

	require.Len(t, program.Body, 1)
	fn, ok := program.Body[0].(*ast.FunctionDef)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, []string{"a", "b"}, fn.Params)

	require.Len(t, fn.Body, 1)
	ret := fn.Body[0].(*ast.Return)
	bin := ret.Value.(*ast.BinOp)
	assert.Equal(t, "+", bin.Op)
	assert.Equal(t, "a", bin.Left.(*ast.Name).ID)
	assert.Equal(t, ast.Load, bin.Left.(*ast.Name).Ctx)
}

func TestParseAssignment(t *testing.T) {
	program := parse(t, "x = 42\n")

	assign := program.Body[0].(*ast.Assign)
	target := assign.Targets[0].(*ast.Name)
	assert.Equal(t, "x", target.ID)
	assert.Equal(t, ast.Store, target.Ctx)
	assert.Equal(t, int64(42), assign.Value.(*ast.Constant).Value)
}

func TestParseLiterals(t *testing.T) {
	program := parse(t, `a = 10
b = 2.5
c = "hello"
d = True
e = None
`)

	values := make([]any, 0, 5)
	for _, stmt := range program.Body {
		values = append(values, stmt.(*ast.Assign).Value.(*ast.Constant).Value)
	}
	assert.Equal(t, []any{int64(10), 2.5, "hello", true, nil}, values)
}

func TestParseCall(t *testing.T) {
	program := parse(t, "print(os.path.join(a, b))\n")

	expr := program.Body[0].(*ast.Expr)
	outer := expr.Value.(*ast.Call)
	assert.Equal(t, "print", outer.Func.(*ast.Name).ID)

	inner := outer.Args[0].(*ast.Call)
	attr := inner.Func.(*ast.Attribute)
	assert.Equal(t, "join", attr.Attr)
	assert.Equal(t, "path", attr.Value.(*ast.Attribute).Attr)
	assert.Equal(t, "os", attr.Value.(*ast.Attribute).Value.(*ast.Name).ID)
}

func TestParseIfElifElse(t *testing.T) {
	program := parse(t, `if a:
    x = 1
elif b:
    x = 2
else:
    x = 3
`)

	stmt := program.Body[0].(*ast.If)
	assert.Equal(t, "a", stmt.Test.(*ast.Name).ID)
	require.Len(t, stmt.Else, 1)

	elif := stmt.Else[0].(*ast.If)
	assert.Equal(t, "b", elif.Test.(*ast.Name).ID)
	require.Len(t, elif.Else, 1)
	assert.IsType(t, &ast.Assign{}, elif.Else[0])
}

func TestParseLoops(t *testing.T) {
	program := parse(t, `for item in items:
    print(item)
while ready:
    break
`)

	loop := program.Body[0].(*ast.For)
	assert.Equal(t, "item", loop.Target.(*ast.Name).ID)
	assert.Equal(t, ast.Store, loop.Target.(*ast.Name).Ctx)
	assert.Equal(t, "items", loop.Iter.(*ast.Name).ID)

	while := program.Body[1].(*ast.While)
	assert.Equal(t, "ready", while.Test.(*ast.Name).ID)
	assert.IsType(t, &ast.Break{}, while.Body[0])
}

func TestParseImports(t *testing.T) {
	program := parse(t, `import os
import numpy as np
from collections import OrderedDict, defaultdict
from . import sibling
`)

	imp := program.Body[0].(*ast.Import)
	assert.Equal(t, []ast.Alias{{Name: "os"}}, imp.Names)

	aliased := program.Body[1].(*ast.Import)
	assert.Equal(t, []ast.Alias{{Name: "numpy", AsName: "np"}}, aliased.Names)

	from := program.Body[2].(*ast.ImportFrom)
	assert.Equal(t, "collections", from.Module)
	require.Len(t, from.Names, 2)
	assert.Equal(t, "OrderedDict", from.Names[0].Name)

	relative := program.Body[3].(*ast.ImportFrom)
	assert.Equal(t, 1, relative.Level)
	assert.Equal(t, []ast.Alias{{Name: "sibling"}}, relative.Names)
}

func TestParseComparisonAndBoolOps(t *testing.T) {
	program := parse(t, "ok = a < b and not done\n")

	assign := program.Body[0].(*ast.Assign)
	and := assign.Value.(*ast.BinOp)
	assert.Equal(t, "and", and.Op)

	cmp := and.Left.(*ast.BinOp)
	assert.Equal(t, "<", cmp.Op)

	not := and.Right.(*ast.UnaryOp)
	assert.Equal(t, "not", not.Op)
	assert.Equal(t, "done", not.Operand.(*ast.Name).ID)
}

func TestParseClassWithDecorator(t *testing.T) {
	program := parse(t, `@register
class Handler(Base):
    def run(self):
        pass
`)

	class := program.Body[0].(*ast.ClassDef)
	assert.Equal(t, "Handler", class.Name)
	require.Len(t, class.Decorators, 1)
	assert.Equal(t, "register", class.Decorators[0].(*ast.Name).ID)
	require.Len(t, class.Bases, 1)
	assert.Equal(t, "Base", class.Bases[0].(*ast.Name).ID)
	assert.IsType(t, &ast.FunctionDef{}, class.Body[0])
}

func TestUnsupportedSyntaxBecomesExtension(t *testing.T) {
	program := parse(t, `with open(path) as f:
    data = f.read()
`)

	ext, ok := program.Body[0].(*ast.Extension)
	require.True(t, ok)
	assert.Equal(t, "with_statement", ext.Tag)
	assert.Contains(t, ext.Fields["source"], "open(path)")
}

func TestParseSyntaxError(t *testing.T) {
	_, err := NewParser().ParseSource([]byte("def broken(:\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	program, err := NewParser().ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, program.Body, 1)

	_, err = NewParser().ParseFile(filepath.Join(t.TempDir(), "missing.py"))
	assert.Error(t, err)
}
