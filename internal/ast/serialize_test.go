package ast

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		tree Node
	}{
		{"sample program", sampleProgram()},
		{"empty program", &Program{}},
		{
			"control flow",
			&Program{Body: []Node{
				&If{
					Test: &BinOp{Left: &Name{ID: "x", Ctx: Load}, Op: ">", Right: &Constant{Value: int64(0)}},
					Body: []Node{&Return{Value: &Constant{Value: "positive"}}},
					Else: []Node{&Return{Value: &Constant{Value: "non-positive"}}},
				},
				&For{
					Target: &Name{ID: "i", Ctx: Store},
					Iter:   &Call{Func: &Name{ID: "range", Ctx: Load}, Args: []Node{&Constant{Value: int64(10)}}},
					Body:   []Node{&Expr{Value: &Name{ID: "i", Ctx: Load}}},
				},
				&While{Test: &Constant{Value: true}, Body: []Node{&Break{}}},
			}},
		},
		{
			"imports and literals",
			&Program{Body: []Node{
				&Import{Names: []Alias{{Name: "os"}, {Name: "numpy", AsName: "np"}}},
				&ImportFrom{Module: "collections", Names: []Alias{{Name: "deque"}}, Level: 0},
				&Assign{Targets: []Node{&Name{ID: "pi", Ctx: Store}}, Value: &Constant{Value: 3.14}},
				&Assign{Targets: []Node{&Name{ID: "none", Ctx: Store}}, Value: &Constant{Value: nil}},
				&Assign{Targets: []Node{&Name{ID: "flag", Ctx: Store}}, Value: &Constant{Value: false}},
			}},
		},
		{
			"raise and unary",
			&Program{Body: []Node{
				&Raise{Exc: &Call{Func: &Name{ID: "ValueError", Ctx: Load}, Args: []Node{&Constant{Value: "bad"}}}},
				&Expr{Value: &UnaryOp{Op: "-", Operand: &Name{ID: "x", Ctx: Load}}},
				&Expr{Value: &Attribute{Value: &Name{ID: "os", Ctx: Load}, Attr: "path", Ctx: Load}},
				&Pass{},
				&Continue{},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := MarshalTree(tt.tree)
			require.NoError(t, err)

			back, err := UnmarshalTree(data)
			require.NoError(t, err)
			assert.True(t, Equal(tt.tree, back), "round trip must preserve structure")
		})
	}
}

func TestUnmarshalUnknownKindBecomesExtension(t *testing.T) {
	data := []byte(`{
		"kind": "MatchStatement",
		"fields": {"subject": "x", "cases": 3},
		"kids": [{"kind": "Constant", "value": 1}]
	}`)

	node, err := UnmarshalTree(data)
	require.NoError(t, err)

	ext, ok := node.(*Extension)
	require.True(t, ok)
	assert.Equal(t, "MatchStatement", ext.Tag)
	assert.Equal(t, "x", ext.Fields["subject"])
	assert.Equal(t, int64(3), ext.Fields["cases"])
	require.Len(t, ext.Kids, 1)
	assert.Equal(t, int64(1), ext.Kids[0].(*Constant).Value)
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	_, err := UnmarshalTree([]byte(`not json`))
	assert.Error(t, err)

	_, err = UnmarshalTree([]byte(`{"body": []}`))
	assert.Error(t, err, "missing kind tag")
}

func TestSaveLoadTree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	tree := sampleProgram()

	require.NoError(t, SaveTree(tree, path))

	back, err := LoadTree(path)
	require.NoError(t, err)
	assert.True(t, Equal(tree, back))
}

func TestMarshalPreservesIntegerLiterals(t *testing.T) {
	tree := &Program{Body: []Node{
		&Assign{Targets: []Node{&Name{ID: "n", Ctx: Store}}, Value: &Constant{Value: int64(7)}},
	}}

	data, err := MarshalTree(tree)
	require.NoError(t, err)

	back, err := UnmarshalTree(data)
	require.NoError(t, err)

	value := back.(*Program).Body[0].(*Assign).Value.(*Constant).Value
	assert.Equal(t, int64(7), value, "integers must not decay to float64")
}

func TestMarshalPreservesIntegralFloats(t *testing.T) {
	tests := []struct {
		name  string
		value float64
	}{
		{"whole", 2.0},
		{"negative whole", -5.0},
		{"zero", 0.0},
		{"fractional", 3.14},
		{"large", 1e20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := &Program{Body: []Node{
				&Assign{Targets: []Node{&Name{ID: "x", Ctx: Store}}, Value: &Constant{Value: tt.value}},
			}}

			data, err := MarshalTree(tree)
			require.NoError(t, err)

			back, err := UnmarshalTree(data)
			require.NoError(t, err)

			value := back.(*Program).Body[0].(*Assign).Value.(*Constant).Value
			require.IsType(t, float64(0), value, "floats must not decay to int64")
			assert.Equal(t, tt.value, value)
			assert.True(t, Equal(tree, back))
		})
	}
}
