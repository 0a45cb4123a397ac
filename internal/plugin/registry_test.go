package plugin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pylens/pylens/internal/ast"
	"github.com/pylens/pylens/internal/transform"
)

func TestBuiltinPassesPreRegistered(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, []string{
		"constant-folding",
		"dead-code-elimination",
		"expression-simplification",
		"function-inlining",
		"rename",
		"unused-variable-removal",
	}, r.PassNames())
}

func TestBuildPipeline(t *testing.T) {
	r := NewRegistry()

	pipeline, err := r.BuildPipeline(
		PassSpec{Name: "constant-folding"},
		PassSpec{Name: "rename", Args: map[string]any{"old": "x", "new": "y"}},
	)
	require.NoError(t, err)

	passes := pipeline.Passes()
	require.Len(t, passes, 2)
	assert.Equal(t, "constant-folding", passes[0].Name())
	assert.Equal(t, "rename-x-y", passes[1].Name())
}

func TestBuildPipelineErrors(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name  string
		specs []PassSpec
	}{
		{"unknown pass", []PassSpec{{Name: "ghost"}}},
		{"rename without args", []PassSpec{{Name: "rename"}}},
		{"rename missing new", []PassSpec{{Name: "rename", Args: map[string]any{"old": "x"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.BuildPipeline(tt.specs...)
			assert.Error(t, err)
		})
	}
}

func TestRegisterPass(t *testing.T) {
	r := NewRegistry()

	factory := func(map[string]any) (transform.Pass, error) {
		return transform.PassFunc{
			PassName: "noop",
			Fn:       func(tree ast.Node) (ast.Node, error) { return tree, nil },
		}, nil
	}

	require.NoError(t, r.RegisterPass("noop", factory))
	assert.Error(t, r.RegisterPass("noop", factory), "duplicate name rejected")
	assert.Error(t, r.RegisterPass("constant-folding", factory), "built-ins cannot be overridden")
	assert.Error(t, r.RegisterPass("", factory))
	assert.Error(t, r.RegisterPass("nil-factory", nil))

	pass, err := r.NewPass("noop", nil)
	require.NoError(t, err)
	assert.Equal(t, "noop", pass.Name())
}

func TestRegisterNode(t *testing.T) {
	r := NewRegistry()

	spec := NodeSpec{Tag: "match_stmt"}
	require.NoError(t, r.RegisterNode(spec))
	assert.Error(t, r.RegisterNode(spec), "duplicate tag rejected")
	assert.Error(t, r.RegisterNode(NodeSpec{}), "empty tag rejected")

	got, ok := r.Node("match_stmt")
	require.True(t, ok)
	assert.Equal(t, "match_stmt", got.Tag)

	_, ok = r.Node("unknown")
	assert.False(t, ok)

	assert.Equal(t, []string{"match_stmt"}, r.NodeTags())
}

func TestValidateExtensions(t *testing.T) {
	r := NewRegistry()
	errMissing := errors.New("missing subject field")
	require.NoError(t, r.RegisterNode(NodeSpec{
		Tag: "match_stmt",
		Validate: func(ext *ast.Extension) error {
			if _, ok := ext.Fields["subject"]; !ok {
				return errMissing
			}
			return nil
		},
	}))

	t.Run("valid node passes", func(t *testing.T) {
		tree := &ast.Program{Body: []ast.Node{
			&ast.Extension{Tag: "match_stmt", Fields: map[string]any{"subject": "x"}},
		}}
		assert.NoError(t, r.ValidateExtensions(tree))
	})

	t.Run("invalid node reports tag", func(t *testing.T) {
		tree := &ast.Program{Body: []ast.Node{
			&ast.Extension{Tag: "match_stmt"},
		}}
		err := r.ValidateExtensions(tree)
		require.Error(t, err)
		assert.ErrorIs(t, err, errMissing)
		assert.Contains(t, err.Error(), "match_stmt")
	})

	t.Run("unregistered tags pass", func(t *testing.T) {
		tree := &ast.Program{Body: []ast.Node{
			&ast.Extension{Tag: "with_stmt"},
		}}
		assert.NoError(t, r.ValidateExtensions(tree))
	})
}

func TestHooks(t *testing.T) {
	r := NewRegistry()

	var calls []string
	r.RegisterHook("before-pass", func(ast.Node) { calls = append(calls, "first") })
	r.RegisterHook("before-pass", func(ast.Node) { calls = append(calls, "second") })
	r.RegisterHook("after-pass", func(ast.Node) { calls = append(calls, "after") })

	tree := &ast.Program{}
	r.Emit("before-pass", tree)
	assert.Equal(t, []string{"first", "second"}, calls)

	r.Emit("no-subscribers", tree)
	assert.Equal(t, []string{"first", "second"}, calls, "unknown event is a no-op")
}
