// Package transform sequences named rewrite passes over a syntax tree.
// Each pass owns its input tree exclusively for the duration of Transform
// and hands exclusive ownership of its output to the next stage. Passes
// never fail for lack of a rewrite opportunity; the only hard error is a
// tree that violates the structural invariants.
package transform

import (
	"fmt"

	"github.com/pylens/pylens/internal/ast"
)

// Pass is a single named, composable tree-to-tree rewrite.
type Pass interface {
	// Name is stable and unique within a pipeline.
	Name() string
	// Transform rewrites the tree. Subtrees the pass cannot improve are
	// returned unchanged.
	Transform(tree ast.Node) (ast.Node, error)
}

// PassFunc adapts a function to the Pass interface.
type PassFunc struct {
	PassName string
	Fn       func(ast.Node) (ast.Node, error)
}

func (p PassFunc) Name() string { return p.PassName }

func (p PassFunc) Transform(tree ast.Node) (ast.Node, error) { return p.Fn(tree) }

var _ Pass = PassFunc{}

// Pipeline applies passes in registration order, feeding each pass's output
// to the next. The pipeline itself inspects nothing; it only sequences.
type Pipeline struct {
	passes []Pass
}

// NewPipeline builds a pipeline over the given passes.
func NewPipeline(passes ...Pass) *Pipeline {
	return &Pipeline{passes: passes}
}

// Add appends a pass and returns the pipeline for chaining.
func (p *Pipeline) Add(pass Pass) *Pipeline {
	p.passes = append(p.passes, pass)
	return p
}

// Passes returns the registered passes in order.
func (p *Pipeline) Passes() []Pass {
	return append([]Pass(nil), p.passes...)
}

// Get returns the registered pass with the given name.
func (p *Pipeline) Get(name string) (Pass, bool) {
	for _, pass := range p.passes {
		if pass.Name() == name {
			return pass, true
		}
	}
	return nil, false
}

// Remove drops the pass with the given name, reporting whether it existed.
func (p *Pipeline) Remove(name string) bool {
	for i, pass := range p.passes {
		if pass.Name() == name {
			p.passes = append(p.passes[:i], p.passes[i+1:]...)
			return true
		}
	}
	return false
}

// Run applies every pass in order. Structurally invalid input aborts at the
// offending pass with its name in the error.
func (p *Pipeline) Run(tree ast.Node) (ast.Node, error) {
	current := tree
	for _, pass := range p.passes {
		if err := ast.Validate(current); err != nil {
			return nil, fmt.Errorf("pass %q: %w", pass.Name(), err)
		}
		next, err := pass.Transform(current)
		if err != nil {
			return nil, fmt.Errorf("pass %q: %w", pass.Name(), err)
		}
		current = next
	}
	return current, nil
}

// Optimize runs the canonical optimization ordering over the tree.
func Optimize(tree ast.Node) (ast.Node, error) {
	pipeline := NewPipeline(
		NewConstantFolding(),
		NewExpressionSimplification(),
		NewDeadCodeElimination(),
		NewUnusedVariableRemoval(),
	)
	return pipeline.Run(tree)
}
