// Package plugin extends the node model and the pass catalog without
// touching either package. A Registry is an explicit object owned by the
// caller; there is no process-global registration, so two engines with
// different plugin sets can coexist in one binary.
package plugin

import (
	"fmt"
	"sort"

	"github.com/pylens/pylens/internal/ast"
	"github.com/pylens/pylens/internal/transform"
)

// NodeSpec describes an extension node kind. Extension nodes carry their
// payload in an open field bag; the spec supplies the semantics the bag
// alone cannot: a stable tag and an optional structural check.
type NodeSpec struct {
	// Tag matches ast.Extension.Tag for nodes of this kind.
	Tag string
	// Validate checks a node's field bag. Nil means any bag is accepted.
	Validate func(*ast.Extension) error
}

// PassFactory builds a pass from caller-supplied arguments. Factories for
// parameterless passes ignore args.
type PassFactory func(args map[string]any) (transform.Pass, error)

// PassSpec names a pass and its construction arguments, typically decoded
// from configuration.
type PassSpec struct {
	Name string
	Args map[string]any
}

// Hook observes a tree at a named lifecycle event. Hooks must not mutate
// the tree.
type Hook func(tree ast.Node)

// Registry holds extension node specs, pass factories, and hooks.
// It is not safe for concurrent mutation; populate it during setup.
type Registry struct {
	nodes  map[string]NodeSpec
	passes map[string]PassFactory
	hooks  map[string][]Hook
}

// NewRegistry returns a registry with every built-in pass pre-registered
// under its canonical name.
func NewRegistry() *Registry {
	r := &Registry{
		nodes:  make(map[string]NodeSpec),
		passes: make(map[string]PassFactory),
		hooks:  make(map[string][]Hook),
	}
	r.registerBuiltins()
	return r
}

func (r *Registry) registerBuiltins() {
	r.passes["constant-folding"] = func(map[string]any) (transform.Pass, error) {
		return transform.NewConstantFolding(), nil
	}
	r.passes["expression-simplification"] = func(map[string]any) (transform.Pass, error) {
		return transform.NewExpressionSimplification(), nil
	}
	r.passes["dead-code-elimination"] = func(map[string]any) (transform.Pass, error) {
		return transform.NewDeadCodeElimination(), nil
	}
	r.passes["unused-variable-removal"] = func(map[string]any) (transform.Pass, error) {
		return transform.NewUnusedVariableRemoval(), nil
	}
	r.passes["rename"] = func(args map[string]any) (transform.Pass, error) {
		oldName, ok := args["old"].(string)
		if !ok || oldName == "" {
			return nil, fmt.Errorf(`rename: missing "old" argument`)
		}
		newName, ok := args["new"].(string)
		if !ok || newName == "" {
			return nil, fmt.Errorf(`rename: missing "new" argument`)
		}
		return transform.NewVariableRenaming(oldName, newName), nil
	}
	r.passes["function-inlining"] = func(map[string]any) (transform.Pass, error) {
		return transform.NewFunctionInlining(), nil
	}
}

// RegisterNode adds an extension node spec. Re-registering a tag is an
// error; specs are identity, not configuration.
func (r *Registry) RegisterNode(spec NodeSpec) error {
	if spec.Tag == "" {
		return fmt.Errorf("register node: empty tag")
	}
	if _, dup := r.nodes[spec.Tag]; dup {
		return fmt.Errorf("register node: tag %q already registered", spec.Tag)
	}
	r.nodes[spec.Tag] = spec
	return nil
}

// Node returns the spec registered for tag.
func (r *Registry) Node(tag string) (NodeSpec, bool) {
	spec, ok := r.nodes[tag]
	return spec, ok
}

// NodeTags returns registered extension tags in sorted order.
func (r *Registry) NodeTags() []string {
	tags := make([]string, 0, len(r.nodes))
	for tag := range r.nodes {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// ValidateExtensions walks the tree and applies each registered node
// spec's Validate to matching Extension nodes. Unregistered tags pass;
// extension kinds are open.
func (r *Registry) ValidateExtensions(tree ast.Node) error {
	var firstErr error
	ast.Walk(tree, func(n ast.Node) bool {
		ext, ok := n.(*ast.Extension)
		if !ok {
			return true
		}
		spec, ok := r.nodes[ext.Tag]
		if !ok || spec.Validate == nil {
			return true
		}
		if err := spec.Validate(ext); err != nil {
			firstErr = fmt.Errorf("extension %q: %w", ext.Tag, err)
			return false
		}
		return true
	})
	return firstErr
}

// RegisterPass adds a pass factory under name. Built-in names cannot be
// overridden.
func (r *Registry) RegisterPass(name string, factory PassFactory) error {
	if name == "" {
		return fmt.Errorf("register pass: empty name")
	}
	if factory == nil {
		return fmt.Errorf("register pass: nil factory for %q", name)
	}
	if _, dup := r.passes[name]; dup {
		return fmt.Errorf("register pass: %q already registered", name)
	}
	r.passes[name] = factory
	return nil
}

// NewPass constructs the named pass with the given arguments.
func (r *Registry) NewPass(name string, args map[string]any) (transform.Pass, error) {
	factory, ok := r.passes[name]
	if !ok {
		return nil, fmt.Errorf("unknown pass %q", name)
	}
	return factory(args)
}

// PassNames returns every registered pass name, built-ins included, in
// sorted order.
func (r *Registry) PassNames() []string {
	names := make([]string, 0, len(r.passes))
	for name := range r.passes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildPipeline constructs the named passes in the given order. Any
// unknown name or factory failure aborts the whole build.
func (r *Registry) BuildPipeline(specs ...PassSpec) (*transform.Pipeline, error) {
	pipeline := transform.NewPipeline()
	for _, spec := range specs {
		pass, err := r.NewPass(spec.Name, spec.Args)
		if err != nil {
			return nil, err
		}
		pipeline.Add(pass)
	}
	return pipeline, nil
}

// RegisterHook subscribes fn to the named event.
func (r *Registry) RegisterHook(event string, fn Hook) {
	r.hooks[event] = append(r.hooks[event], fn)
}

// Emit calls the hooks subscribed to event, in registration order.
func (r *Registry) Emit(event string, tree ast.Node) {
	for _, fn := range r.hooks[event] {
		fn(tree)
	}
}
