// Package analyze is the high-level entry point: it parses Python
// sources, runs symbol analysis and the configured rewrite pipeline, and
// returns reports ready for rendering.
package analyze

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/pylens/pylens/internal/ast"
	"github.com/pylens/pylens/internal/frontend"
	"github.com/pylens/pylens/internal/plugin"
	"github.com/pylens/pylens/internal/query"
	"github.com/pylens/pylens/internal/symbols"
	"github.com/pylens/pylens/internal/transform"
)

// SymbolIssue describes one defined-but-unused symbol.
type SymbolIssue struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	ScopeID int    `json:"scope_id"`
}

// FileReport is the analysis result for one file.
type FileReport struct {
	Path       string        `json:"path"`
	TotalNodes int           `json:"total_nodes"`
	Functions  int           `json:"functions"`
	Classes    int           `json:"classes"`
	Unused     []SymbolIssue `json:"unused,omitempty"`
	Undefined  []string      `json:"undefined,omitempty"`
}

// OptimizeReport is the result of running the pipeline over one file.
type OptimizeReport struct {
	Path        string   `json:"path"`
	Passes      []string `json:"passes"`
	NodesBefore int      `json:"nodes_before"`
	NodesAfter  int      `json:"nodes_after"`
	Tree        ast.Node `json:"-"`
}

// Match is one query hit, described for display.
type Match struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

// Engine ties the front end, the symbol analyzer, and the pass registry
// together behind one object. An Engine is safe for sequential reuse
// across files.
type Engine struct {
	logger   *zap.Logger
	parser   *frontend.Parser
	registry *plugin.Registry
	config   Config
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger replaces the default no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithRegistry supplies a registry carrying custom passes or extension
// node specs.
func WithRegistry(registry *plugin.Registry) Option {
	return func(e *Engine) { e.registry = registry }
}

// New builds an engine for the given configuration. The configured pass
// list is validated eagerly so a typo fails at startup, not mid-run.
func New(config Config, opts ...Option) (*Engine, error) {
	e := &Engine{
		logger:   zap.NewNop(),
		parser:   frontend.NewParser(),
		registry: plugin.NewRegistry(),
		config:   config,
	}
	for _, opt := range opts {
		opt(e)
	}
	if _, err := e.Pipeline(); err != nil {
		return nil, err
	}
	return e, nil
}

// Pipeline builds the pipeline the configuration describes: the named
// passes in order, then one rename pass per configured pair.
func (e *Engine) Pipeline() (*transform.Pipeline, error) {
	specs := make([]plugin.PassSpec, 0, len(e.config.Passes)+len(e.config.Renames))
	for _, name := range e.config.Passes {
		specs = append(specs, plugin.PassSpec{Name: name})
	}
	for _, pair := range e.config.Renames {
		specs = append(specs, plugin.PassSpec{
			Name: "rename",
			Args: map[string]any{"old": pair.Old, "new": pair.New},
		})
	}
	return e.registry.BuildPipeline(specs...)
}

// AnalyzeFile parses and analyzes the file at path.
func (e *Engine) AnalyzeFile(path string) (*FileReport, error) {
	tree, err := e.parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return e.analyzeTree(path, tree), nil
}

// AnalyzeSource parses and analyzes in-memory source; path only labels
// the report.
func (e *Engine) AnalyzeSource(path string, src []byte) (*FileReport, error) {
	tree, err := e.parser.ParseSource(src)
	if err != nil {
		return nil, err
	}
	return e.analyzeTree(path, tree), nil
}

func (e *Engine) analyzeTree(path string, tree *ast.Program) *FileReport {
	report := &FileReport{
		Path:       path,
		TotalNodes: ast.Count(tree),
	}
	ast.Walk(tree, func(n ast.Node) bool {
		switch n.Kind() {
		case ast.KindFunctionDef:
			report.Functions++
		case ast.KindClassDef:
			report.Classes++
		}
		return true
	})

	table := symbols.Analyze(tree)
	for _, sym := range table.UnusedVariables() {
		report.Unused = append(report.Unused, SymbolIssue{
			Name:    sym.Name,
			Kind:    sym.Kind.String(),
			ScopeID: sym.ScopeID,
		})
	}
	report.Undefined = table.UndefinedVariables()

	e.logger.Debug("analyzed file",
		zap.String("path", path),
		zap.Int("nodes", report.TotalNodes),
		zap.Int("unused", len(report.Unused)),
		zap.Int("undefined", len(report.Undefined)))
	return report
}

// OptimizeFile parses the file and runs the configured pipeline.
func (e *Engine) OptimizeFile(path string) (*OptimizeReport, error) {
	tree, err := e.parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return e.optimizeTree(path, tree)
}

// OptimizeSource runs the configured pipeline over in-memory source.
func (e *Engine) OptimizeSource(path string, src []byte) (*OptimizeReport, error) {
	tree, err := e.parser.ParseSource(src)
	if err != nil {
		return nil, err
	}
	return e.optimizeTree(path, tree)
}

func (e *Engine) optimizeTree(path string, tree *ast.Program) (*OptimizeReport, error) {
	pipeline, err := e.Pipeline()
	if err != nil {
		return nil, err
	}

	report := &OptimizeReport{Path: path, NodesBefore: ast.Count(tree)}
	for _, pass := range pipeline.Passes() {
		report.Passes = append(report.Passes, pass.Name())
	}

	out, err := pipeline.Run(tree)
	if err != nil {
		return nil, fmt.Errorf("optimize %s: %w", path, err)
	}
	report.NodesAfter = ast.Count(out)
	report.Tree = out

	e.logger.Debug("optimized file",
		zap.String("path", path),
		zap.Int("before", report.NodesBefore),
		zap.Int("after", report.NodesAfter))
	return report, nil
}

// QueryFile compiles the query and returns its matches in the file.
func (e *Engine) QueryFile(path, q string) ([]Match, error) {
	tree, err := e.parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return e.queryTree(tree, q)
}

// QuerySource compiles the query and returns its matches in the source.
func (e *Engine) QuerySource(src []byte, q string) ([]Match, error) {
	tree, err := e.parser.ParseSource(src)
	if err != nil {
		return nil, err
	}
	return e.queryTree(tree, q)
}

func (e *Engine) queryTree(tree ast.Node, q string) ([]Match, error) {
	pattern, err := query.Compile(q)
	if err != nil {
		return nil, err
	}
	var matches []Match
	for _, n := range query.FindMatches(tree, pattern) {
		matches = append(matches, Match{Kind: n.Kind().String(), Detail: describe(n)})
	}
	return matches, nil
}

// describe extracts the display detail for a matched node.
func describe(n ast.Node) string {
	switch n := n.(type) {
	case *ast.FunctionDef:
		return n.Name
	case *ast.ClassDef:
		return n.Name
	case *ast.Name:
		return n.ID
	case *ast.Call:
		return calleeName(n)
	case *ast.Assign:
		if len(n.Targets) > 0 {
			if name, ok := n.Targets[0].(*ast.Name); ok {
				return name.ID
			}
		}
	}
	return ""
}

func calleeName(call *ast.Call) string {
	switch fn := call.Func.(type) {
	case *ast.Name:
		return fn.ID
	case *ast.Attribute:
		return fn.Attr
	}
	return ""
}
