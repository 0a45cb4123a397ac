// Package symbols builds a symbol table from a syntax tree: one pass of
// scope resolution plus enough usage tracking to report unused and
// potentially-undefined variables. A table is a snapshot of the tree it was
// built from; any mutation of that tree makes the table stale and callers
// must analyze again.
package symbols

import (
	"strings"

	"github.com/pylens/pylens/internal/ast"
)

// SymbolKind classifies how a name was declared.
type SymbolKind int

const (
	KindParameter SymbolKind = iota
	KindLocal
	KindFunction
	KindClass
	KindImport
)

func (k SymbolKind) String() string {
	switch k {
	case KindParameter:
		return "parameter"
	case KindLocal:
		return "local"
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	case KindImport:
		return "import"
	}
	return "unknown"
}

// Symbol is a declared name and its recorded use sites.
type Symbol struct {
	Name    string
	Kind    SymbolKind
	ScopeID int
	Uses    []ast.Node

	// DefinedBeforeUse is false when the name was read somewhere in the
	// module before this declaration ran. It is tracked from the single
	// pass over reads that resolved to no binding at all, so a read that
	// resolves to an outer scope does not clear the flag on a later local
	// rebinding of the same name.
	DefinedBeforeUse bool
}

// Used reports whether the symbol has at least one recorded use site.
func (s *Symbol) Used() bool { return len(s.Uses) > 0 }

// Scope is one lexical region: the module, a function body, or a class body.
type Scope struct {
	ID       int
	Parent   *Scope
	Owner    ast.Node // FunctionDef or ClassDef, nil for the module scope
	Children []*Scope

	names map[string]*Symbol
	order []string
}

// Lookup searches this scope only.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	sym, ok := s.names[name]
	return sym, ok
}

// Resolve searches the scope chain innermost to outermost.
func (s *Scope) Resolve(name string) (*Symbol, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if sym, ok := cur.names[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// Symbols returns this scope's symbols in declaration order.
func (s *Scope) Symbols() []*Symbol {
	out := make([]*Symbol, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.names[name])
	}
	return out
}

// SymbolSummary is the exporter-facing view of one symbol.
type SymbolSummary struct {
	Kind string `json:"kind"`
	Uses int    `json:"uses"`
}

// Table is the result of analyzing one tree snapshot.
type Table struct {
	Module *Scope

	scopes    []*Scope
	scopeFor  map[ast.Node]*Scope
	undefined []string
	undefSeen map[string]bool
}

// Scopes returns every scope in creation (document) order.
func (t *Table) Scopes() []*Scope { return t.scopes }

// ScopeFor returns the scope introduced by a FunctionDef or ClassDef node.
func (t *Table) ScopeFor(owner ast.Node) (*Scope, bool) {
	sc, ok := t.scopeFor[owner]
	return sc, ok
}

// UnusedVariables returns every symbol with no recorded use. Module-level
// function and class declarations are excluded: they are the module's public
// surface and assumed intentionally exported. This is a deliberate reporting
// policy, not an oversight.
func (t *Table) UnusedVariables() []*Symbol {
	var unused []*Symbol
	for _, scope := range t.scopes {
		for _, sym := range scope.Symbols() {
			if sym.Used() {
				continue
			}
			if scope == t.Module && (sym.Kind == KindFunction || sym.Kind == KindClass) {
				continue
			}
			unused = append(unused, sym)
		}
	}
	return unused
}

// UndefinedVariables returns names read without any declaration in an
// enclosing scope, deduplicated, in first-seen order.
func (t *Table) UndefinedVariables() []string {
	return append([]string(nil), t.undefined...)
}

// ScopeSummary maps scope id to name to {kind, use count}, the shape
// exporters consume for annotation overlays.
func (t *Table) ScopeSummary() map[int]map[string]SymbolSummary {
	out := make(map[int]map[string]SymbolSummary, len(t.scopes))
	for _, scope := range t.scopes {
		entry := make(map[string]SymbolSummary, len(scope.names))
		for name, sym := range scope.names {
			entry[name] = SymbolSummary{Kind: sym.Kind.String(), Uses: len(sym.Uses)}
		}
		out[scope.ID] = entry
	}
	return out
}

// Analyze walks the tree once and returns the resulting table. It never
// fails: a name that cannot be resolved is recorded, not raised.
func Analyze(tree ast.Node) *Table {
	t := &Table{
		scopeFor:  make(map[ast.Node]*Scope),
		undefSeen: make(map[string]bool),
	}
	b := &builder{table: t}
	b.current = b.pushScope(nil, nil)
	t.Module = b.current
	b.analyze(tree)
	return t
}

type builder struct {
	table   *Table
	current *Scope
	nextID  int
}

func (b *builder) pushScope(parent *Scope, owner ast.Node) *Scope {
	scope := &Scope{
		ID:     b.nextID,
		Parent: parent,
		Owner:  owner,
		names:  make(map[string]*Symbol),
	}
	b.nextID++
	if parent != nil {
		parent.Children = append(parent.Children, scope)
	}
	b.table.scopes = append(b.table.scopes, scope)
	if owner != nil {
		b.table.scopeFor[owner] = scope
	}
	return scope
}

func (b *builder) declare(name string, kind SymbolKind) *Symbol {
	if name == "" {
		return nil
	}
	if sym, ok := b.current.names[name]; ok {
		// Redeclaration in the same scope overwrites the kind but keeps
		// the recorded uses.
		sym.Kind = kind
		return sym
	}
	sym := &Symbol{
		Name:             name,
		Kind:             kind,
		ScopeID:          b.current.ID,
		DefinedBeforeUse: !b.table.undefSeen[name],
	}
	b.current.names[name] = sym
	b.current.order = append(b.current.order, name)
	return sym
}

func (b *builder) use(name string, site ast.Node) {
	if sym, ok := b.current.Resolve(name); ok {
		sym.Uses = append(sym.Uses, site)
		return
	}
	if !b.table.undefSeen[name] {
		b.table.undefSeen[name] = true
		b.table.undefined = append(b.table.undefined, name)
	}
}

func (b *builder) analyze(n ast.Node) {
	if n == nil {
		return
	}
	switch n := n.(type) {
	case *ast.Program:
		b.analyzeBody(n.Body)

	case *ast.FunctionDef:
		// Decorators evaluate in the enclosing scope, before the name binds.
		for _, dec := range n.Decorators {
			b.analyze(dec)
		}
		b.declare(n.Name, KindFunction)
		outer := b.current
		b.current = b.pushScope(outer, n)
		for _, param := range n.Params {
			b.declare(param, KindParameter)
		}
		b.analyzeBody(n.Body)
		b.current = outer

	case *ast.ClassDef:
		for _, dec := range n.Decorators {
			b.analyze(dec)
		}
		for _, base := range n.Bases {
			b.analyze(base)
		}
		b.declare(n.Name, KindClass)
		outer := b.current
		b.current = b.pushScope(outer, n)
		b.analyzeBody(n.Body)
		b.current = outer

	case *ast.Assign:
		// Value first: reads on the right-hand side happen before the
		// target binds.
		b.analyze(n.Value)
		for _, target := range n.Targets {
			b.bindTarget(target)
		}

	case *ast.For:
		b.analyze(n.Iter)
		b.bindTarget(n.Target)
		b.analyzeBody(n.Body)
		b.analyzeBody(n.Else)

	case *ast.Import:
		for _, alias := range n.Names {
			b.declare(boundName(alias), KindImport)
		}

	case *ast.ImportFrom:
		for _, alias := range n.Names {
			b.declare(boundName(alias), KindImport)
		}

	case *ast.Name:
		switch n.Ctx {
		case ast.Load:
			b.use(n.ID, n)
		case ast.Store:
			b.declare(n.ID, KindLocal)
		}

	default:
		for _, child := range ast.Children(n) {
			b.analyze(child)
		}
	}
}

func (b *builder) analyzeBody(body []ast.Node) {
	for _, stmt := range body {
		b.analyze(stmt)
	}
}

// bindTarget declares assignment/loop targets. Non-Name targets (attribute
// or extension shapes) are analyzed normally: they read, they do not bind.
func (b *builder) bindTarget(target ast.Node) {
	if target == nil {
		return
	}
	if name, ok := target.(*ast.Name); ok {
		b.declare(name.ID, KindLocal)
		return
	}
	b.analyze(target)
}

// boundName is the identifier an import binds: the alias when present,
// otherwise the top-level package segment.
func boundName(alias ast.Alias) string {
	if alias.AsName != "" {
		return alias.AsName
	}
	if i := strings.IndexByte(alias.Name, '.'); i >= 0 {
		return alias.Name[:i]
	}
	return alias.Name
}
