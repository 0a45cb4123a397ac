// Package ast defines the syntax tree that every other component of pylens
// traverses and rewrites. The tree is an owned, acyclic structure: each child
// appears under exactly one parent and nodes carry no back-pointer, so any
// code that needs ancestry must track it with an explicit stack while walking.
package ast

// Kind identifies the variant of a Node.
type Kind int

const (
	KindProgram Kind = iota
	KindFunctionDef
	KindClassDef
	KindAssign
	KindReturn
	KindIf
	KindFor
	KindWhile
	KindBinOp
	KindUnaryOp
	KindCall
	KindName
	KindAttribute
	KindConstant
	KindImport
	KindImportFrom
	KindExpr
	KindRaise
	KindBreak
	KindContinue
	KindPass
	KindExtension
)

var kindTags = map[Kind]string{
	KindProgram:     "Program",
	KindFunctionDef: "FunctionDef",
	KindClassDef:    "ClassDef",
	KindAssign:      "Assign",
	KindReturn:      "Return",
	KindIf:          "If",
	KindFor:         "For",
	KindWhile:       "While",
	KindBinOp:       "BinOp",
	KindUnaryOp:     "UnaryOp",
	KindCall:        "Call",
	KindName:        "Name",
	KindAttribute:   "Attribute",
	KindConstant:    "Constant",
	KindImport:      "Import",
	KindImportFrom:  "ImportFrom",
	KindExpr:        "Expr",
	KindRaise:       "Raise",
	KindBreak:       "Break",
	KindContinue:    "Continue",
	KindPass:        "Pass",
	KindExtension:   "Extension",
}

// String returns the stable serialization tag for the kind.
func (k Kind) String() string {
	if tag, ok := kindTags[k]; ok {
		return tag
	}
	return "Unknown"
}

// Ctx describes how a Name or Attribute participates in an expression.
type Ctx string

const (
	Load  Ctx = "load"
	Store Ctx = "store"
	Del   Ctx = "del"
)

// Node is implemented by every tree node. Implementations are pointer types;
// node identity is pointer identity.
type Node interface {
	Kind() Kind
}

var (
	_ Node = (*Program)(nil)
	_ Node = (*FunctionDef)(nil)
	_ Node = (*ClassDef)(nil)
	_ Node = (*Assign)(nil)
	_ Node = (*Return)(nil)
	_ Node = (*If)(nil)
	_ Node = (*For)(nil)
	_ Node = (*While)(nil)
	_ Node = (*BinOp)(nil)
	_ Node = (*UnaryOp)(nil)
	_ Node = (*Call)(nil)
	_ Node = (*Name)(nil)
	_ Node = (*Attribute)(nil)
	_ Node = (*Constant)(nil)
	_ Node = (*Import)(nil)
	_ Node = (*ImportFrom)(nil)
	_ Node = (*Expr)(nil)
	_ Node = (*Raise)(nil)
	_ Node = (*Break)(nil)
	_ Node = (*Continue)(nil)
	_ Node = (*Pass)(nil)
	_ Node = (*Extension)(nil)
)

// Program is the root node of a module.
type Program struct {
	Body []Node
}

// FunctionDef declares a function. Params are plain identifiers.
type FunctionDef struct {
	Name       string
	Params     []string
	Body       []Node
	Decorators []Node
}

// ClassDef declares a class.
type ClassDef struct {
	Name       string
	Bases      []Node
	Body       []Node
	Decorators []Node
}

// Assign binds Value to one or more targets.
type Assign struct {
	Targets []Node
	Value   Node
}

// Return exits the enclosing function. Value may be nil.
type Return struct {
	Value Node
}

// If branches on Test. Else holds the orelse block and may be empty.
type If struct {
	Test Node
	Body []Node
	Else []Node
}

// For iterates Target over Iter.
type For struct {
	Target Node
	Iter   Node
	Body   []Node
	Else   []Node
}

// While loops on Test.
type While struct {
	Test Node
	Body []Node
	Else []Node
}

// BinOp applies Op to Left and Right. Op is the surface operator
// ("+", "-", "*", "/", "//", "%", "**", comparison and boolean operators).
type BinOp struct {
	Left  Node
	Op    string
	Right Node
}

// UnaryOp applies Op ("-", "+", "not", "~") to Operand.
type UnaryOp struct {
	Op      string
	Operand Node
}

// Call invokes Func with positional Args.
type Call struct {
	Func Node
	Args []Node
}

// Name is a bare identifier reference.
type Name struct {
	ID  string
	Ctx Ctx
}

// Attribute accesses Attr on Value.
type Attribute struct {
	Value Node
	Attr  string
	Ctx   Ctx
}

// Constant holds a literal. Value is one of nil, bool, int64, float64,
// or string; see serialize.go for the wire representation.
type Constant struct {
	Value any
}

// Alias is one imported name with an optional binding name.
type Alias struct {
	Name   string `json:"name"`
	AsName string `json:"asname,omitempty"`
}

// Import is a plain import statement.
type Import struct {
	Names []Alias
}

// ImportFrom imports names from a module. Level counts leading dots.
type ImportFrom struct {
	Module string
	Names  []Alias
	Level  int
}

// Expr is an expression evaluated for effect at statement position.
type Expr struct {
	Value Node
}

// Raise raises Exc, optionally chained from Cause. Both may be nil.
type Raise struct {
	Exc   Node
	Cause Node
}

// Break terminates the innermost loop.
type Break struct{}

// Continue advances the innermost loop.
type Continue struct{}

// Pass is the no-op statement.
type Pass struct{}

// Extension carries a node kind the core does not know about. Generic
// traversal descends into Kids and treats Fields as opaque, so plugin
// kinds degrade to leaves instead of breaking walks.
type Extension struct {
	Tag    string
	Fields map[string]any
	Kids   []Node
}

func (*Program) Kind() Kind     { return KindProgram }
func (*FunctionDef) Kind() Kind { return KindFunctionDef }
func (*ClassDef) Kind() Kind    { return KindClassDef }
func (*Assign) Kind() Kind      { return KindAssign }
func (*Return) Kind() Kind      { return KindReturn }
func (*If) Kind() Kind          { return KindIf }
func (*For) Kind() Kind         { return KindFor }
func (*While) Kind() Kind       { return KindWhile }
func (*BinOp) Kind() Kind       { return KindBinOp }
func (*UnaryOp) Kind() Kind     { return KindUnaryOp }
func (*Call) Kind() Kind        { return KindCall }
func (*Name) Kind() Kind        { return KindName }
func (*Attribute) Kind() Kind   { return KindAttribute }
func (*Constant) Kind() Kind    { return KindConstant }
func (*Import) Kind() Kind      { return KindImport }
func (*ImportFrom) Kind() Kind  { return KindImportFrom }
func (*Expr) Kind() Kind        { return KindExpr }
func (*Raise) Kind() Kind       { return KindRaise }
func (*Break) Kind() Kind       { return KindBreak }
func (*Continue) Kind() Kind    { return KindContinue }
func (*Pass) Kind() Kind        { return KindPass }
func (*Extension) Kind() Kind   { return KindExtension }
