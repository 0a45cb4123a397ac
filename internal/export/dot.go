package export

import (
	"fmt"
	"strings"

	"github.com/pylens/pylens/internal/ast"
)

// dotStyles maps node kinds to Graphviz shape and fill color. Kinds
// without an entry fall back to a plain box.
var dotStyles = map[ast.Kind]struct{ shape, color string }{
	ast.KindFunctionDef: {"box", "lightblue"},
	ast.KindClassDef:    {"diamond", "plum"},
	ast.KindAssign:      {"box", "palegreen"},
	ast.KindBinOp:       {"ellipse", "orange"},
	ast.KindUnaryOp:     {"ellipse", "moccasin"},
	ast.KindName:        {"circle", "salmon"},
	ast.KindConstant:    {"plaintext", "white"},
	ast.KindCall:        {"box", "lightcyan"},
	ast.KindIf:          {"diamond", "khaki"},
	ast.KindFor:         {"box", "violet"},
	ast.KindWhile:       {"box", "pink"},
	ast.KindReturn:      {"triangle", "tomato"},
	ast.KindImport:      {"parallelogram", "tan"},
	ast.KindImportFrom:  {"parallelogram", "tan"},
}

// DOT renders the tree as a Graphviz digraph, one node per tree node and
// one edge per parent-child slot.
func (e *Exporter) DOT(tree ast.Node) string {
	var b strings.Builder
	b.WriteString("digraph ast {\n")
	b.WriteString("  node [shape=box style=filled fillcolor=white];\n")
	b.WriteString("  edge [arrowhead=none];\n")
	e.writeDOT(&b, tree, "")
	b.WriteString("}\n")
	return b.String()
}

func (e *Exporter) writeDOT(b *strings.Builder, n ast.Node, parentID string) {
	id := e.id(n)
	style, ok := dotStyles[n.Kind()]
	if !ok {
		style.shape, style.color = "box", "white"
	}
	fmt.Fprintf(b, "  %s [label=\"%s\" shape=%s fillcolor=\"%s\"];\n",
		id, dotLabel(n), style.shape, style.color)
	if parentID != "" {
		fmt.Fprintf(b, "  %s -> %s;\n", parentID, id)
	}
	for _, child := range ast.Children(n) {
		e.writeDOT(b, child, id)
	}
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func dotLabel(n ast.Node) string {
	return dotEscaper.Replace(label(n))
}
