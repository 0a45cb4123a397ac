package export

import (
	"fmt"
	"strings"

	"github.com/pylens/pylens/internal/ast"
)

const graphmlHeader = `<?xml version="1.0" encoding="UTF-8"?>
<graphml xmlns="http://graphml.graphdrawing.org/xmlns">
  <key id="label" for="node" attr.name="label" attr.type="string"/>
  <key id="kind" for="node" attr.name="kind" attr.type="string"/>
  <graph id="ast" edgedefault="directed">
`

// GraphML renders the tree in GraphML, with label and kind data keys on
// every node and a directed edge per parent-child slot.
func (e *Exporter) GraphML(tree ast.Node) string {
	var nodes, edges strings.Builder
	e.writeGraphML(&nodes, &edges, tree, "")

	var b strings.Builder
	b.WriteString(graphmlHeader)
	b.WriteString(nodes.String())
	b.WriteString(edges.String())
	b.WriteString("  </graph>\n</graphml>\n")
	return b.String()
}

func (e *Exporter) writeGraphML(nodes, edges *strings.Builder, n ast.Node, parentID string) {
	id := e.id(n)
	fmt.Fprintf(nodes, "    <node id=%q>\n", id)
	fmt.Fprintf(nodes, "      <data key=\"label\">%s</data>\n", xmlEscape(label(n)))
	fmt.Fprintf(nodes, "      <data key=\"kind\">%s</data>\n", xmlEscape(n.Kind().String()))
	nodes.WriteString("    </node>\n")

	if parentID != "" {
		fmt.Fprintf(edges, "    <edge source=%q target=%q/>\n", parentID, id)
	}
	for _, child := range ast.Children(n) {
		e.writeGraphML(nodes, edges, child, id)
	}
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"\n", " ",
)

func xmlEscape(s string) string { return xmlEscaper.Replace(s) }
