package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/pylens/pylens/internal/ast"
)

type htmlNode struct {
	Kind     string
	Detail   string
	Children []*htmlNode
}

type htmlScope struct {
	ID      int
	Owner   string
	Symbols []htmlSymbol
}

type htmlSymbol struct {
	Name string
	Kind string
	Uses int
}

type htmlPage struct {
	Root       *htmlNode
	TotalNodes int
	MaxDepth   int
	Kinds      []htmlKindCount
	Scopes     []htmlScope
}

type htmlKindCount struct {
	Kind  string
	Count int
}

var htmlTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Syntax Tree</title>
<style>
body { font-family: monospace; margin: 2em; background: #fafafa; }
details { margin-left: 1.2em; }
summary { cursor: pointer; }
.kind { color: #0550ae; font-weight: bold; }
.detail { color: #953800; }
.leaf { margin-left: 1.2em; display: block; }
table { border-collapse: collapse; margin-top: 0.5em; }
td, th { border: 1px solid #ccc; padding: 2px 8px; text-align: left; }
section { margin-bottom: 1.5em; }
</style>
</head>
<body>
<section>
<h2>Summary</h2>
<p>{{.TotalNodes}} nodes, max depth {{.MaxDepth}}</p>
<table>
<tr><th>Kind</th><th>Count</th></tr>
{{range .Kinds}}<tr><td>{{.Kind}}</td><td>{{.Count}}</td></tr>
{{end}}</table>
</section>
{{if .Scopes}}<section>
<h2>Scopes</h2>
{{range .Scopes}}<h3>scope {{.ID}} ({{.Owner}})</h3>
<table>
<tr><th>Name</th><th>Kind</th><th>Uses</th></tr>
{{range .Symbols}}<tr><td>{{.Name}}</td><td>{{.Kind}}</td><td>{{.Uses}}</td></tr>
{{end}}</table>
{{end}}</section>
{{end}}<section>
<h2>Tree</h2>
{{template "node" .Root}}
</section>
</body>
</html>
{{define "node"}}{{if .Children}}<details open>
<summary><span class="kind">{{.Kind}}</span>{{if .Detail}} <span class="detail">{{.Detail}}</span>{{end}}</summary>
{{range .Children}}{{template "node" .}}{{end}}</details>
{{else}}<span class="leaf"><span class="kind">{{.Kind}}</span>{{if .Detail}} <span class="detail">{{.Detail}}</span>{{end}}</span>
{{end}}{{end}}`))

// HTML renders a self-contained page with the summary statistics, the
// optional per-scope symbol tables, and a collapsible rendering of the
// tree. No external assets are referenced.
func (e *Exporter) HTML(tree ast.Node) ([]byte, error) {
	m := e.metrics(tree)
	page := htmlPage{
		Root:       buildHTMLNode(tree),
		TotalNodes: m.TotalNodes,
		MaxDepth:   m.MaxDepth,
	}
	for _, kind := range sortedKinds(m.KindCounts) {
		page.Kinds = append(page.Kinds, htmlKindCount{Kind: kind, Count: m.KindCounts[kind]})
	}
	if e.table != nil {
		for _, scope := range e.table.Scopes() {
			hs := htmlScope{ID: scope.ID, Owner: scopeOwnerLabel(scope.Owner)}
			for _, sym := range scope.Symbols() {
				hs.Symbols = append(hs.Symbols, htmlSymbol{
					Name: sym.Name,
					Kind: sym.Kind.String(),
					Uses: len(sym.Uses),
				})
			}
			page.Scopes = append(page.Scopes, hs)
		}
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

func buildHTMLNode(n ast.Node) *htmlNode {
	kind, detail, _ := strings.Cut(label(n), "\n")
	view := &htmlNode{Kind: kind, Detail: detail}
	for _, child := range ast.Children(n) {
		view.Children = append(view.Children, buildHTMLNode(child))
	}
	return view
}

func scopeOwnerLabel(owner ast.Node) string {
	switch owner := owner.(type) {
	case *ast.FunctionDef:
		return "def " + owner.Name
	case *ast.ClassDef:
		return "class " + owner.Name
	}
	return "module"
}
