package export

import (
	"encoding/json"
	"fmt"

	"github.com/pylens/pylens/internal/ast"
)

// Summary renders node-count, depth, and per-kind statistics as indented
// JSON. With a symbol table attached, per-scope symbol summaries are
// included under "scopes".
func (e *Exporter) Summary(tree ast.Node) ([]byte, error) {
	data, err := json.MarshalIndent(e.metrics(tree), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}
	return append(data, '\n'), nil
}
