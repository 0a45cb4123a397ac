package transform

import (
	"fmt"

	"github.com/pylens/pylens/internal/ast"
)

// VariableRenaming rewrites every Name node whose identifier equals Old to
// New, module-wide. The rewrite is deliberately scope-blind: a textual
// identifier rewrite is predictable and cheap, and callers that need
// scope-aware renaming can intersect with a symbol table's use sites
// themselves before choosing what to rename.
type VariableRenaming struct {
	Old string
	New string
}

// NewVariableRenaming returns a pass renaming Old to New.
func NewVariableRenaming(oldName, newName string) *VariableRenaming {
	return &VariableRenaming{Old: oldName, New: newName}
}

func (p *VariableRenaming) Name() string {
	return fmt.Sprintf("rename-%s-%s", p.Old, p.New)
}

func (p *VariableRenaming) Transform(tree ast.Node) (ast.Node, error) {
	ast.Walk(tree, func(n ast.Node) bool {
		if name, ok := n.(*ast.Name); ok && name.ID == p.Old {
			name.ID = p.New
		}
		return true
	})
	return tree, nil
}
