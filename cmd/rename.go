package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pylens/pylens/internal/ast"
	"github.com/pylens/pylens/internal/frontend"
	"github.com/pylens/pylens/internal/query"
	"github.com/pylens/pylens/internal/transform"
)

var renameWrite bool

var renameCmd = &cobra.Command{
	Use:   "rename <old> <new> [paths...]",
	Short: "Rename every occurrence of a variable",
	Long: `Rename every occurrence of a variable across the given files. The
rename applies to all scopes. With --write, each renamed tree is saved
next to its source as <file>.ast.json.`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		oldName, newName, paths := args[0], args[1], args[2:]

		parser := frontend.NewParser()
		pass := transform.NewVariableRenaming(oldName, newName)
		pattern := query.NamePattern{Name: query.Exact(oldName)}

		for _, path := range paths {
			tree, err := parser.ParseFile(path)
			if err != nil {
				return err
			}
			hits := query.CountMatches(tree, pattern)

			out, err := pass.Transform(tree)
			if err != nil {
				return err
			}
			fmt.Printf("%s: renamed %d occurrence(s) of %s\n", path, hits, oldName)

			if renameWrite {
				if err := ast.SaveTree(out, path+".ast.json"); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

func init() {
	renameCmd.Flags().BoolVarP(&renameWrite, "write", "w", false, "save renamed trees as <file>.ast.json")
}
