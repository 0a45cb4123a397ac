package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pylens/pylens/formatter"
)

var queryCmd = &cobra.Command{
	Use:   "query <pattern> [paths...]",
	Short: "Find nodes matching a query pattern",
	Long: `Find nodes matching a query pattern. A pattern is "verb operand",
where the verb is one of call, assign, name, def, class, and the operand
is an exact name, a /regex/, or *. Clauses combine with "and" and "or".

Examples:
  pylens query "call print" main.py
  pylens query "def /^test_/ or class /^Test/" tests/`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pattern, paths := args[0], args[1:]

		engine, err := newEngine()
		if err != nil {
			return err
		}

		for _, path := range paths {
			matches, err := engine.QueryFile(path, pattern)
			if err != nil {
				return err
			}
			out, err := formatter.Matches(path, matches, outputFormat())
			if err != nil {
				return err
			}
			fmt.Print(out)
		}
		return nil
	},
}
