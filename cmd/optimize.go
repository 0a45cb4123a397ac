package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pylens/pylens/analyze"
	"github.com/pylens/pylens/formatter"
	"github.com/pylens/pylens/internal/ast"
)

var optimizeWrite bool

var optimizeCmd = &cobra.Command{
	Use:   "optimize [paths...]",
	Short: "Run the configured rewrite pipeline over Python files",
	Long: `Run the configured rewrite pipeline over Python files and report
node counts before and after. With --write, each rewritten tree is saved
next to its source as <file>.ast.json.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("please provide file or directory paths")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		engine, err := newEngine()
		if err != nil {
			return err
		}

		// As with analyze, failed files do not hide rewritten ones.
		reports, runErr := collectOptimizeReports(ctx, engine, args)

		if optimizeWrite {
			for _, report := range reports {
				if err := ast.SaveTree(report.Tree, report.Path+".ast.json"); err != nil {
					return err
				}
			}
		}

		out, err := formatter.OptimizeReports(reports, outputFormat())
		if err != nil {
			return err
		}
		fmt.Print(out)
		return runErr
	},
}

func collectOptimizeReports(ctx context.Context, engine *analyze.Engine, paths []string) ([]*analyze.OptimizeReport, error) {
	var reports []*analyze.OptimizeReport
	var errs []error
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("error accessing %s: %w", path, err))
			continue
		}
		if info.IsDir() {
			dirReports, err := engine.OptimizeDir(ctx, path)
			if err != nil {
				errs = append(errs, err)
			}
			reports = append(reports, dirReports...)
			continue
		}
		report, err := engine.OptimizeFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		reports = append(reports, report)
	}
	return reports, errors.Join(errs...)
}

func init() {
	optimizeCmd.Flags().BoolVarP(&optimizeWrite, "write", "w", false, "save rewritten trees as <file>.ast.json")
}
