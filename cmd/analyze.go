package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pylens/pylens/analyze"
	"github.com/pylens/pylens/formatter"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [paths...]",
	Short: "Report unused and undefined symbols per file",
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

		// Render whatever analyzed cleanly before surfacing failures, so
		// one unparsable file does not hide the rest of the run.
		reports, runErr := collectReports(ctx, engine, args)

		out, err := formatter.AnalysisReports(reports, outputFormat())
		if err != nil {
			return err
		}
		fmt.Print(out)

		if runErr != nil {
			return runErr
		}
		for _, report := range reports {
			if len(report.Unused) > 0 || len(report.Undefined) > 0 {
				os.Exit(1)
			}
		}
		return nil
	},
}

func collectReports(ctx context.Context, engine *analyze.Engine, paths []string) ([]*analyze.FileReport, error) {
	var reports []*analyze.FileReport
	var errs []error
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("error accessing %s: %w", path, err))
			continue
		}
		if info.IsDir() {
			dirReports, err := engine.AnalyzeDir(ctx, path)
			if err != nil {
				errs = append(errs, err)
			}
			reports = append(reports, dirReports...)
			continue
		}
		report, err := engine.AnalyzeFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		reports = append(reports, report)
	}
	return reports, errors.Join(errs...)
}
