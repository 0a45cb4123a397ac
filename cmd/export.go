package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pylens/pylens/internal/export"
	"github.com/pylens/pylens/internal/frontend"
	"github.com/pylens/pylens/internal/symbols"
)

var (
	exportFormat      string
	exportOut         string
	exportWithSymbols bool
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Render a file's syntax tree as dot, graphml, html, or json",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		tree, err := frontend.NewParser().ParseFile(path)
		if err != nil {
			return err
		}

		var opts []export.Option
		if exportWithSymbols {
			opts = append(opts, export.WithSymbols(symbols.Analyze(tree)))
		}
		exporter := export.New(opts...)

		if exportOut != "" {
			return exporter.RenderToFile(exportFormat, exportOut, tree)
		}
		data, err := exporter.Render(exportFormat, tree)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "dot",
		fmt.Sprintf("output format (%s)", strings.Join(export.Formats(), ", ")))
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write output to file instead of stdout")
	exportCmd.Flags().BoolVar(&exportWithSymbols, "symbols", false, "annotate the export with symbol table data")
}
