// Package formatter renders analysis and rewrite reports for the
// terminal, in colored text or JSON.
package formatter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/pylens/pylens/analyze"
)

// Format selects the output rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	warningStyle = color.New(color.FgHiYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	okStyle      = color.New(color.FgGreen, color.Bold)
	detailStyle  = color.New(color.FgYellow)
	dimStyle     = color.New(color.FgWhite)
)

// AnalysisReports renders file analysis reports.
func AnalysisReports(reports []*analyze.FileReport, format Format) (string, error) {
	switch format {
	case FormatJSON:
		return marshalJSON(reports)
	case FormatText, "":
		return analysisText(reports), nil
	}
	return "", fmt.Errorf("unknown output format %q", format)
}

func analysisText(reports []*analyze.FileReport) string {
	var b strings.Builder
	totalUnused, totalUndefined := 0, 0

	for _, report := range reports {
		fmt.Fprintf(&b, "%s  %s\n",
			fileStyle.Sprint(report.Path),
			dimStyle.Sprintf("(%d nodes, %d functions, %d classes)",
				report.TotalNodes, report.Functions, report.Classes))

		if len(report.Unused) == 0 && len(report.Undefined) == 0 {
			b.WriteString(okStyle.Sprint("  no findings") + "\n\n")
			continue
		}

		if len(report.Unused) > 0 {
			totalUnused += len(report.Unused)
			b.WriteString(warningStyle.Sprint("  unused symbols") + "\n")
			table := tablewriter.NewWriter(&b)
			table.SetHeader([]string{"Name", "Kind", "Scope"})
			table.SetBorder(false)
			for _, sym := range report.Unused {
				table.Append([]string{sym.Name, sym.Kind, fmt.Sprintf("%d", sym.ScopeID)})
			}
			table.Render()
		}

		if len(report.Undefined) > 0 {
			totalUndefined += len(report.Undefined)
			b.WriteString(errorStyle.Sprint("  undefined names") + "\n")
			for _, name := range report.Undefined {
				fmt.Fprintf(&b, "    %s\n", detailStyle.Sprint(name))
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%d files, %d unused, %d undefined\n",
		len(reports), totalUnused, totalUndefined)
	return b.String()
}

// OptimizeReports renders pipeline run reports.
func OptimizeReports(reports []*analyze.OptimizeReport, format Format) (string, error) {
	switch format {
	case FormatJSON:
		return marshalJSON(reports)
	case FormatText, "":
		return optimizeText(reports), nil
	}
	return "", fmt.Errorf("unknown output format %q", format)
}

func optimizeText(reports []*analyze.OptimizeReport) string {
	var b strings.Builder
	table := tablewriter.NewWriter(&b)
	table.SetHeader([]string{"File", "Before", "After", "Removed"})
	table.SetBorder(false)
	for _, report := range reports {
		table.Append([]string{
			report.Path,
			fmt.Sprintf("%d", report.NodesBefore),
			fmt.Sprintf("%d", report.NodesAfter),
			fmt.Sprintf("%d", report.NodesBefore-report.NodesAfter),
		})
	}
	table.Render()

	if len(reports) > 0 {
		fmt.Fprintf(&b, "passes: %s\n", detailStyle.Sprint(strings.Join(reports[0].Passes, ", ")))
	}
	return b.String()
}

// Matches renders query results for one file.
func Matches(path string, matches []analyze.Match, format Format) (string, error) {
	switch format {
	case FormatJSON:
		return marshalJSON(matches)
	case FormatText, "":
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d match(es)\n", fileStyle.Sprint(path), len(matches))
	for _, m := range matches {
		if m.Detail != "" {
			fmt.Fprintf(&b, "  %s %s\n", m.Kind, detailStyle.Sprint(m.Detail))
			continue
		}
		fmt.Fprintf(&b, "  %s\n", m.Kind)
	}
	return b.String(), nil
}

func marshalJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(data) + "\n", nil
}
