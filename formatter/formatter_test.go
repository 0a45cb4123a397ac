package formatter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pylens/pylens/analyze"
)

func sampleReports() []*analyze.FileReport {
	return []*analyze.FileReport{
		{
			Path:       "clean.py",
			TotalNodes: 12,
			Functions:  1,
		},
		{
			Path:       "messy.py",
			TotalNodes: 30,
			Functions:  2,
			Classes:    1,
			Unused: []analyze.SymbolIssue{
				{Name: "scratch", Kind: "local", ScopeID: 1},
			},
			Undefined: []string{"missing"},
		},
	}
}

func TestAnalysisReportsText(t *testing.T) {
	out, err := AnalysisReports(sampleReports(), FormatText)
	require.NoError(t, err)

	assert.Contains(t, out, "clean.py")
	assert.Contains(t, out, "no findings")
	assert.Contains(t, out, "scratch")
	assert.Contains(t, out, "missing")
	assert.Contains(t, out, "2 files, 1 unused, 1 undefined")
}

func TestAnalysisReportsJSON(t *testing.T) {
	out, err := AnalysisReports(sampleReports(), FormatJSON)
	require.NoError(t, err)

	var decoded []analyze.FileReport
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "messy.py", decoded[1].Path)
	assert.Equal(t, "scratch", decoded[1].Unused[0].Name)
}

func TestAnalysisReportsUnknownFormat(t *testing.T) {
	_, err := AnalysisReports(nil, Format("xml"))
	assert.Error(t, err)
}

func TestOptimizeReportsText(t *testing.T) {
	out, err := OptimizeReports([]*analyze.OptimizeReport{
		{
			Path:        "calc.py",
			Passes:      []string{"constant-folding", "dead-code-elimination"},
			NodesBefore: 20,
			NodesAfter:  14,
		},
	}, FormatText)
	require.NoError(t, err)

	assert.Contains(t, out, "calc.py")
	assert.Contains(t, out, "20")
	assert.Contains(t, out, "14")
	assert.Contains(t, out, "constant-folding, dead-code-elimination")
}

func TestMatches(t *testing.T) {
	matches := []analyze.Match{
		{Kind: "FunctionDef", Detail: "helper"},
		{Kind: "Pass"},
	}

	out, err := Matches("sample.py", matches, FormatText)
	require.NoError(t, err)
	assert.Contains(t, out, "sample.py: 2 match(es)")
	assert.Contains(t, out, "FunctionDef helper")

	jsonOut, err := Matches("sample.py", matches, FormatJSON)
	require.NoError(t, err)

	var decoded []analyze.Match
	require.NoError(t, json.Unmarshal([]byte(jsonOut), &decoded))
	assert.Len(t, decoded, 2)
}
