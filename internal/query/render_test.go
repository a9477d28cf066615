package query

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dusk-indust/synapse/internal/graph"
	"github.com/stretchr/testify/assert"
)

func TestConfidenceTagBoundaries(t *testing.T) {
	cases := []struct {
		confidence float64
		tag        string
	}{
		{1.0, ""},
		{0.9, ""}, // boundary: >= 0.9 is untagged
		{0.89, " (~)"},
		{0.5, " (~)"}, // boundary: >= 0.5 is (~)
		{0.49, " (?)"},
		{0.0, " (?)"},
	}
	for _, c := range cases {
		assert.Equal(t, c.tag, ConfidenceTag(c.confidence), "confidence %v", c.confidence)
	}
}

func TestDepthLabels(t *testing.T) {
	assert.Equal(t, "Direct callers (will break)", DepthLabel(1))
	assert.Equal(t, "Indirect (may break)", DepthLabel(2))
	assert.Equal(t, "Transitive (review)", DepthLabel(3))
	assert.Equal(t, "Transitive (review)", DepthLabel(7))
}

func TestSearchReportNoResults(t *testing.T) {
	report := &SearchReport{Query: "ghost"}
	assert.Equal(t, `No results found for "ghost".`, report.String())
}

func TestSearchReportRendersGroups(t *testing.T) {
	report := &SearchReport{
		Query: "auth",
		Groups: []ResultGroup{
			{
				Process: "Authentication",
				Results: []graph.SearchResult{
					{Name: "validate", Label: graph.LabelFunction, FilePath: "src/auth.py"},
				},
			},
		},
		Ungrouped: []graph.SearchResult{
			{Name: "helper", Label: graph.LabelFunction, FilePath: "src/util.py"},
		},
		Total: 2,
	}
	text := report.String()

	assert.Contains(t, text, "=== Authentication ===")
	assert.Contains(t, text, "1. validate (Function) -- src/auth.py")
	assert.Contains(t, text, "=== Other results ===")
	assert.Contains(t, text, "2. helper (Function) -- src/util.py")
}

func TestSearchReportSnippetTruncation(t *testing.T) {
	long := strings.Repeat("x", 300)
	report := &SearchReport{
		Query: "q",
		Ungrouped: []graph.SearchResult{
			{Name: "f", Label: graph.LabelFunction, FilePath: "a.py", Snippet: long},
		},
		Total: 1,
	}
	text := report.String()
	assert.NotContains(t, text, strings.Repeat("x", 201))
	assert.Contains(t, text, strings.Repeat("x", 200))
}

func TestSearchReportSnippetTruncatesOnRuneBoundary(t *testing.T) {
	// 66 three-byte runes are 198 bytes; the next rune straddles the
	// 200-byte mark and must be dropped whole.
	long := strings.Repeat("世", 100)
	report := &SearchReport{
		Query: "q",
		Ungrouped: []graph.SearchResult{
			{Name: "f", Label: graph.LabelFunction, FilePath: "a.py", Snippet: long},
		},
		Total: 1,
	}
	text := report.String()
	assert.True(t, utf8.ValidString(text))
	assert.Contains(t, text, strings.Repeat("世", 66))
	assert.NotContains(t, text, strings.Repeat("世", 67))
}

func TestImpactReportNumbersAcrossTiers(t *testing.T) {
	conf := 0.95
	report := &ImpactReport{
		Symbol: graph.Node{Name: "validate", Label: graph.LabelFunction},
		Depth:  3,
		Entries: []ImpactEntry{
			{Node: graph.Node{Name: "handler", Label: graph.LabelFunction, FilePath: "src/api.py", StartLine: 5}, Depth: 1, Confidence: &conf},
			{Node: graph.Node{Name: "main", Label: graph.LabelFunction, FilePath: "src/main.py", StartLine: 1}, Depth: 2},
		},
	}
	text := report.String()

	assert.Contains(t, text, "Depth 1 - Direct callers (will break):")
	assert.Contains(t, text, "1. handler (Function) -- src/api.py:5  (confidence: 0.95)")
	assert.Contains(t, text, "Depth 2 - Indirect (may break):")
	assert.Contains(t, text, "2. main (Function) -- src/main.py:1")
	assert.Contains(t, text, "Total: 2 symbols")
}

func TestDiffReportRendering(t *testing.T) {
	report := &DiffReport{
		Files: []FileChanges{
			{
				Path:   "src/auth.py",
				Ranges: []LineRange{{Start: 10, End: 16}},
				Symbols: []AffectedSymbol{
					{Node: graph.Node{Name: "validate", Label: graph.LabelFunction, StartLine: 10, EndLine: 30}},
				},
			},
			{Path: "docs/readme.md"},
			{Path: "src/gone.py", Err: "store timeout"},
		},
	}
	text := report.String()

	assert.Contains(t, text, "Changed files: 3")
	assert.Contains(t, text, "- validate (Function) lines 10-30")
	assert.Contains(t, text, "(no indexed symbols in changed lines)")
	assert.Contains(t, text, "(error querying symbols: store timeout)")
	assert.Contains(t, text, "Total affected symbols: 1")
}

func TestDeadCodeReportRendering(t *testing.T) {
	empty := &DeadCodeReport{}
	assert.Equal(t, "No dead code detected.", empty.String())

	report := &DeadCodeReport{
		Total: 1,
		Files: []DeadFile{
			{Path: "src/old.py", Symbols: []graph.Node{
				{Name: "legacy", Label: graph.LabelFunction, StartLine: 4},
			}},
		},
	}
	text := report.String()
	assert.Contains(t, text, "Dead Code Report (1 symbols):")
	assert.Contains(t, text, "src/old.py")
	assert.Contains(t, text, "- legacy (Function) line 4")
}

func TestFormatRows(t *testing.T) {
	assert.Equal(t, "Query returned no results.", FormatRows(nil))

	text := FormatRows([][]any{{"validate", int64(3)}, {"handler", int64(1)}})
	assert.Contains(t, text, "Results (2 rows):")
	assert.Contains(t, text, "1. validate | 3")
	assert.Contains(t, text, "2. handler | 1")
}
