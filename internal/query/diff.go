package query

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/dusk-indust/synapse/internal/graph"
)

// Only these two line forms are semantically parsed from a unified diff;
// everything else is carry text.
var (
	diffFilePattern = regexp.MustCompile(`^diff --git a/(.+?) b/(.+)$`)
	diffHunkPattern = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)(?:,(\d+))? @@`)
)

// LineRange is a closed interval of post-image line numbers.
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// AffectedSymbol is one indexed symbol overlapping a changed range.
type AffectedSymbol struct {
	Node  graph.Node `json:"node"`
	Range LineRange  `json:"range"` // the first changed range it overlaps
}

// FileChanges holds one changed file's ranges and overlapping symbols.
// Err carries a per-file store failure; the rest of the diff still
// succeeds.
type FileChanges struct {
	Path    string           `json:"path"`
	Ranges  []LineRange      `json:"ranges"`
	Symbols []AffectedSymbol `json:"symbols"`
	Err     string           `json:"error,omitempty"`
}

// DiffReport maps a unified diff to affected symbols, per file, in diff
// order.
type DiffReport struct {
	Files []FileChanges `json:"files"`
}

// TotalAffected counts symbols across all files.
func (r *DiffReport) TotalAffected() int {
	total := 0
	for _, f := range r.Files {
		total += len(f.Symbols)
	}
	return total
}

// AffectedSymbols parses unified-diff text and reports, per changed
// file, the indexed symbols whose spans overlap a changed range.
// Returns ErrEmptyDiff for blank input and ErrUnparseableDiff when no
// file/hunk structure is recognizable. A store failure for one file is
// recorded inline on that file and the remaining files still resolve.
func (e *Engine) AffectedSymbols(ctx context.Context, diffText string) (*DiffReport, error) {
	if strings.TrimSpace(diffText) == "" {
		return nil, ErrEmptyDiff
	}

	changed, order := parseDiff(diffText)
	if len(order) == 0 {
		return nil, ErrUnparseableDiff
	}

	report := &DiffReport{}
	for _, path := range order {
		fc := FileChanges{Path: path, Ranges: changed[path]}

		symbols, err := e.store.SymbolsInFile(ctx, path)
		if err != nil {
			fc.Err = err.Error()
			report.Files = append(report.Files, fc)
			continue
		}

		for _, sym := range symbols {
			for _, rng := range fc.Ranges {
				if sym.StartLine <= rng.End && sym.EndLine >= rng.Start {
					// One report per symbol per file: the first
					// overlapping range wins.
					fc.Symbols = append(fc.Symbols, AffectedSymbol{Node: sym, Range: rng})
					break
				}
			}
		}
		report.Files = append(report.Files, fc)
	}
	return report, nil
}

// parseDiff extracts post-image changed ranges per file. The current
// file is tracked across lines; each hunk contributes
// [newStart, newStart+newCount-1] with newCount defaulting to 1. A file
// header with no hunks still yields an entry with no ranges.
func parseDiff(diffText string) (map[string][]LineRange, []string) {
	changed := make(map[string][]LineRange)
	var order []string
	var current string

	for _, line := range strings.Split(diffText, "\n") {
		if m := diffFilePattern.FindStringSubmatch(line); m != nil {
			current = m[2]
			if _, seen := changed[current]; !seen {
				changed[current] = nil
				order = append(order, current)
			}
			continue
		}

		m := diffHunkPattern.FindStringSubmatch(line)
		if m == nil || current == "" {
			continue
		}
		start, _ := strconv.Atoi(m[1])
		count := 1
		if m[2] != "" {
			count, _ = strconv.Atoi(m[2])
		}
		if count < 1 {
			// Pure deletions touch no post-image lines.
			continue
		}
		changed[current] = append(changed[current], LineRange{Start: start, End: start + count - 1})
	}
	return changed, order
}
