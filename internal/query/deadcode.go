package query

import (
	"context"
	"fmt"

	"github.com/dusk-indust/synapse/internal/graph"
)

// DeadCodeReport lists symbols flagged unreachable by the indexer,
// grouped by file in first-encounter order.
type DeadCodeReport struct {
	Files []DeadFile `json:"files"`
	Total int        `json:"total"`
}

// DeadFile is the dead symbols of one file.
type DeadFile struct {
	Path    string       `json:"path"`
	Symbols []graph.Node `json:"symbols"`
}

// DeadCode returns all dead symbols in the graph, grouped by file.
func (e *Engine) DeadCode(ctx context.Context) (*DeadCodeReport, error) {
	symbols, err := e.store.DeadSymbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("dead code: %w", err)
	}

	report := &DeadCodeReport{Total: len(symbols)}
	index := make(map[string]int)
	for _, sym := range symbols {
		i, seen := index[sym.FilePath]
		if !seen {
			i = len(report.Files)
			index[sym.FilePath] = i
			report.Files = append(report.Files, DeadFile{Path: sym.FilePath})
		}
		report.Files[i].Symbols = append(report.Files[i].Symbols, sym)
	}
	return report, nil
}

// Overview returns graph-wide statistics.
func (e *Engine) Overview(ctx context.Context) (*graph.GraphStats, error) {
	stats, err := e.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("overview: %w", err)
	}
	return stats, nil
}
