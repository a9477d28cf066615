package query

import (
	"context"
	"fmt"

	"github.com/dusk-indust/synapse/internal/graph"
)

// ImpactEntry is one symbol affected by changing the analysed node.
// Confidence is set only for depth-1 entries, and only when the store
// supports confidence-aware caller lookup.
type ImpactEntry struct {
	Node       graph.Node `json:"node"`
	Depth      int        `json:"depth"`
	Confidence *float64   `json:"confidence,omitempty"`
}

// ImpactReport is the blast radius of changing one symbol, grouped by
// hop distance. An empty Entries slice means the symbol resolved but has
// no upstream dependents, which is a normal outcome rather than an error.
type ImpactReport struct {
	Symbol  graph.Node    `json:"symbol"`
	Depth   int           `json:"depth"` // effective depth after clamping
	Entries []ImpactEntry `json:"entries"`
}

// Impact resolves symbol and walks caller-direction CALLS edges breadth
// first, visiting each node once at its minimum distance. depth is
// clamped to [1, MaxTraverseDepth]. Depth-1 entries are annotated with
// edge confidence from a separate confidence-aware lookup joined by node
// id; when that capability is missing they are reported unannotated.
func (e *Engine) Impact(ctx context.Context, symbol string, depth int) (*ImpactReport, error) {
	if depth < 1 {
		depth = 1
	}
	if depth > MaxTraverseDepth {
		depth = MaxTraverseDepth
	}

	node, err := e.Resolve(ctx, symbol)
	if err != nil {
		return nil, err
	}

	discovered, err := e.store.TraverseWithDepth(ctx, node.ID, depth, graph.DirectionCallers)
	if err != nil {
		return nil, fmt.Errorf("impact traversal: %w", err)
	}

	report := &ImpactReport{Symbol: *node, Depth: depth}
	if len(discovered) == 0 {
		return report, nil
	}

	confidence := e.directCallerConfidence(ctx, node.ID)

	seen := make(map[string]bool, len(discovered))
	for _, d := range discovered {
		// A node is reported exactly once, at its minimum depth; the
		// store already yields entries in discovery order.
		if seen[d.Node.ID] {
			continue
		}
		seen[d.Node.ID] = true

		entry := ImpactEntry{Node: d.Node, Depth: d.Depth}
		if d.Depth == 1 {
			if c, ok := confidence[d.Node.ID]; ok {
				conf := c
				entry.Confidence = &conf
			}
		}
		report.Entries = append(report.Entries, entry)
	}
	return report, nil
}

// directCallerConfidence builds a node-id keyed confidence map for the
// depth-1 join. Missing capability or a failed lookup yields an empty
// map; direct callers are then reported unannotated.
func (e *Engine) directCallerConfidence(ctx context.Context, id string) map[string]float64 {
	cs, ok := e.store.(graph.ConfidenceSearcher)
	if !ok {
		return nil
	}
	callers, err := cs.GetCallersWithConfidence(ctx, id)
	if err != nil {
		return nil
	}
	out := make(map[string]float64, len(callers))
	for _, c := range callers {
		out[c.Node.ID] = c.Confidence
	}
	return out
}

// ByDepth groups entries by hop distance, ascending. Entry order inside
// a group is preserved.
func (r *ImpactReport) ByDepth() [][]ImpactEntry {
	var out [][]ImpactEntry
	byDepth := make(map[int][]ImpactEntry)
	maxDepth := 0
	for _, entry := range r.Entries {
		byDepth[entry.Depth] = append(byDepth[entry.Depth], entry)
		if entry.Depth > maxDepth {
			maxDepth = entry.Depth
		}
	}
	for d := 1; d <= maxDepth; d++ {
		if entries, ok := byDepth[d]; ok {
			out = append(out, entries)
		}
	}
	return out
}
