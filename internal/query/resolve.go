package query

import (
	"context"
	"fmt"

	"github.com/dusk-indust/synapse/internal/graph"
)

// Resolve maps a free-text symbol name to its single best node.
// Exact-name lookup runs first when the store supports it; otherwise, or
// when it returns nothing, full-text search decides. The first candidate
// is authoritative; there is no secondary tie-break. Returns ErrNotFound
// when both stages are empty or the candidate id no longer exists.
func (e *Engine) Resolve(ctx context.Context, name string) (*graph.Node, error) {
	best, err := e.resolveCandidate(ctx, name)
	if err != nil {
		return nil, err
	}
	if best == nil {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}

	node, err := e.store.GetNode(ctx, best.NodeID)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", name, err)
	}
	if node == nil {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return node, nil
}

// resolveCandidate returns the top search hit for name, or nil when
// neither channel produced one.
func (e *Engine) resolveCandidate(ctx context.Context, name string) (*graph.SearchResult, error) {
	if exact, ok := e.store.(graph.ExactNameSearcher); ok {
		results, err := exact.ExactNameSearch(ctx, name, 1)
		if err != nil {
			return nil, fmt.Errorf("exact name search: %w", err)
		}
		if len(results) > 0 {
			return &results[0], nil
		}
	}

	results, err := e.store.FTSSearch(ctx, name, 1)
	if err != nil {
		return nil, fmt.Errorf("fts search: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}
