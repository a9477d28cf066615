package query

import (
	"context"
	"fmt"

	"github.com/dusk-indust/synapse/internal/graph"
)

// ContextReport is the 360-degree view of one symbol: its span and
// signature, who calls it, what it calls, and which types it references.
type ContextReport struct {
	Node     graph.Node         `json:"node"`
	Callers  []graph.ScoredNode `json:"callers,omitempty"`
	Callees  []graph.ScoredNode `json:"callees,omitempty"`
	TypeRefs []graph.Node       `json:"typeRefs,omitempty"`
}

// Context resolves symbol and assembles its full relationship view.
// Caller and callee lookups prefer the confidence-aware capability; when
// the store lacks it, plain lookups are used and every edge is reported
// at confidence 1.0.
func (e *Engine) Context(ctx context.Context, symbol string) (*ContextReport, error) {
	node, err := e.Resolve(ctx, symbol)
	if err != nil {
		return nil, err
	}

	report := &ContextReport{Node: *node}

	report.Callers, err = e.scoredCallers(ctx, node.ID)
	if err != nil {
		return nil, fmt.Errorf("context callers: %w", err)
	}
	report.Callees, err = e.scoredCallees(ctx, node.ID)
	if err != nil {
		return nil, fmt.Errorf("context callees: %w", err)
	}
	report.TypeRefs, err = e.store.GetTypeRefs(ctx, node.ID)
	if err != nil {
		return nil, fmt.Errorf("context type refs: %w", err)
	}
	return report, nil
}

func (e *Engine) scoredCallers(ctx context.Context, id string) ([]graph.ScoredNode, error) {
	if cs, ok := e.store.(graph.ConfidenceSearcher); ok {
		return cs.GetCallersWithConfidence(ctx, id)
	}
	nodes, err := e.store.GetCallers(ctx, id)
	if err != nil {
		return nil, err
	}
	return certain(nodes), nil
}

func (e *Engine) scoredCallees(ctx context.Context, id string) ([]graph.ScoredNode, error) {
	if cs, ok := e.store.(graph.ConfidenceSearcher); ok {
		return cs.GetCalleesWithConfidence(ctx, id)
	}
	nodes, err := e.store.GetCallees(ctx, id)
	if err != nil {
		return nil, err
	}
	return certain(nodes), nil
}

// certain wraps plain nodes at confidence 1.0.
func certain(nodes []graph.Node) []graph.ScoredNode {
	out := make([]graph.ScoredNode, len(nodes))
	for i, n := range nodes {
		out[i] = graph.ScoredNode{Node: n, Confidence: 1.0}
	}
	return out
}
