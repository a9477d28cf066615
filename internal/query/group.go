package query

import (
	"context"

	"github.com/dusk-indust/synapse/internal/graph"
)

// groupByProcess partitions results by the store's node-to-process map.
// Groups appear in first-encounter order of process names; within a
// group the original relevance order is preserved. Any node without a
// membership (or when the capability is absent or failing) lands in the
// ungrouped bucket. Grouping is an annotation, never a hard error.
func (e *Engine) groupByProcess(ctx context.Context, results []graph.SearchResult) ([]ResultGroup, []graph.SearchResult) {
	if len(results) == 0 {
		return nil, nil
	}

	mapper, ok := e.store.(graph.ProcessMapper)
	if !ok {
		return nil, results
	}

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.NodeID
	}

	memberships, err := mapper.GetProcessMemberships(ctx, ids)
	if err != nil || len(memberships) == 0 {
		return nil, results
	}

	groupIndex := make(map[string]int)
	var groups []ResultGroup
	var ungrouped []graph.SearchResult

	for _, r := range results {
		process, member := memberships[r.NodeID]
		if !member {
			ungrouped = append(ungrouped, r)
			continue
		}
		i, seen := groupIndex[process]
		if !seen {
			i = len(groups)
			groupIndex[process] = i
			groups = append(groups, ResultGroup{Process: process})
		}
		groups[i].Results = append(groups[i].Results, r)
	}
	return groups, ungrouped
}
