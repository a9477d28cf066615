package query

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/synapse/internal/graph"
)

// SearchReport holds fused search results partitioned by execution
// process. Groups appear in first-encounter order; Ungrouped collects
// every result without a process membership. Groups plus Ungrouped
// exactly partition the fused result list.
type SearchReport struct {
	Query     string               `json:"query"`
	Groups    []ResultGroup        `json:"groups,omitempty"`
	Ungrouped []graph.SearchResult `json:"ungrouped,omitempty"`
	Total     int                  `json:"total"`
}

// ResultGroup is the slice of results belonging to one process, in
// original relevance order.
type ResultGroup struct {
	Process string               `json:"process"`
	Results []graph.SearchResult `json:"results"`
}

// Search runs hybrid lexical+semantic retrieval and fuses the channels
// into one ranked, deduplicated list capped at limit. Both channels are
// over-fetched at limit*3 so re-ranking has headroom without starving
// either channel. An embedding failure silently degrades the call to
// lexical-only.
func (e *Engine) Search(ctx context.Context, queryText string, limit int) (*SearchReport, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	fetch := limit * 3

	var lexical, semantic []graph.SearchResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		results, err := e.store.FTSSearch(gctx, queryText, fetch)
		if err != nil {
			return fmt.Errorf("fts search: %w", err)
		}
		lexical = results
		return nil
	})
	if e.embedder != nil {
		g.Go(func() error {
			vec, err := e.embedder.Embed(gctx, queryText)
			if err != nil {
				// Embedding failures never propagate; the lexical
				// channel alone answers the query.
				return nil
			}
			results, err := e.store.VectorSearch(gctx, vec, fetch)
			if err != nil {
				return fmt.Errorf("vector search: %w", err)
			}
			semantic = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fused := fuse(lexical, semantic, limit)

	report := &SearchReport{Query: queryText, Total: len(fused)}
	if len(fused) == 0 {
		return report, nil
	}
	report.Groups, report.Ungrouped = e.groupByProcess(ctx, fused)
	return report, nil
}

// fuse merges the two channels by node id. A cross-channel match becomes
// one result whose score is the sum of both channel scores, so a second
// matching channel never lowers a score. Ranking is stable: ties keep
// input order (lexical first, then semantic), making the output
// deterministic for identical inputs. limit is a hard cap.
func fuse(lexical, semantic []graph.SearchResult, limit int) []graph.SearchResult {
	index := make(map[string]int, len(lexical))
	out := make([]graph.SearchResult, 0, len(lexical)+len(semantic))

	for _, r := range lexical {
		if _, seen := index[r.NodeID]; seen {
			continue
		}
		index[r.NodeID] = len(out)
		out = append(out, r)
	}
	for _, r := range semantic {
		// Cosine similarity of opposed embeddings is negative; clamp so
		// the semantic channel only ever adds to a score.
		if r.Score < 0 {
			r.Score = 0
		}
		if i, seen := index[r.NodeID]; seen {
			out[i].Score += r.Score
			if out[i].Snippet == "" {
				out[i].Snippet = r.Snippet
			}
			continue
		}
		index[r.NodeID] = len(out)
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
