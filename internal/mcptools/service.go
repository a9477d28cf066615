package mcptools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dusk-indust/synapse/internal/query"
	"github.com/dusk-indust/synapse/internal/registry"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// QueryService holds the query engine and registry used by MCP tool
// handlers.
type QueryService struct {
	engine *query.Engine
	repos  *registry.Registry
}

// NewQueryService creates a QueryService with the given engine and
// registry.
func NewQueryService(engine *query.Engine, repos *registry.Registry) *QueryService {
	return &QueryService{engine: engine, repos: repos}
}

// Search runs hybrid retrieval over the graph and returns ranked,
// process-grouped results.
func (s *QueryService) Search(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, SearchOutput{}, fmt.Errorf("query is required")
	}

	report, err := s.engine.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, SearchOutput{}, fmt.Errorf("search: %w", err)
	}

	return nil, SearchOutput{
		Report:  report.String(),
		Groups:  report.Groups,
		Results: report.Ungrouped,
		Total:   report.Total,
	}, nil
}

// Context returns the full relationship view of one symbol. An
// unresolvable name is a normal outcome reported in text, not a tool
// error.
func (s *QueryService) Context(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ContextInput,
) (*mcp.CallToolResult, ContextOutput, error) {
	if strings.TrimSpace(input.Symbol) == "" {
		return nil, ContextOutput{}, fmt.Errorf("symbol is required")
	}

	report, err := s.engine.Context(ctx, input.Symbol)
	if errors.Is(err, query.ErrNotFound) {
		return nil, ContextOutput{
			Report: fmt.Sprintf("No results found for %q.", input.Symbol),
		}, nil
	}
	if err != nil {
		return nil, ContextOutput{}, fmt.Errorf("context: %w", err)
	}

	return nil, ContextOutput{
		Report:   report.String(),
		Node:     report.Node,
		Callers:  report.Callers,
		Callees:  report.Callees,
		TypeRefs: report.TypeRefs,
	}, nil
}

// Impact walks upstream callers of a symbol and reports the blast
// radius by hop distance.
func (s *QueryService) Impact(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ImpactInput,
) (*mcp.CallToolResult, ImpactOutput, error) {
	if strings.TrimSpace(input.Symbol) == "" {
		return nil, ImpactOutput{}, fmt.Errorf("symbol is required")
	}
	depth := input.Depth
	if depth == 0 {
		depth = query.DefaultImpactDepth
	}

	report, err := s.engine.Impact(ctx, input.Symbol, depth)
	if errors.Is(err, query.ErrNotFound) {
		return nil, ImpactOutput{
			Report: fmt.Sprintf("No results found for %q.", input.Symbol),
		}, nil
	}
	if err != nil {
		return nil, ImpactOutput{}, fmt.Errorf("impact: %w", err)
	}

	return nil, ImpactOutput{
		Report:  report.String(),
		Symbol:  report.Symbol,
		Depth:   report.Depth,
		Entries: report.Entries,
	}, nil
}

// DetectChanges maps a unified diff to the indexed symbols it touches.
func (s *QueryService) DetectChanges(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DetectChangesInput,
) (*mcp.CallToolResult, DetectChangesOutput, error) {
	report, err := s.engine.AffectedSymbols(ctx, input.Diff)
	if errors.Is(err, query.ErrEmptyDiff) {
		return nil, DetectChangesOutput{Report: "Empty diff provided."}, nil
	}
	if errors.Is(err, query.ErrUnparseableDiff) {
		return nil, DetectChangesOutput{
			Report: "Could not parse any changed files from the diff.",
		}, nil
	}
	if err != nil {
		return nil, DetectChangesOutput{}, fmt.Errorf("detect changes: %w", err)
	}

	return nil, DetectChangesOutput{
		Report:        report.String(),
		Files:         report.Files,
		TotalAffected: report.TotalAffected(),
	}, nil
}

// Cypher runs a read-only query against the graph. Write operations are
// rejected before reaching the store.
func (s *QueryService) Cypher(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CypherInput,
) (*mcp.CallToolResult, CypherOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, CypherOutput{}, fmt.Errorf("query is required")
	}

	rows, err := s.engine.RawQuery(ctx, input.Query)
	if errors.Is(err, query.ErrQueryRejected) {
		return nil, CypherOutput{Report: err.Error()}, nil
	}
	if err != nil {
		return nil, CypherOutput{}, fmt.Errorf("cypher: %w", err)
	}

	return nil, CypherOutput{Report: query.FormatRows(rows), Rows: rows}, nil
}

// DeadCode lists symbols the indexer flagged as unreachable.
func (s *QueryService) DeadCode(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ DeadCodeInput,
) (*mcp.CallToolResult, DeadCodeOutput, error) {
	report, err := s.engine.DeadCode(ctx)
	if err != nil {
		return nil, DeadCodeOutput{}, fmt.Errorf("dead code: %w", err)
	}

	return nil, DeadCodeOutput{
		Report: report.String(),
		Files:  report.Files,
		Total:  report.Total,
	}, nil
}

// ListRepos scans the global registry for indexed repositories, falling
// back to the working directory's local metadata when the registry is
// empty.
func (s *QueryService) ListRepos(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListReposInput,
) (*mcp.CallToolResult, ListReposOutput, error) {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	repos, err := registry.ListWithLocalFallback(s.repos, cwd)
	if err != nil {
		return nil, ListReposOutput{}, fmt.Errorf("list repos: %w", err)
	}

	return nil, ListReposOutput{Report: formatRepos(repos), Repos: repos}, nil
}

// formatRepos renders the repository list for display.
func formatRepos(repos []registry.Meta) string {
	if len(repos) == 0 {
		return "No indexed repositories found. Run `synapse index` on a project first."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Indexed repositories (%d):\n\n", len(repos))
	for i, repo := range repos {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, repo.Name)
		fmt.Fprintf(&b, "     Path: %s\n", repo.Path)
		fmt.Fprintf(&b, "     Files: %d  Symbols: %d  Relationships: %d\n\n",
			repo.Stats.Files, repo.Stats.Symbols, repo.Stats.Relationships)
	}
	return strings.TrimRight(b.String(), "\n")
}
