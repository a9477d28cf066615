package mcptools

import (
	"github.com/dusk-indust/synapse/internal/graph"
	"github.com/dusk-indust/synapse/internal/query"
	"github.com/dusk-indust/synapse/internal/registry"
)

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// SearchInput is the input for the search MCP tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"natural-language or keyword search over indexed symbols"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results (default: 20)"`
}

// SearchOutput is the result of the search MCP tool.
type SearchOutput struct {
	Report  string               `json:"report"`
	Groups  []query.ResultGroup  `json:"groups,omitempty"`
	Results []graph.SearchResult `json:"results,omitempty"`
	Total   int                  `json:"total"`
}

// ContextInput is the input for the context MCP tool.
type ContextInput struct {
	Symbol string `json:"symbol" jsonschema:"symbol name to look up (exact name preferred, fuzzy fallback)"`
}

// ContextOutput is the result of the context MCP tool.
type ContextOutput struct {
	Report   string             `json:"report"`
	Node     graph.Node         `json:"node"`
	Callers  []graph.ScoredNode `json:"callers,omitempty"`
	Callees  []graph.ScoredNode `json:"callees,omitempty"`
	TypeRefs []graph.Node       `json:"typeRefs,omitempty"`
}

// ImpactInput is the input for the impact MCP tool.
type ImpactInput struct {
	Symbol string `json:"symbol" jsonschema:"symbol whose change impact to analyse"`
	Depth  int    `json:"depth,omitempty" jsonschema:"caller traversal depth, clamped to 1-10 (default: 3)"`
}

// ImpactOutput is the result of the impact MCP tool.
type ImpactOutput struct {
	Report  string              `json:"report"`
	Symbol  graph.Node          `json:"symbol"`
	Depth   int                 `json:"depth"`
	Entries []query.ImpactEntry `json:"entries,omitempty"`
}

// DetectChangesInput is the input for the detect_changes MCP tool.
type DetectChangesInput struct {
	Diff string `json:"diff" jsonschema:"unified diff text (git diff output)"`
}

// DetectChangesOutput is the result of the detect_changes MCP tool.
type DetectChangesOutput struct {
	Report        string              `json:"report"`
	Files         []query.FileChanges `json:"files,omitempty"`
	TotalAffected int                 `json:"totalAffected"`
}

// CypherInput is the input for the cypher MCP tool.
type CypherInput struct {
	Query string `json:"query" jsonschema:"read-only Cypher query to run against the graph"`
}

// CypherOutput is the result of the cypher MCP tool.
type CypherOutput struct {
	Report string  `json:"report"`
	Rows   [][]any `json:"rows,omitempty"`
}

// DeadCodeInput is the input for the dead_code MCP tool.
type DeadCodeInput struct{}

// DeadCodeOutput is the result of the dead_code MCP tool.
type DeadCodeOutput struct {
	Report string           `json:"report"`
	Files  []query.DeadFile `json:"files,omitempty"`
	Total  int              `json:"total"`
}

// ListReposInput is the input for the list_repos MCP tool.
type ListReposInput struct{}

// ListReposOutput is the result of the list_repos MCP tool.
type ListReposOutput struct {
	Report string          `json:"report"`
	Repos  []registry.Meta `json:"repos,omitempty"`
}
