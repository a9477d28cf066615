package graph

import (
	"context"
	"io"
)

// Store is the interface for the code graph backend.
// Implementations: KuzuStore (production), MemStore (testing).
// The query engine treats the graph as read-only; write access exists only
// on the concrete implementations for the external indexer and for tests.
//
// Optional capabilities (exact-name search, confidence-aware lookups,
// process memberships) are separate interfaces below. Callers discover
// them with a type assertion and degrade when absent; a backend never
// half-implements one by returning runtime errors.
type Store interface {
	io.Closer

	// FTSSearch performs lexical full-text search over symbol names and
	// signatures, returning up to limit results ranked by relevance.
	FTSSearch(ctx context.Context, text string, limit int) ([]SearchResult, error)

	// VectorSearch returns up to limit results ranked by similarity to
	// the given embedding.
	VectorSearch(ctx context.Context, embedding []float32, limit int) ([]SearchResult, error)

	// GetNode returns the node with the given id, or nil if it does not
	// exist.
	GetNode(ctx context.Context, id string) (*Node, error)

	// GetCallers returns nodes with a CALLS edge into id.
	GetCallers(ctx context.Context, id string) ([]Node, error)

	// GetCallees returns nodes id has a CALLS edge into.
	GetCallees(ctx context.Context, id string) ([]Node, error)

	// GetTypeRefs returns nodes id references as types.
	GetTypeRefs(ctx context.Context, id string) ([]Node, error)

	// TraverseWithDepth walks CALLS edges from id in the given direction,
	// visiting each node once, up to maxDepth hops. The reported depth of
	// a node is the minimum distance at which it was discovered.
	TraverseWithDepth(ctx context.Context, id string, maxDepth int, dir Direction) ([]DepthEntry, error)

	// SymbolsInFile returns all symbols declared in the given file.
	SymbolsInFile(ctx context.Context, filePath string) ([]Node, error)

	// DeadSymbols returns all symbols flagged as dead code.
	DeadSymbols(ctx context.Context) ([]Node, error)

	// ExecuteRaw runs a read-only structured query and returns rows of
	// column values. Write protection is enforced by the caller before
	// this is reached; the store may additionally enforce its own.
	ExecuteRaw(ctx context.Context, query string) ([][]any, error)

	// Stats returns node and edge counts for the graph.
	Stats(ctx context.Context) (*GraphStats, error)
}

// ExactNameSearcher is an optional capability: exact symbol-name lookup,
// cheaper and more precise than full-text search.
type ExactNameSearcher interface {
	ExactNameSearch(ctx context.Context, name string, limit int) ([]SearchResult, error)
}

// ConfidenceSearcher is an optional capability: caller/callee lookup that
// carries per-edge confidence scores.
type ConfidenceSearcher interface {
	GetCallersWithConfidence(ctx context.Context, id string) ([]ScoredNode, error)
	GetCalleesWithConfidence(ctx context.Context, id string) ([]ScoredNode, error)
}

// ProcessMapper is an optional capability: map node ids to the name of
// the execution process they belong to. Nodes without a membership are
// simply absent from the returned map.
type ProcessMapper interface {
	GetProcessMemberships(ctx context.Context, nodeIDs []string) (map[string]string, error)
}
