package query

import (
	"context"
	"errors"
	"testing"

	"github.com/dusk-indust/synapse/internal/graph"
)

// ---------------------------------------------------------------------------
// Shared fixtures
// ---------------------------------------------------------------------------

func testNode(label graph.NodeLabel, name, path string, start, end int) graph.Node {
	return graph.Node{
		ID:        graph.NodeID(label, path, start, end),
		Label:     label,
		Name:      name,
		FilePath:  path,
		StartLine: start,
		EndLine:   end,
	}
}

// seedAuthGraph builds the canonical fixture used across operation
// tests:
//
//	main -> handler -> validate (0.7)
//	validate references the User class
//	validate spans src/auth.py lines 10-30
func seedAuthGraph(store *graph.MemStore) (main, handler, validate, user graph.Node) {
	main = testNode(graph.LabelFunction, "main", "src/main.py", 1, 20)
	handler = testNode(graph.LabelFunction, "handler", "src/api.py", 5, 40)
	validate = testNode(graph.LabelFunction, "validate", "src/auth.py", 10, 30)
	user = testNode(graph.LabelClass, "User", "src/models.py", 3, 25)
	validate.Signature = "def validate(token: str) -> bool"

	for _, n := range []graph.Node{main, handler, validate, user} {
		store.AddNode(n)
	}
	store.AddEdge(graph.Edge{SourceID: main.ID, TargetID: handler.ID, Kind: graph.EdgeKindCalls, Confidence: 1.0})
	store.AddEdge(graph.Edge{SourceID: handler.ID, TargetID: validate.ID, Kind: graph.EdgeKindCalls, Confidence: 0.7})
	store.AddEdge(graph.Edge{SourceID: validate.ID, TargetID: user.ID, Kind: graph.EdgeKindTypeRef, Confidence: 1.0})
	return main, handler, validate, user
}

func newTestEngine(t *testing.T) (*Engine, *graph.MemStore) {
	t.Helper()
	store := graph.NewMemStore()
	return New(store), store
}

// ---------------------------------------------------------------------------
// Test doubles
// ---------------------------------------------------------------------------

// fixedEmbedder returns the same vector for every input.
type fixedEmbedder struct {
	vec []float32
}

func (f *fixedEmbedder) Embed(context.Context, string) ([]float32, error) {
	return f.vec, nil
}

// failingEmbedder always errors, simulating a down embedding service.
type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("embedding service unavailable")
}

// recordingStore wraps a MemStore and records the limit passed to
// FTSSearch.
type recordingStore struct {
	*graph.MemStore
	ftsLimit int
}

func (r *recordingStore) FTSSearch(ctx context.Context, text string, limit int) ([]graph.SearchResult, error) {
	r.ftsLimit = limit
	return r.MemStore.FTSSearch(ctx, text, limit)
}

// faultyFileStore wraps a MemStore and fails SymbolsInFile for one path.
type faultyFileStore struct {
	*graph.MemStore
	failPath string
}

func (f *faultyFileStore) SymbolsInFile(ctx context.Context, path string) ([]graph.Node, error) {
	if path == f.failPath {
		return nil, errors.New("store timeout")
	}
	return f.MemStore.SymbolsInFile(ctx, path)
}

// bareStore strips every optional capability from a MemStore, leaving
// only the required Store surface.
type bareStore struct {
	inner *graph.MemStore
}

func (b *bareStore) FTSSearch(ctx context.Context, text string, limit int) ([]graph.SearchResult, error) {
	return b.inner.FTSSearch(ctx, text, limit)
}

func (b *bareStore) VectorSearch(ctx context.Context, vec []float32, limit int) ([]graph.SearchResult, error) {
	return b.inner.VectorSearch(ctx, vec, limit)
}

func (b *bareStore) GetNode(ctx context.Context, id string) (*graph.Node, error) {
	return b.inner.GetNode(ctx, id)
}

func (b *bareStore) GetCallers(ctx context.Context, id string) ([]graph.Node, error) {
	return b.inner.GetCallers(ctx, id)
}

func (b *bareStore) GetCallees(ctx context.Context, id string) ([]graph.Node, error) {
	return b.inner.GetCallees(ctx, id)
}

func (b *bareStore) GetTypeRefs(ctx context.Context, id string) ([]graph.Node, error) {
	return b.inner.GetTypeRefs(ctx, id)
}

func (b *bareStore) TraverseWithDepth(ctx context.Context, id string, maxDepth int, dir graph.Direction) ([]graph.DepthEntry, error) {
	return b.inner.TraverseWithDepth(ctx, id, maxDepth, dir)
}

func (b *bareStore) SymbolsInFile(ctx context.Context, path string) ([]graph.Node, error) {
	return b.inner.SymbolsInFile(ctx, path)
}

func (b *bareStore) DeadSymbols(ctx context.Context) ([]graph.Node, error) {
	return b.inner.DeadSymbols(ctx)
}

func (b *bareStore) ExecuteRaw(ctx context.Context, query string) ([][]any, error) {
	return b.inner.ExecuteRaw(ctx, query)
}

func (b *bareStore) Stats(ctx context.Context) (*graph.GraphStats, error) {
	return b.inner.Stats(ctx)
}

func (b *bareStore) Close() error { return b.inner.Close() }

var _ graph.Store = (*bareStore)(nil)
