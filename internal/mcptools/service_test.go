package mcptools

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dusk-indust/synapse/internal/graph"
	"github.com/dusk-indust/synapse/internal/query"
	"github.com/dusk-indust/synapse/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newTestService builds a QueryService over a seeded MemStore and a
// temp-dir registry.
func newTestService(t *testing.T) (*QueryService, *graph.MemStore) {
	t.Helper()
	store := graph.NewMemStore()
	seedSymbols(store)
	reg := registry.New(filepath.Join(t.TempDir(), "repos"))
	return NewQueryService(query.New(store), reg), store
}

// seedSymbols populates the call chain main -> handler -> validate plus
// a type reference to User.
func seedSymbols(store *graph.MemStore) {
	nodes := []graph.Node{
		{Label: graph.LabelFunction, Name: "main", FilePath: "src/main.py", StartLine: 1, EndLine: 20},
		{Label: graph.LabelFunction, Name: "handler", FilePath: "src/api.py", StartLine: 5, EndLine: 40},
		{Label: graph.LabelFunction, Name: "validate", FilePath: "src/auth.py", StartLine: 10, EndLine: 30},
		{Label: graph.LabelClass, Name: "User", FilePath: "src/models.py", StartLine: 3, EndLine: 25},
	}
	for i := range nodes {
		nodes[i].ID = graph.NodeID(nodes[i].Label, nodes[i].FilePath, nodes[i].StartLine, nodes[i].EndLine)
		store.AddNode(nodes[i])
	}
	store.AddEdge(graph.Edge{SourceID: nodes[0].ID, TargetID: nodes[1].ID, Kind: graph.EdgeKindCalls, Confidence: 1.0})
	store.AddEdge(graph.Edge{SourceID: nodes[1].ID, TargetID: nodes[2].ID, Kind: graph.EdgeKindCalls, Confidence: 0.7})
	store.AddEdge(graph.Edge{SourceID: nodes[2].ID, TargetID: nodes[3].ID, Kind: graph.EdgeKindTypeRef, Confidence: 1.0})
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestSearchTool(t *testing.T) {
	svc, _ := newTestService(t)

	_, out, err := svc.Search(context.Background(), nil, SearchInput{Query: "validate"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Total)
	assert.Contains(t, out.Report, "validate")
}

func TestSearchToolRequiresQuery(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Search(context.Background(), nil, SearchInput{Query: "  "})
	assert.Error(t, err)
}

func TestContextTool(t *testing.T) {
	svc, _ := newTestService(t)

	_, out, err := svc.Context(context.Background(), nil, ContextInput{Symbol: "validate"})
	require.NoError(t, err)
	assert.Equal(t, "validate", out.Node.Name)
	require.Len(t, out.Callers, 1)
	assert.Contains(t, out.Report, "src/auth.py:10-30")
}

func TestContextToolUnknownSymbolIsNotAnError(t *testing.T) {
	svc, _ := newTestService(t)

	_, out, err := svc.Context(context.Background(), nil, ContextInput{Symbol: "ghost"})
	require.NoError(t, err)
	assert.Contains(t, out.Report, "No results found")
}

func TestImpactTool(t *testing.T) {
	svc, _ := newTestService(t)

	_, out, err := svc.Impact(context.Background(), nil, ImpactInput{Symbol: "validate"})
	require.NoError(t, err)
	assert.Equal(t, query.DefaultImpactDepth, out.Depth)
	assert.Len(t, out.Entries, 2)
	assert.Contains(t, out.Report, "Direct callers (will break)")
}

func TestDetectChangesTool(t *testing.T) {
	svc, _ := newTestService(t)

	diff := "diff --git a/src/auth.py b/src/auth.py\n@@ -10,5 +10,7 @@\n"
	_, out, err := svc.DetectChanges(context.Background(), nil, DetectChangesInput{Diff: diff})
	require.NoError(t, err)
	assert.Equal(t, 1, out.TotalAffected)
	assert.Contains(t, out.Report, "validate")
}

func TestDetectChangesToolEmptyDiff(t *testing.T) {
	svc, _ := newTestService(t)

	_, out, err := svc.DetectChanges(context.Background(), nil, DetectChangesInput{Diff: ""})
	require.NoError(t, err)
	assert.Equal(t, "Empty diff provided.", out.Report)
}

func TestDetectChangesToolUnparseable(t *testing.T) {
	svc, _ := newTestService(t)

	_, out, err := svc.DetectChanges(context.Background(), nil, DetectChangesInput{Diff: "not a diff"})
	require.NoError(t, err)
	assert.Equal(t, "Could not parse any changed files from the diff.", out.Report)
}

func TestCypherTool(t *testing.T) {
	svc, store := newTestService(t)
	store.SetRawHandler(func(string) ([][]any, error) {
		return [][]any{{"validate"}}, nil
	})

	_, out, err := svc.Cypher(context.Background(), nil, CypherInput{Query: "MATCH (n) RETURN n.name"})
	require.NoError(t, err)
	require.Len(t, out.Rows, 1)
	assert.Contains(t, out.Report, "Results (1 rows):")
}

func TestCypherToolRejectsWrites(t *testing.T) {
	svc, _ := newTestService(t)

	_, out, err := svc.Cypher(context.Background(), nil, CypherInput{Query: "MATCH (n) DELETE n"})
	require.NoError(t, err)
	assert.Empty(t, out.Rows)
	assert.Contains(t, out.Report, "DELETE")
}

func TestDeadCodeTool(t *testing.T) {
	svc, store := newTestService(t)
	dead := graph.Node{
		ID:        graph.NodeID(graph.LabelFunction, "src/old.py", 4, 20),
		Label:     graph.LabelFunction,
		Name:      "legacy",
		FilePath:  "src/old.py",
		StartLine: 4,
		EndLine:   20,
		IsDead:    true,
	}
	store.AddNode(dead)

	_, out, err := svc.DeadCode(context.Background(), nil, DeadCodeInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Total)
	assert.Contains(t, out.Report, "legacy")
}

func TestListReposTool(t *testing.T) {
	store := graph.NewMemStore()
	reg := registry.New(filepath.Join(t.TempDir(), "repos"))
	repo := t.TempDir()
	_, err := reg.Register(registry.Meta{
		Name:  "demo",
		Stats: registry.Stats{Files: 12, Symbols: 340, Relationships: 922},
	}, repo)
	require.NoError(t, err)

	svc := NewQueryService(query.New(store), reg)
	_, out, err := svc.ListRepos(context.Background(), nil, ListReposInput{})
	require.NoError(t, err)
	require.Len(t, out.Repos, 1)
	assert.Contains(t, out.Report, "demo")
	assert.Contains(t, out.Report, "Symbols: 340")
}
