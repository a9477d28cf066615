package graph

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

// Compile-time assertions: *MemStore satisfies Store and every optional
// capability.
var (
	_ Store              = (*MemStore)(nil)
	_ ExactNameSearcher  = (*MemStore)(nil)
	_ ConfidenceSearcher = (*MemStore)(nil)
	_ ProcessMapper      = (*MemStore)(nil)
)

// MemStore implements Store using Go maps. Thread-safe via sync.RWMutex.
// Iteration order is insertion order, so query results are deterministic.
type MemStore struct {
	mu         sync.RWMutex
	order      []string // node ids in insertion order
	nodes      map[string]Node
	embeddings map[string][]float32
	edges      []Edge
	processes  map[string]string // node id -> process name
	rawHandler func(query string) ([][]any, error)
}

// NewMemStore returns an initialized MemStore ready for use.
func NewMemStore() *MemStore {
	return &MemStore{
		nodes:      make(map[string]Node),
		embeddings: make(map[string][]float32),
		processes:  make(map[string]string),
	}
}

// --- Write operations (indexer / test fixtures) ---

// AddNode stores a node. Re-adding an id overwrites it in place.
func (m *MemStore) AddNode(node Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.nodes[node.ID]; !exists {
		m.order = append(m.order, node.ID)
	}
	m.nodes[node.ID] = node
}

// AddEdge appends an edge. Confidence is stored as given, so a genuine
// zero-confidence edge is representable; callers writing statically
// certain relationships pass 1.0 explicitly.
func (m *MemStore) AddEdge(edge Edge) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges = append(m.edges, edge)
}

// SetEmbedding attaches an embedding vector to a node id.
func (m *MemStore) SetEmbedding(id string, embedding []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embeddings[id] = embedding
}

// AddProcessMember records that a node belongs to the named process.
func (m *MemStore) AddProcessMember(process, nodeID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processes[nodeID] = process
}

// SetRawHandler installs the function backing ExecuteRaw. MemStore has no
// query parser; without a handler ExecuteRaw fails.
func (m *MemStore) SetRawHandler(fn func(query string) ([][]any, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rawHandler = fn
}

// --- Read operations ---

// resultForNode builds a SearchResult denormalized from the node.
func resultForNode(n Node, score float64) SearchResult {
	return SearchResult{
		NodeID:   n.ID,
		Score:    score,
		Name:     n.Name,
		FilePath: n.FilePath,
		Label:    n.Label,
		Snippet:  n.Signature,
	}
}

// ExactNameSearch returns symbols whose name matches exactly, in
// insertion order.
func (m *MemStore) ExactNameSearch(_ context.Context, name string, limit int) ([]SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var results []SearchResult
	for _, id := range m.order {
		n := m.nodes[id]
		if n.Name != name {
			continue
		}
		results = append(results, resultForNode(n, 1.0))
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, nil
}

// FTSSearch matches the query against symbol names and signatures,
// case-insensitively. Exact name matches score 1.0, prefix matches 0.75,
// other matches 0.5. Results are ordered by score, ties in insertion order.
func (m *MemStore) FTSSearch(_ context.Context, text string, limit int) ([]SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lower := strings.ToLower(text)
	var results []SearchResult
	for _, id := range m.order {
		n := m.nodes[id]
		name := strings.ToLower(n.Name)
		var score float64
		switch {
		case name == lower:
			score = 1.0
		case strings.HasPrefix(name, lower):
			score = 0.75
		case strings.Contains(name, lower) || strings.Contains(strings.ToLower(n.Signature), lower):
			score = 0.5
		default:
			continue
		}
		results = append(results, resultForNode(n, score))
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// VectorSearch ranks nodes that carry an embedding by cosine similarity
// to the query vector.
func (m *MemStore) VectorSearch(_ context.Context, embedding []float32, limit int) ([]SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var results []SearchResult
	for _, id := range m.order {
		vec, ok := m.embeddings[id]
		if !ok {
			continue
		}
		results = append(results, resultForNode(m.nodes[id], cosine(embedding, vec)))
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// GetNode returns the node for the given id, or nil if not found.
func (m *MemStore) GetNode(_ context.Context, id string) (*Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[id]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

// GetCallers returns nodes with a CALLS edge into id.
func (m *MemStore) GetCallers(_ context.Context, id string) ([]Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Node
	for _, e := range m.edges {
		if e.Kind == EdgeKindCalls && e.TargetID == id {
			if n, ok := m.nodes[e.SourceID]; ok {
				out = append(out, n)
			}
		}
	}
	return out, nil
}

// GetCallees returns nodes id has a CALLS edge into.
func (m *MemStore) GetCallees(_ context.Context, id string) ([]Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Node
	for _, e := range m.edges {
		if e.Kind == EdgeKindCalls && e.SourceID == id {
			if n, ok := m.nodes[e.TargetID]; ok {
				out = append(out, n)
			}
		}
	}
	return out, nil
}

// GetCallersWithConfidence returns callers of id with edge confidence.
func (m *MemStore) GetCallersWithConfidence(_ context.Context, id string) ([]ScoredNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ScoredNode
	for _, e := range m.edges {
		if e.Kind == EdgeKindCalls && e.TargetID == id {
			if n, ok := m.nodes[e.SourceID]; ok {
				out = append(out, ScoredNode{Node: n, Confidence: e.Confidence})
			}
		}
	}
	return out, nil
}

// GetCalleesWithConfidence returns callees of id with edge confidence.
func (m *MemStore) GetCalleesWithConfidence(_ context.Context, id string) ([]ScoredNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ScoredNode
	for _, e := range m.edges {
		if e.Kind == EdgeKindCalls && e.SourceID == id {
			if n, ok := m.nodes[e.TargetID]; ok {
				out = append(out, ScoredNode{Node: n, Confidence: e.Confidence})
			}
		}
	}
	return out, nil
}

// GetTypeRefs returns nodes id references as types.
func (m *MemStore) GetTypeRefs(_ context.Context, id string) ([]Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Node
	for _, e := range m.edges {
		if e.Kind == EdgeKindTypeRef && e.SourceID == id {
			if n, ok := m.nodes[e.TargetID]; ok {
				out = append(out, n)
			}
		}
	}
	return out, nil
}

// TraverseWithDepth performs a BFS over CALLS edges from id. Each node is
// visited once; the depth recorded is the first (minimum) distance at
// which it was discovered. The start node itself is not included.
func (m *MemStore) TraverseWithDepth(_ context.Context, id string, maxDepth int, dir Direction) ([]DepthEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if maxDepth <= 0 {
		return nil, nil
	}

	visited := map[string]bool{id: true}
	frontier := []string{id}
	var entries []DepthEntry

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, cur := range frontier {
			for _, nb := range m.callNeighbors(cur, dir) {
				if visited[nb] {
					continue
				}
				visited[nb] = true
				if n, ok := m.nodes[nb]; ok {
					entries = append(entries, DepthEntry{Node: n, Depth: depth})
				}
				next = append(next, nb)
			}
		}
		frontier = next
	}
	return entries, nil
}

// callNeighbors returns ids one CALLS hop away from id in the given
// direction.
func (m *MemStore) callNeighbors(id string, dir Direction) []string {
	var out []string
	for _, e := range m.edges {
		if e.Kind != EdgeKindCalls {
			continue
		}
		switch dir {
		case DirectionCallers:
			if e.TargetID == id {
				out = append(out, e.SourceID)
			}
		case DirectionCallees:
			if e.SourceID == id {
				out = append(out, e.TargetID)
			}
		}
	}
	return out
}

// SymbolsInFile returns all symbols declared in filePath, in insertion
// order.
func (m *MemStore) SymbolsInFile(_ context.Context, filePath string) ([]Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Node
	for _, id := range m.order {
		if n := m.nodes[id]; n.FilePath == filePath {
			out = append(out, n)
		}
	}
	return out, nil
}

// DeadSymbols returns all symbols flagged as dead code.
func (m *MemStore) DeadSymbols(_ context.Context) ([]Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Node
	for _, id := range m.order {
		if n := m.nodes[id]; n.IsDead {
			out = append(out, n)
		}
	}
	return out, nil
}

// GetProcessMemberships maps node ids to process names. Unmapped ids are
// absent from the result.
func (m *MemStore) GetProcessMemberships(_ context.Context, nodeIDs []string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string)
	for _, id := range nodeIDs {
		if p, ok := m.processes[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

// ExecuteRaw delegates to the installed raw handler. MemStore does not
// parse query text itself.
func (m *MemStore) ExecuteRaw(_ context.Context, query string) ([][]any, error) {
	m.mu.RLock()
	handler := m.rawHandler
	m.mu.RUnlock()
	if handler == nil {
		return nil, fmt.Errorf("memstore: raw queries not supported")
	}
	return handler(query)
}

// Stats returns counts of nodes and edges in the graph.
func (m *MemStore) Stats(_ context.Context) (*GraphStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	dead := 0
	for _, n := range m.nodes {
		if n.IsDead {
			dead++
		}
	}
	return &GraphStats{
		Symbols:       len(m.nodes),
		Relationships: len(m.edges),
		DeadSymbols:   dead,
	}, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error {
	return nil
}

// cosine computes the cosine similarity between two vectors, or 0 when
// either has zero magnitude or the lengths differ.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
