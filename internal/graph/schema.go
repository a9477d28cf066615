package graph

import "fmt"

// --- Enums ---

// NodeLabel classifies symbols in the code graph.
type NodeLabel string

const (
	LabelFunction NodeLabel = "function"
	LabelClass    NodeLabel = "class"
	LabelMethod   NodeLabel = "method"
	LabelModule   NodeLabel = "module"
	LabelVariable NodeLabel = "variable"
)

// EdgeKind classifies relationships between nodes.
type EdgeKind string

const (
	EdgeKindCalls   EdgeKind = "CALLS"
	EdgeKindTypeRef EdgeKind = "REFERENCES_TYPE"
	EdgeKindProcess EdgeKind = "PART_OF_PROCESS"
)

// Direction controls graph traversal direction.
type Direction string

const (
	// DirectionCallers walks edges toward the symbols that depend on the
	// start node (who calls this?).
	DirectionCallers Direction = "callers"
	// DirectionCallees walks edges toward the symbols the start node
	// depends on (what does this call?).
	DirectionCallees Direction = "callees"
)

// --- Models ---

// Node is one indexed symbol with a file span. Nodes are created and
// destroyed solely by the external indexer; everything else in this
// module treats them as immutable values.
type Node struct {
	ID        string    `json:"id"`
	Label     NodeLabel `json:"label"`
	Name      string    `json:"name"`
	FilePath  string    `json:"filePath"`
	StartLine int       `json:"startLine"`
	EndLine   int       `json:"endLine"`
	Signature string    `json:"signature,omitempty"`
	IsDead    bool      `json:"isDead,omitempty"`
}

// NodeID derives the stable identity key for a symbol from its label,
// file path, and declaration span.
func NodeID(label NodeLabel, filePath string, startLine, endLine int) string {
	return fmt.Sprintf("%s:%s:%d-%d", label, filePath, startLine, endLine)
}

// Edge is a directed relation between two nodes. Confidence is in [0,1];
// 1.0 means the relationship is statically certain.
type Edge struct {
	SourceID   string   `json:"sourceId"`
	TargetID   string   `json:"targetId"`
	Kind       EdgeKind `json:"kind"`
	Confidence float64  `json:"confidence"`
}

// SearchResult is a transient search hit. Name, FilePath, and Label are
// denormalized from the node so a result is displayable without a second
// lookup. Never persisted.
type SearchResult struct {
	NodeID   string    `json:"nodeId"`
	Score    float64   `json:"score"`
	Name     string    `json:"name"`
	FilePath string    `json:"filePath"`
	Label    NodeLabel `json:"label"`
	Snippet  string    `json:"snippet,omitempty"`
}

// DepthEntry is one node discovered during a bounded traversal, tagged
// with its minimum hop distance from the start node.
type DepthEntry struct {
	Node  Node `json:"node"`
	Depth int  `json:"depth"`
}

// ScoredNode pairs a node with an edge confidence score.
type ScoredNode struct {
	Node       Node    `json:"node"`
	Confidence float64 `json:"confidence"`
}

// GraphStats summarizes the indexed graph.
type GraphStats struct {
	Symbols       int `json:"symbols"`
	Relationships int `json:"relationships"`
	DeadSymbols   int `json:"deadSymbols"`
}
