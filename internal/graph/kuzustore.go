//go:build cgo

package graph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements Store using KuzuDB as the graph backend. It
// requires CGO because the go-kuzu driver wraps KuzuDB's C library.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Compile-time checks: KuzuStore satisfies Store plus every optional
// capability.
var (
	_ Store              = (*KuzuStore)(nil)
	_ ExactNameSearcher  = (*KuzuStore)(nil)
	_ ConfidenceSearcher = (*KuzuStore)(nil)
	_ ProcessMapper      = (*KuzuStore)(nil)
)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	return openKuzu(":memory:")
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at
// the given directory path. KuzuDB creates the leaf directory itself for
// new databases.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	return openKuzu(dbPath)
}

func openKuzu(path string) (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ---------- Schema setup ----------

// ddlStatements defines the Cypher DDL executed by InitSchema.
// Order matters: node tables must precede relationship tables.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS Symbol(
		id STRING,
		label STRING,
		name STRING,
		file_path STRING,
		start_line INT64,
		end_line INT64,
		signature STRING,
		is_dead BOOLEAN,
		embedding DOUBLE[],
		PRIMARY KEY(id)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Process(
		name STRING,
		PRIMARY KEY(name)
	)`,
	`CREATE REL TABLE IF NOT EXISTS CALLS(FROM Symbol TO Symbol, confidence DOUBLE)`,
	`CREATE REL TABLE IF NOT EXISTS REFERENCES_TYPE(FROM Symbol TO Symbol)`,
	`CREATE REL TABLE IF NOT EXISTS PART_OF_PROCESS(FROM Symbol TO Process)`,
}

// InitSchema creates all node and relationship tables if they do not exist.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// ---------- Write operations (used by the external indexer) ----------

// AddSymbol inserts a Symbol node.
func (s *KuzuStore) AddSymbol(_ context.Context, node Node, embedding []float32) error {
	emb := make([]float64, len(embedding))
	for i, v := range embedding {
		emb[i] = float64(v)
	}
	return s.exec(
		`CREATE (n:Symbol {
			id: $id,
			label: $label,
			name: $name,
			file_path: $fp,
			start_line: $sl,
			end_line: $el,
			signature: $sig,
			is_dead: $dead,
			embedding: $emb
		})`,
		map[string]any{
			"id":    node.ID,
			"label": string(node.Label),
			"name":  node.Name,
			"fp":    node.FilePath,
			"sl":    int64(node.StartLine),
			"el":    int64(node.EndLine),
			"sig":   node.Signature,
			"dead":  node.IsDead,
			"emb":   emb,
		},
	)
}

// AddProcess inserts a Process node.
func (s *KuzuStore) AddProcess(_ context.Context, name string) error {
	return s.exec("CREATE (p:Process {name: $name})", map[string]any{"name": name})
}

// AddEdge inserts a relationship edge between two nodes. The Cypher
// statement is chosen based on the EdgeKind.
func (s *KuzuStore) AddEdge(_ context.Context, edge Edge) error {
	switch edge.Kind {
	case EdgeKindCalls:
		return s.exec(
			`MATCH (a:Symbol {id: $src}), (b:Symbol {id: $dst})
			 CREATE (a)-[:CALLS {confidence: $conf}]->(b)`,
			map[string]any{"src": edge.SourceID, "dst": edge.TargetID, "conf": edge.Confidence},
		)
	case EdgeKindTypeRef:
		return s.exec(
			`MATCH (a:Symbol {id: $src}), (b:Symbol {id: $dst})
			 CREATE (a)-[:REFERENCES_TYPE]->(b)`,
			map[string]any{"src": edge.SourceID, "dst": edge.TargetID},
		)
	case EdgeKindProcess:
		return s.exec(
			`MATCH (a:Symbol {id: $src}), (p:Process {name: $dst})
			 CREATE (a)-[:PART_OF_PROCESS]->(p)`,
			map[string]any{"src": edge.SourceID, "dst": edge.TargetID},
		)
	default:
		return fmt.Errorf("kuzu: unsupported edge kind: %s", edge.Kind)
	}
}

// ---------- Search ----------

const symbolColumns = "n.id, n.label, n.name, n.file_path, n.start_line, n.end_line, n.signature, n.is_dead"

// ExactNameSearch returns symbols whose name matches exactly.
func (s *KuzuStore) ExactNameSearch(_ context.Context, name string, limit int) ([]SearchResult, error) {
	rows, err := s.query(
		`MATCH (n:Symbol) WHERE n.name = $name
		 RETURN `+symbolColumns+` LIMIT $lim`,
		map[string]any{"name": name, "lim": int64(limit)},
	)
	if err != nil {
		return nil, err
	}
	return rowsToResults(rows, func(Node) float64 { return 1.0 }), nil
}

// FTSSearch matches text against symbol names and signatures,
// case-insensitively. Exact name matches rank highest, then prefix
// matches, then substring matches; ties keep store order.
func (s *KuzuStore) FTSSearch(_ context.Context, text string, limit int) ([]SearchResult, error) {
	rows, err := s.query(
		`MATCH (n:Symbol)
		 WHERE lower(n.name) CONTAINS $q OR lower(n.signature) CONTAINS $q
		 RETURN `+symbolColumns,
		map[string]any{"q": strings.ToLower(text)},
	)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(text)
	results := rowsToResults(rows, func(n Node) float64 {
		name := strings.ToLower(n.Name)
		switch {
		case name == lower:
			return 1.0
		case strings.HasPrefix(name, lower):
			return 0.75
		default:
			return 0.5
		}
	})
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// VectorSearch ranks symbols that carry an embedding by cosine
// similarity to the query vector. Similarity is computed on the client;
// the graph stays small enough that a scan is acceptable.
func (s *KuzuStore) VectorSearch(_ context.Context, embedding []float32, limit int) ([]SearchResult, error) {
	rows, err := s.query(
		`MATCH (n:Symbol) WHERE size(n.embedding) > 0
		 RETURN `+symbolColumns+`, n.embedding`,
		nil,
	)
	if err != nil {
		return nil, err
	}
	var results []SearchResult
	for _, r := range rows {
		n := rowToNode(r)
		vec := toFloat32Slice(r[8])
		results = append(results, SearchResult{
			NodeID:   n.ID,
			Score:    cosine(embedding, vec),
			Name:     n.Name,
			FilePath: n.FilePath,
			Label:    n.Label,
			Snippet:  n.Signature,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// ---------- Node and edge lookup ----------

// GetNode retrieves a single Symbol node by id, or nil if not found.
func (s *KuzuStore) GetNode(_ context.Context, id string) (*Node, error) {
	rows, err := s.query(
		"MATCH (n:Symbol {id: $id}) RETURN "+symbolColumns,
		map[string]any{"id": id},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	n := rowToNode(rows[0])
	return &n, nil
}

// GetCallers returns nodes with a CALLS edge into id.
func (s *KuzuStore) GetCallers(_ context.Context, id string) ([]Node, error) {
	return s.nodeQuery(
		`MATCH (n:Symbol)-[:CALLS]->(b:Symbol {id: $id}) RETURN `+symbolColumns,
		map[string]any{"id": id},
	)
}

// GetCallees returns nodes id has a CALLS edge into.
func (s *KuzuStore) GetCallees(_ context.Context, id string) ([]Node, error) {
	return s.nodeQuery(
		`MATCH (a:Symbol {id: $id})-[:CALLS]->(n:Symbol) RETURN `+symbolColumns,
		map[string]any{"id": id},
	)
}

// GetCallersWithConfidence returns callers of id with edge confidence.
func (s *KuzuStore) GetCallersWithConfidence(_ context.Context, id string) ([]ScoredNode, error) {
	return s.scoredQuery(
		`MATCH (n:Symbol)-[c:CALLS]->(b:Symbol {id: $id})
		 RETURN `+symbolColumns+`, c.confidence`,
		map[string]any{"id": id},
	)
}

// GetCalleesWithConfidence returns callees of id with edge confidence.
func (s *KuzuStore) GetCalleesWithConfidence(_ context.Context, id string) ([]ScoredNode, error) {
	return s.scoredQuery(
		`MATCH (a:Symbol {id: $id})-[c:CALLS]->(n:Symbol)
		 RETURN `+symbolColumns+`, c.confidence`,
		map[string]any{"id": id},
	)
}

// GetTypeRefs returns nodes id references as types.
func (s *KuzuStore) GetTypeRefs(_ context.Context, id string) ([]Node, error) {
	return s.nodeQuery(
		`MATCH (a:Symbol {id: $id})-[:REFERENCES_TYPE]->(n:Symbol) RETURN `+symbolColumns,
		map[string]any{"id": id},
	)
}

// ---------- Traversal ----------

// TraverseWithDepth performs a BFS over CALLS edges from id. Each node is
// visited once at its minimum distance; the start node is not included.
func (s *KuzuStore) TraverseWithDepth(_ context.Context, id string, maxDepth int, dir Direction) ([]DepthEntry, error) {
	if maxDepth <= 0 {
		return nil, nil
	}

	visited := map[string]bool{id: true}
	frontier := []string{id}
	var entries []DepthEntry

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, cur := range frontier {
			neighbors, err := s.callNeighbors(cur, dir)
			if err != nil {
				return nil, err
			}
			for _, nb := range neighbors {
				if visited[nb.ID] {
					continue
				}
				visited[nb.ID] = true
				entries = append(entries, DepthEntry{Node: nb, Depth: depth})
				next = append(next, nb.ID)
			}
		}
		frontier = next
	}
	return entries, nil
}

// callNeighbors returns nodes one CALLS hop away from id in the given
// direction.
func (s *KuzuStore) callNeighbors(id string, dir Direction) ([]Node, error) {
	var cypher string
	switch dir {
	case DirectionCallers:
		cypher = `MATCH (n:Symbol)-[:CALLS]->(b:Symbol {id: $id}) RETURN ` + symbolColumns
	case DirectionCallees:
		cypher = `MATCH (a:Symbol {id: $id})-[:CALLS]->(n:Symbol) RETURN ` + symbolColumns
	default:
		return nil, fmt.Errorf("kuzu: unknown direction: %s", dir)
	}
	return s.nodeQuery(cypher, map[string]any{"id": id})
}

// ---------- File and process lookup ----------

// SymbolsInFile returns all symbols declared in filePath.
func (s *KuzuStore) SymbolsInFile(_ context.Context, filePath string) ([]Node, error) {
	return s.nodeQuery(
		`MATCH (n:Symbol) WHERE n.file_path = $fp RETURN `+symbolColumns,
		map[string]any{"fp": filePath},
	)
}

// DeadSymbols returns all symbols flagged as dead code.
func (s *KuzuStore) DeadSymbols(_ context.Context) ([]Node, error) {
	return s.nodeQuery(
		`MATCH (n:Symbol) WHERE n.is_dead RETURN `+symbolColumns, nil,
	)
}

// GetProcessMemberships maps node ids to process names via
// PART_OF_PROCESS edges. Unmapped ids are absent from the result.
func (s *KuzuStore) GetProcessMemberships(_ context.Context, nodeIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(nodeIDs))
	for _, id := range nodeIDs {
		rows, err := s.query(
			`MATCH (a:Symbol {id: $id})-[:PART_OF_PROCESS]->(p:Process) RETURN p.name`,
			map[string]any{"id": id},
		)
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			out[id] = toString(rows[0][0])
		}
	}
	return out, nil
}

// ---------- Raw query ----------

// ExecuteRaw runs an arbitrary Cypher query and collects all result rows.
// Write protection is the caller's responsibility; this only executes.
func (s *KuzuStore) ExecuteRaw(_ context.Context, query string) ([][]any, error) {
	return s.query(query, nil)
}

// ---------- Stats ----------

// Stats returns counts of symbols, relationships, and dead symbols.
func (s *KuzuStore) Stats(_ context.Context) (*GraphStats, error) {
	symbols, err := s.count("MATCH (n:Symbol) RETURN count(n)")
	if err != nil {
		return nil, err
	}
	dead, err := s.count("MATCH (n:Symbol) WHERE n.is_dead RETURN count(n)")
	if err != nil {
		return nil, err
	}
	rels := 0
	for _, t := range []string{"CALLS", "REFERENCES_TYPE", "PART_OF_PROCESS"} {
		c, err := s.count(fmt.Sprintf("MATCH ()-[r:%s]->() RETURN count(r)", t))
		if err != nil {
			// Table may not exist yet; treat as zero.
			continue
		}
		rels += c
	}
	return &GraphStats{Symbols: symbols, Relationships: rels, DeadSymbols: dead}, nil
}

// ---------- Internal helpers ----------

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result
// rows. Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// nodeQuery runs a query whose columns match symbolColumns and converts
// each row to a Node.
func (s *KuzuStore) nodeQuery(cypher string, params map[string]any) ([]Node, error) {
	rows, err := s.query(cypher, params)
	if err != nil {
		return nil, err
	}
	out := make([]Node, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToNode(r))
	}
	return out, nil
}

// scoredQuery runs a query returning symbolColumns plus a trailing
// confidence column.
func (s *KuzuStore) scoredQuery(cypher string, params map[string]any) ([]ScoredNode, error) {
	rows, err := s.query(cypher, params)
	if err != nil {
		return nil, err
	}
	out := make([]ScoredNode, 0, len(rows))
	for _, r := range rows {
		out = append(out, ScoredNode{Node: rowToNode(r), Confidence: toFloat64(r[8])})
	}
	return out, nil
}

// count returns the single integer result of a count query.
func (s *KuzuStore) count(cypher string) (int, error) {
	rows, err := s.query(cypher, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

// rowToNode converts an 8-column result row into a Node. Column order
// matches symbolColumns.
func rowToNode(r []any) Node {
	return Node{
		ID:        toString(r[0]),
		Label:     NodeLabel(toString(r[1])),
		Name:      toString(r[2]),
		FilePath:  toString(r[3]),
		StartLine: toInt(r[4]),
		EndLine:   toInt(r[5]),
		Signature: toString(r[6]),
		IsDead:    toBool(r[7]),
	}
}

// rowsToResults converts node rows into SearchResults, scoring each with
// the given function.
func rowsToResults(rows [][]any, score func(Node) float64) []SearchResult {
	out := make([]SearchResult, 0, len(rows))
	for _, r := range rows {
		n := rowToNode(r)
		out = append(out, SearchResult{
			NodeID:   n.ID,
			Score:    score(n),
			Name:     n.Name,
			FilePath: n.FilePath,
			Label:    n.Label,
			Snippet:  n.Signature,
		})
	}
	return out
}

// ---------- Type coercion helpers ----------
// KuzuDB returns typed Go values (int64, float64, bool, string). These
// helpers safely coerce any -> concrete type.

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func toBool(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}

// toFloat32Slice coerces a Kuzu list value into a []float32.
func toFloat32Slice(v any) []float32 {
	switch vs := v.(type) {
	case []float64:
		out := make([]float32, len(vs))
		for i, f := range vs {
			out[i] = float32(f)
		}
		return out
	case []any:
		out := make([]float32, len(vs))
		for i, f := range vs {
			out[i] = float32(toFloat64(f))
		}
		return out
	default:
		return nil
	}
}
