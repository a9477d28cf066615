// Package query turns raw graph-store primitives into decision-useful
// answers: symbol resolution, hybrid search, blast-radius traversal,
// diff-to-symbol mapping, and gated raw queries. Every operation is
// synchronous and safe for concurrent callers; the graph is read-only
// throughout.
package query

import (
	"errors"

	"github.com/dusk-indust/synapse/internal/embed"
	"github.com/dusk-indust/synapse/internal/graph"
)

// Sentinel errors. All four are normal outcomes, not faults: callers
// match them with errors.Is and render a message instead of failing.
var (
	// ErrNotFound means a symbol name resolved to nothing, or its node
	// no longer exists in the store.
	ErrNotFound = errors.New("symbol not found")

	// ErrEmptyDiff means the diff input was empty or whitespace-only.
	ErrEmptyDiff = errors.New("empty diff")

	// ErrUnparseableDiff means the diff contained no recognizable
	// file/hunk pairs.
	ErrUnparseableDiff = errors.New("unparseable diff")

	// ErrQueryRejected means a raw query carried write-intent keywords
	// and was refused before execution.
	ErrQueryRejected = errors.New("query rejected")
)

const (
	// DefaultSearchLimit caps search results when the caller passes no
	// limit.
	DefaultSearchLimit = 20

	// DefaultImpactDepth is the traversal depth used when none is given.
	DefaultImpactDepth = 3

	// MaxTraverseDepth is the hard ceiling on impact traversal depth.
	// Caller graphs can be densely connected; unbounded walks produce
	// unusable output.
	MaxTraverseDepth = 10
)

// Engine answers questions about an indexed code graph. The zero value
// is not usable; construct with New.
type Engine struct {
	store    graph.Store
	embedder embed.Embedder
}

// Option configures an Engine.
type Option func(*Engine)

// WithEmbedder enables the semantic search channel. Without one, search
// is lexical-only.
func WithEmbedder(e embed.Embedder) Option {
	return func(eng *Engine) { eng.embedder = e }
}

// New creates an Engine over the given store.
func New(store graph.Store, opts ...Option) *Engine {
	eng := &Engine{store: store}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}
