package query

import (
	"context"
	"testing"

	"github.com/dusk-indust/synapse/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveExactNamePreferred(t *testing.T) {
	engine, store := newTestEngine(t)
	// A fuzzy match inserted first would win FTS ordering; exact-name
	// lookup must still pick the true "validate".
	store.AddNode(testNode(graph.LabelFunction, "validate_token", "src/auth.py", 32, 50))
	store.AddNode(testNode(graph.LabelFunction, "validate", "src/auth.py", 10, 30))

	node, err := engine.Resolve(context.Background(), "validate")
	require.NoError(t, err)
	assert.Equal(t, "validate", node.Name)
	assert.Equal(t, 10, node.StartLine)
}

func TestResolveFTSFallback(t *testing.T) {
	engine, store := newTestEngine(t)
	store.AddNode(testNode(graph.LabelFunction, "validate_token", "src/auth.py", 32, 50))

	// No exact match exists; the top FTS hit decides.
	node, err := engine.Resolve(context.Background(), "validate")
	require.NoError(t, err)
	assert.Equal(t, "validate_token", node.Name)
}

func TestResolveWithoutExactNameCapability(t *testing.T) {
	store := graph.NewMemStore()
	store.AddNode(testNode(graph.LabelFunction, "validate", "src/auth.py", 10, 30))
	engine := New(&bareStore{inner: store})

	node, err := engine.Resolve(context.Background(), "validate")
	require.NoError(t, err)
	assert.Equal(t, "validate", node.Name)
}

func TestResolveNotFound(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.Resolve(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
