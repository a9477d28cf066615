package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawQueryExecutesReadOnly(t *testing.T) {
	engine, store := newTestEngine(t)
	store.SetRawHandler(func(q string) ([][]any, error) {
		return [][]any{{"validate", int64(3)}}, nil
	})

	rows, err := engine.RawQuery(context.Background(), "MATCH (n:Symbol) RETURN n.name, count(n)")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "validate", rows[0][0])
}

func TestRawQueryRejectsWriteKeywords(t *testing.T) {
	engine, store := newTestEngine(t)
	executed := false
	store.SetRawHandler(func(string) ([][]any, error) {
		executed = true
		return nil, nil
	})

	queries := []string{
		"MATCH (n) DELETE n",
		"DROP TABLE Symbol",
		"CREATE (n:Symbol {id: 'x'})",
		"MATCH (n) SET n.name = 'y'",
		"MATCH (n) REMOVE n.name",
		"MERGE (n:Symbol {id: 'x'})",
		"MATCH (n) DETACH DELETE n",
		"INSTALL httpfs",
		"LOAD EXTENSION httpfs",
		"COPY Symbol FROM 'file.csv'",
		"CALL show_tables() RETURN *",
		"match (n) delete n", // case-insensitive
	}
	for _, q := range queries {
		_, err := engine.RawQuery(context.Background(), q)
		assert.ErrorIs(t, err, ErrQueryRejected, "query %q must be rejected", q)
	}
	// Rejection happens before execution.
	assert.False(t, executed)
}

func TestRawQueryKeywordMatchesWholeWordsOnly(t *testing.T) {
	engine, store := newTestEngine(t)
	store.SetRawHandler(func(string) ([][]any, error) {
		return [][]any{{int64(1)}}, nil
	})

	// "created_at" contains CREATE as a substring but not as a word.
	rows, err := engine.RawQuery(context.Background(), "MATCH (n) RETURN n.created_at")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRawQueryRejectionNamesKeyword(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.RawQuery(context.Background(), "MATCH (n) DELETE n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DELETE")
}

func TestRawQueryStoreErrorWrapped(t *testing.T) {
	engine, _ := newTestEngine(t)
	// MemStore without a raw handler fails; the engine wraps the error.

	_, err := engine.RawQuery(context.Background(), "MATCH (n) RETURN n")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrQueryRejected)
	assert.Contains(t, err.Error(), "raw query failed")
}
