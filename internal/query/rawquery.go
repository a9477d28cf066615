package query

import (
	"context"
	"fmt"
	"regexp"
)

// writeKeywords matches write-intent Cypher keywords, case-insensitively.
// The list is fixed; any match rejects the query before it reaches the
// store. CALL/INSTALL/LOAD cover extension loading, which can also
// mutate state.
var writeKeywords = regexp.MustCompile(
	`(?i)\b(DELETE|DROP|CREATE|SET|REMOVE|MERGE|DETACH|INSTALL|LOAD|COPY|CALL)\b`,
)

// RawQuery executes a read-only structured query against the store.
// Queries carrying write-intent keywords fail closed with
// ErrQueryRejected and are never executed. A store failure surfaces the
// underlying message: a single query has no smaller unit to scope the
// error to.
func (e *Engine) RawQuery(ctx context.Context, queryText string) ([][]any, error) {
	if kw := writeKeywords.FindString(queryText); kw != "" {
		return nil, fmt.Errorf("%w: %q is a write operation; only read-only queries (MATCH/RETURN) are allowed", ErrQueryRejected, kw)
	}
	rows, err := e.store.ExecuteRaw(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("raw query failed: %w", err)
	}
	return rows, nil
}
