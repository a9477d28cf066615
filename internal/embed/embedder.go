// Package embed provides query-embedding clients for the semantic search
// channel. Embedding failures are expected operating conditions (the
// service may be down or unconfigured); callers catch them and degrade to
// lexical-only search.
package embed

import "context"

// Embedder converts text into a dense vector for similarity search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
