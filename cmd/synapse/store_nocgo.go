//go:build !cgo

package main

import (
	"fmt"

	"github.com/dusk-indust/synapse/internal/graph"
)

// openStore reports that the graph database requires a cgo build.
func openStore(string) (graph.Store, error) {
	return nil, fmt.Errorf("this build has no graph database support (rebuild with CGO_ENABLED=1)")
}
