//go:build cgo

package main

import (
	"fmt"

	"github.com/dusk-indust/synapse/internal/graph"
)

// openStore opens the on-disk graph database at dbPath.
func openStore(dbPath string) (graph.Store, error) {
	store, err := graph.NewKuzuFileStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open graph database at %s: %w", dbPath, err)
	}
	return store, nil
}
