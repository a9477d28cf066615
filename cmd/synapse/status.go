package main

import (
	"context"
	"flag"
	"fmt"
)

// runStatus prints graph-wide statistics for the indexed project.
func runStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	root := fs.String("project-root", ".", "path to the indexed project")
	db := fs.String("db", "", "graph database path (default: <project-root>/.synapse/graph)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	engine, store, err := openEngine(*root, *db)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := engine.Overview(context.Background())
	if err != nil {
		return err
	}

	fmt.Println("Graph status:")
	fmt.Printf("  Symbols:       %d\n", stats.Symbols)
	fmt.Printf("  Relationships: %d\n", stats.Relationships)
	fmt.Printf("  Dead symbols:  %d\n", stats.DeadSymbols)
	return nil
}
