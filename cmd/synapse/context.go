package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/dusk-indust/synapse/internal/query"
)

func runContext(args []string) error {
	fs := flag.NewFlagSet("context", flag.ContinueOnError)
	root := fs.String("project-root", ".", "path to the indexed project")
	db := fs.String("db", "", "graph database path (default: <project-root>/.synapse/graph)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: synapse context [flags] <symbol>")
	}
	symbol := fs.Arg(0)

	engine, store, err := openEngine(*root, *db)
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := engine.Context(context.Background(), symbol)
	if errors.Is(err, query.ErrNotFound) {
		fmt.Printf("No results found for %q.\n", symbol)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println(report.String())
	return nil
}
