package main

import (
	"context"
	"flag"
	"fmt"
)

func runDeadCode(args []string) error {
	fs := flag.NewFlagSet("dead-code", flag.ContinueOnError)
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

	report, err := engine.DeadCode(context.Background())
	if err != nil {
		return err
	}
	fmt.Println(report.String())
	return nil
}
