package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
)

func runQuery(args []string) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	root := fs.String("project-root", ".", "path to the indexed project")
	db := fs.String("db", "", "graph database path (default: <project-root>/.synapse/graph)")
	limit := fs.Int("limit", 0, "maximum number of results (default: 20)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("usage: synapse query [flags] <search text>")
	}

	engine, store, err := openEngine(*root, *db)
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := engine.Search(context.Background(), strings.Join(fs.Args(), " "), *limit)
	if err != nil {
		return err
	}
	fmt.Println(report.String())
	return nil
}
