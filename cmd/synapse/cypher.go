package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/dusk-indust/synapse/internal/query"
)

func runCypher(args []string) error {
	fs := flag.NewFlagSet("cypher", flag.ContinueOnError)
	root := fs.String("project-root", ".", "path to the indexed project")
	db := fs.String("db", "", "graph database path (default: <project-root>/.synapse/graph)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("usage: synapse cypher [flags] <query>")
	}

	engine, store, err := openEngine(*root, *db)
	if err != nil {
		return err
	}
	defer store.Close()

	rows, err := engine.RawQuery(context.Background(), strings.Join(fs.Args(), " "))
	if errors.Is(err, query.ErrQueryRejected) {
		fmt.Println(err.Error())
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println(query.FormatRows(rows))
	return nil
}
