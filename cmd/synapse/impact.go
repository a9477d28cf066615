package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/dusk-indust/synapse/internal/export"
	"github.com/dusk-indust/synapse/internal/query"
)

func runImpact(args []string) error {
	fs := flag.NewFlagSet("impact", flag.ContinueOnError)
	root := fs.String("project-root", ".", "path to the indexed project")
	db := fs.String("db", "", "graph database path (default: <project-root>/.synapse/graph)")
	depth := fs.Int("depth", query.DefaultImpactDepth, "caller traversal depth (clamped to 1-10)")
	format := fs.String("format", "text", "output format: text, json, or mermaid")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: synapse impact [flags] <symbol>")
	}
	symbol := fs.Arg(0)

	engine, store, err := openEngine(*root, *db)
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := engine.Impact(context.Background(), symbol, *depth)
	if errors.Is(err, query.ErrNotFound) {
		fmt.Printf("No results found for %q.\n", symbol)
		return nil
	}
	if err != nil {
		return err
	}

	switch *format {
	case "json":
		return export.WriteJSON(os.Stdout, "impact", report)
	case "mermaid":
		fmt.Println(export.ImpactMermaid(report))
	case "text":
		fmt.Println(report.String())
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
	return nil
}
