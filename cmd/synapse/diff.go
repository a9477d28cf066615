package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dusk-indust/synapse/internal/export"
	"github.com/dusk-indust/synapse/internal/query"
)

// runDiff reads a unified diff from a file argument or stdin and maps
// it to affected symbols.
func runDiff(args []string) error {
	fs := flag.NewFlagSet("diff", flag.ContinueOnError)
	root := fs.String("project-root", ".", "path to the indexed project")
	db := fs.String("db", "", "graph database path (default: <project-root>/.synapse/graph)")
	format := fs.String("format", "text", "output format: text or json")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var diffText []byte
	var err error
	if fs.NArg() > 0 {
		diffText, err = os.ReadFile(fs.Arg(0))
		if err != nil {
			return fmt.Errorf("read diff file: %w", err)
		}
	} else {
		diffText, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}

	engine, store, err := openEngine(*root, *db)
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := engine.AffectedSymbols(context.Background(), string(diffText))
	if errors.Is(err, query.ErrEmptyDiff) {
		fmt.Println("Empty diff provided.")
		return nil
	}
	if errors.Is(err, query.ErrUnparseableDiff) {
		fmt.Println("Could not parse any changed files from the diff.")
		return nil
	}
	if err != nil {
		return err
	}

	if *format == "json" {
		return export.WriteJSON(os.Stdout, "diff", report)
	}
	fmt.Println(report.String())
	return nil
}
