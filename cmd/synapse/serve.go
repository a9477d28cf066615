package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dusk-indust/synapse/internal/mcptools"
)

// runServe starts the MCP server on stdio, or over HTTP when -addr is
// given.
func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	root := fs.String("project-root", ".", "path to the indexed project")
	db := fs.String("db", "", "graph database path (default: <project-root>/.synapse/graph)")
	addr := fs.String("addr", "", "listen address for HTTP transport (default: stdio)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	engine, store, err := openEngine(*root, *db)
	if err != nil {
		return err
	}
	defer store.Close()

	reg, err := openRegistry(*root)
	if err != nil {
		return err
	}
	svc := mcptools.NewQueryService(engine, reg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *addr != "" {
		fmt.Fprintf(os.Stderr, "synapse: serving MCP over HTTP on %s\n", *addr)
		return mcptools.RunHTTP(ctx, svc, *addr)
	}
	return mcptools.RunStdio(ctx, mcptools.NewServer(svc))
}
