package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewServer creates an MCP server with all 7 graph query tools
// registered.
func NewServer(svc *QueryService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "synapse",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search",
		Description: "Search the code graph for symbols by meaning and name. Fuses full-text and semantic retrieval into one ranked list, grouped by execution process where known.",
	}, svc.Search)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "context",
		Description: "Get the full picture of one symbol: file span, signature, callers, callees, and referenced types, with confidence indicators on inferred edges.",
	}, svc.Context)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "impact",
		Description: "Analyse the blast radius of changing a symbol. Walks upstream callers breadth-first and groups affected symbols by hop distance.",
	}, svc.Impact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "detect_changes",
		Description: "Map a unified diff to the indexed symbols whose line spans overlap the changed ranges, per file.",
	}, svc.DetectChanges)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "cypher",
		Description: "Run a read-only Cypher query against the code graph. Write and schema operations are rejected.",
	}, svc.Cypher)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "dead_code",
		Description: "List symbols flagged as unreachable during indexing, grouped by file.",
	}, svc.DeadCode)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_repos",
		Description: "List repositories registered in the global index registry, with their graph statistics.",
	}, svc.ListRepos)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin
// is closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts an HTTP server exposing the MCP tools.
func RunHTTP(ctx context.Context, svc *QueryService, addr string) error {
	server := NewServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
