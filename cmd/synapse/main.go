// Command synapse queries a code graph built for AI coding agents:
// hybrid symbol search, change-impact analysis, diff-to-symbol mapping,
// and an MCP server exposing the same operations as tools.
package main

import (
	"fmt"
	"os"
)

// version is set by goreleaser at build time.
var version = "dev"

const usage = `Usage: synapse <command> [flags]

Commands:
  query      search the code graph for symbols
  context    show callers, callees, and type refs of one symbol
  impact     analyse the blast radius of changing a symbol
  diff       map a unified diff to affected symbols
  cypher     run a read-only Cypher query
  dead-code  list unreachable symbols
  repos      list registered repositories
  clean      remove a repository from the registry
  status     show graph statistics
  serve      run the MCP server (stdio or HTTP)
  version    print version and exit

Run 'synapse <command> -h' for command flags.`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Println(usage)
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "query":
		return runQuery(rest)
	case "context":
		return runContext(rest)
	case "impact":
		return runImpact(rest)
	case "diff":
		return runDiff(rest)
	case "cypher":
		return runCypher(rest)
	case "dead-code":
		return runDeadCode(rest)
	case "repos":
		return runRepos(rest)
	case "clean":
		return runClean(rest)
	case "status":
		return runStatus(rest)
	case "serve":
		return runServe(rest)
	case "version", "--version", "-v":
		fmt.Println(version)
		return nil
	case "help", "--help", "-h":
		fmt.Println(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q (run 'synapse help')", cmd)
	}
}
