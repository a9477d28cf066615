package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dusk-indust/synapse/internal/registry"
)

// runRepos lists registered repositories, falling back to the working
// directory's local metadata when the global registry is empty.
func runRepos(args []string) error {
	fs := flag.NewFlagSet("repos", flag.ContinueOnError)
	root := fs.String("project-root", ".", "path used to resolve config")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reg, err := openRegistry(*root)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	repos, err := registry.ListWithLocalFallback(reg, cwd)
	if err != nil {
		return err
	}

	if len(repos) == 0 {
		fmt.Println("No indexed repositories found. Run `synapse index` on a project first.")
		return nil
	}

	fmt.Printf("Indexed repositories (%d):\n\n", len(repos))
	for i, repo := range repos {
		fmt.Printf("  %d. %s\n", i+1, repo.Name)
		fmt.Printf("     Path: %s\n", repo.Path)
		fmt.Printf("     Files: %d  Symbols: %d  Relationships: %d\n\n",
			repo.Stats.Files, repo.Stats.Symbols, repo.Stats.Relationships)
	}
	return nil
}

// runClean removes a repository slot from the registry.
func runClean(args []string) error {
	fs := flag.NewFlagSet("clean", flag.ContinueOnError)
	root := fs.String("project-root", ".", "path used to resolve config")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: synapse clean [flags] <slug>")
	}

	reg, err := openRegistry(*root)
	if err != nil {
		return err
	}
	if err := reg.Remove(fs.Arg(0)); err != nil {
		return err
	}
	fmt.Printf("Removed %q from the registry.\n", fs.Arg(0))
	return nil
}
