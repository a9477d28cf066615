package main

import (
	"fmt"
	"path/filepath"

	"github.com/dusk-indust/synapse/internal/config"
	"github.com/dusk-indust/synapse/internal/embed"
	"github.com/dusk-indust/synapse/internal/graph"
	"github.com/dusk-indust/synapse/internal/query"
	"github.com/dusk-indust/synapse/internal/registry"
)

// graphDirName is the on-disk graph database location relative to the
// project root.
const graphDirName = ".synapse/graph"

// openEngine loads project config, opens the graph store, and wires the
// optional embedder. The returned store must be closed by the caller.
func openEngine(projectRoot, dbOverride string) (*query.Engine, graph.Store, error) {
	cfg, err := config.Load(projectRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	dbPath := dbOverride
	if dbPath == "" {
		dbPath = cfg.DatabasePath
	}
	if dbPath == "" {
		dbPath = filepath.Join(projectRoot, graphDirName)
	}

	store, err := openStore(dbPath)
	if err != nil {
		return nil, nil, err
	}

	var opts []query.Option
	if emb := newEmbedder(cfg.Embedder); emb != nil {
		opts = append(opts, query.WithEmbedder(emb))
	}

	return query.New(store, opts...), store, nil
}

// newEmbedder builds the configured embedding backend, or nil when the
// config selects none. Search degrades to lexical-only without one.
func newEmbedder(cfg config.EmbedderConfig) embed.Embedder {
	switch cfg.Kind {
	case "http":
		return embed.NewHTTPEmbedder(cfg.Endpoint)
	case "openai":
		return embed.NewOpenAIEmbedder(cfg.APIKey, cfg.Endpoint, cfg.Model)
	default:
		return nil
	}
}

// openRegistry resolves the registry root from config or the default
// home-directory location.
func openRegistry(projectRoot string) (*registry.Registry, error) {
	cfg, err := config.Load(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	root := cfg.RegistryRoot
	if root == "" {
		root, err = registry.DefaultRoot()
		if err != nil {
			return nil, err
		}
	}
	return registry.New(root), nil
}
