// Package registry tracks indexed repositories in a global on-disk
// registry so tools can operate across more than one project. Each
// repository occupies one slot directory holding a meta.json file.
package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MetaFileName is the metadata file written inside each slot and inside
// a project's local state directory.
const MetaFileName = "meta.json"

// LocalStateDir is the per-project state directory name.
const LocalStateDir = ".synapse"

// Meta describes one indexed repository.
type Meta struct {
	Name          string `json:"name"`
	Path          string `json:"path"`
	Slug          string `json:"slug,omitempty"`
	Stats         Stats  `json:"stats"`
	LastIndexedAt string `json:"last_indexed_at,omitempty"`
}

// Stats summarizes an indexed graph.
type Stats struct {
	Files         int `json:"files"`
	Symbols       int `json:"symbols"`
	Relationships int `json:"relationships"`
}

// Registry is a directory of slot subdirectories, one per repository.
type Registry struct {
	root string
}

// DefaultRoot returns the global registry directory under the user's
// home directory.
func DefaultRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, LocalStateDir, "repos"), nil
}

// New returns a registry rooted at dir. The directory does not need to
// exist yet.
func New(dir string) *Registry {
	return &Registry{root: dir}
}

// Root returns the registry directory.
func (r *Registry) Root() string { return r.root }

// Register claims a slot for the repository at repoPath and writes meta
// into it. The slot name is the path basename; when a different repo
// already holds that name, a short hash of the absolute path is
// appended. Re-registering the same path is idempotent, and any older
// slot still pointing at the same path is removed. A slot whose
// meta.json cannot be parsed is treated as free and reclaimed.
func (r *Registry) Register(meta Meta, repoPath string) (string, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return "", fmt.Errorf("resolve repo path: %w", err)
	}

	slug := filepath.Base(abs)
	existing, readErr := r.readSlot(slug)
	if readErr == nil && existing.Path != abs {
		// Another repo owns the bare name. Disambiguate with a hash
		// of this repo's absolute path.
		sum := sha256.Sum256([]byte(abs))
		slug = slug + "-" + hex.EncodeToString(sum[:])[:8]
	}

	if err := r.removeStaleSlots(abs, slug); err != nil {
		return "", err
	}

	meta.Path = abs
	meta.Slug = slug

	slot := filepath.Join(r.root, slug)
	if err := os.MkdirAll(slot, 0o755); err != nil {
		return "", fmt.Errorf("create registry slot: %w", err)
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode meta: %w", err)
	}
	if err := os.WriteFile(filepath.Join(slot, MetaFileName), data, 0o644); err != nil {
		return "", fmt.Errorf("write meta: %w", err)
	}
	return slug, nil
}

// List returns the metadata of every registered repository, skipping
// slots whose meta.json is missing or corrupt. Slots are visited in
// lexical directory order.
func (r *Registry) List() ([]Meta, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read registry dir: %w", err)
	}

	var repos []Meta
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := r.readSlot(entry.Name())
		if err != nil {
			continue
		}
		repos = append(repos, meta)
	}
	return repos, nil
}

// Remove deletes the slot with the given slug. Removing an absent slug
// is not an error.
func (r *Registry) Remove(slug string) error {
	slot := filepath.Join(r.root, slug)
	if err := os.RemoveAll(slot); err != nil {
		return fmt.Errorf("remove registry slot: %w", err)
	}
	return nil
}

// ListWithLocalFallback lists the global registry; when it is empty the
// working directory's local .synapse/meta.json is consulted so a
// freshly indexed project shows up before its first registration.
func ListWithLocalFallback(r *Registry, cwd string) ([]Meta, error) {
	repos, err := r.List()
	if err != nil {
		return nil, err
	}
	if len(repos) > 0 {
		return repos, nil
	}

	local := filepath.Join(cwd, LocalStateDir, MetaFileName)
	data, err := os.ReadFile(local)
	if err != nil {
		return nil, nil
	}
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, nil
	}
	return []Meta{meta}, nil
}

// readSlot decodes the meta.json of one slot.
func (r *Registry) readSlot(slug string) (Meta, error) {
	data, err := os.ReadFile(filepath.Join(r.root, slug, MetaFileName))
	if err != nil {
		return Meta{}, err
	}
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return Meta{}, fmt.Errorf("decode meta for %s: %w", slug, err)
	}
	return meta, nil
}

// removeStaleSlots deletes any slot other than keep that records the
// same repository path, so a repo relocated to a new slug leaves no
// duplicate entries behind.
func (r *Registry) removeStaleSlots(repoPath, keep string) error {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read registry dir: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == keep {
			continue
		}
		meta, err := r.readSlot(entry.Name())
		if err != nil {
			continue
		}
		if meta.Path == repoPath {
			if err := os.RemoveAll(filepath.Join(r.root, entry.Name())); err != nil {
				return fmt.Errorf("remove stale slot %s: %w", entry.Name(), err)
			}
		}
	}
	return nil
}
