package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRepoDir creates a directory under tmp to act as a repository.
func newRepoDir(t *testing.T, parts ...string) string {
	t.Helper()
	dir := filepath.Join(append([]string{t.TempDir()}, parts...)...)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}

func readMeta(t *testing.T, reg *Registry, slug string) Meta {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(reg.Root(), slug, MetaFileName))
	require.NoError(t, err)
	var meta Meta
	require.NoError(t, json.Unmarshal(data, &meta))
	return meta
}

func TestRegisterFirstRegistration(t *testing.T) {
	reg := New(filepath.Join(t.TempDir(), "repos"))
	repo := newRepoDir(t, "my-project")

	slug, err := reg.Register(Meta{Name: "my-project"}, repo)
	require.NoError(t, err)
	assert.Equal(t, "my-project", slug)

	written := readMeta(t, reg, slug)
	assert.Equal(t, "my-project", written.Name)
	assert.Equal(t, "my-project", written.Slug)
	assert.Equal(t, repo, written.Path)
}

func TestRegisterIdempotent(t *testing.T) {
	reg := New(filepath.Join(t.TempDir(), "repos"))
	repo := newRepoDir(t, "my-project")

	_, err := reg.Register(Meta{Name: "my-project"}, repo)
	require.NoError(t, err)
	slug, err := reg.Register(Meta{Name: "my-project"}, repo)
	require.NoError(t, err)
	assert.Equal(t, "my-project", slug)

	entries, err := os.ReadDir(reg.Root())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRegisterNameCollision(t *testing.T) {
	reg := New(filepath.Join(t.TempDir(), "repos"))
	repoA := newRepoDir(t, "workspace-a", "myapp")
	repoB := newRepoDir(t, "workspace-b", "myapp")

	slugA, err := reg.Register(Meta{Name: "myapp"}, repoA)
	require.NoError(t, err)
	slugB, err := reg.Register(Meta{Name: "myapp"}, repoB)
	require.NoError(t, err)

	assert.Equal(t, "myapp", slugA)
	assert.True(t, strings.HasPrefix(slugB, "myapp-"), "collision slug should carry a hash suffix, got %q", slugB)
	assert.NotEqual(t, slugA, slugB)

	// Both slots exist with the right paths.
	assert.Equal(t, repoA, readMeta(t, reg, slugA).Path)
	assert.Equal(t, repoB, readMeta(t, reg, slugB).Path)
}

func TestRegisterCollisionSlugStable(t *testing.T) {
	reg := New(filepath.Join(t.TempDir(), "repos"))
	repoA := newRepoDir(t, "workspace-a", "myapp")
	repoB := newRepoDir(t, "workspace-b", "myapp")

	_, err := reg.Register(Meta{Name: "myapp"}, repoA)
	require.NoError(t, err)
	first, err := reg.Register(Meta{Name: "myapp"}, repoB)
	require.NoError(t, err)
	second, err := reg.Register(Meta{Name: "myapp"}, repoB)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	entries, err := os.ReadDir(reg.Root())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRegisterCleansStaleSlots(t *testing.T) {
	reg := New(filepath.Join(t.TempDir(), "repos"))
	repo := newRepoDir(t, "myapp")

	// A stale entry under a hash slug points at the same path.
	stale := filepath.Join(reg.Root(), "myapp-abcd1234")
	require.NoError(t, os.MkdirAll(stale, 0o755))
	staleMeta, err := json.Marshal(Meta{Name: "myapp", Path: repo})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(stale, MetaFileName), staleMeta, 0o644))

	slug, err := reg.Register(Meta{Name: "myapp"}, repo)
	require.NoError(t, err)
	assert.Equal(t, "myapp", slug)

	_, statErr := os.Stat(stale)
	assert.True(t, os.IsNotExist(statErr), "stale slot should be removed")
	assert.Equal(t, repo, readMeta(t, reg, "myapp").Path)
}

func TestRegisterReclaimsCorruptSlot(t *testing.T) {
	reg := New(filepath.Join(t.TempDir(), "repos"))
	repo := newRepoDir(t, "myapp")

	slot := filepath.Join(reg.Root(), "myapp")
	require.NoError(t, os.MkdirAll(slot, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(slot, MetaFileName), []byte("not valid json!"), 0o644))

	slug, err := reg.Register(Meta{Name: "myapp"}, repo)
	require.NoError(t, err)
	assert.Equal(t, "myapp", slug)
	assert.Equal(t, repo, readMeta(t, reg, "myapp").Path)
}

func TestListSkipsCorruptSlots(t *testing.T) {
	reg := New(filepath.Join(t.TempDir(), "repos"))
	repo := newRepoDir(t, "good")
	_, err := reg.Register(Meta{Name: "good"}, repo)
	require.NoError(t, err)

	bad := filepath.Join(reg.Root(), "bad")
	require.NoError(t, os.MkdirAll(bad, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bad, MetaFileName), []byte("{"), 0o644))

	repos, err := reg.List()
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "good", repos[0].Name)
}

func TestListMissingRoot(t *testing.T) {
	reg := New(filepath.Join(t.TempDir(), "does-not-exist"))
	repos, err := reg.List()
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestRemove(t *testing.T) {
	reg := New(filepath.Join(t.TempDir(), "repos"))
	repo := newRepoDir(t, "myapp")
	slug, err := reg.Register(Meta{Name: "myapp"}, repo)
	require.NoError(t, err)

	require.NoError(t, reg.Remove(slug))
	repos, err := reg.List()
	require.NoError(t, err)
	assert.Empty(t, repos)

	// Removing an absent slug is not an error.
	assert.NoError(t, reg.Remove("ghost"))
}

func TestListWithLocalFallback(t *testing.T) {
	reg := New(filepath.Join(t.TempDir(), "repos"))

	cwd := t.TempDir()
	local := filepath.Join(cwd, LocalStateDir)
	require.NoError(t, os.MkdirAll(local, 0o755))
	data, err := json.Marshal(Meta{Name: "local-project", Path: cwd})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(local, MetaFileName), data, 0o644))

	// Empty registry: the local marker is consulted.
	repos, err := ListWithLocalFallback(reg, cwd)
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "local-project", repos[0].Name)

	// Non-empty registry: the fallback is ignored.
	repo := newRepoDir(t, "global-project")
	_, err = reg.Register(Meta{Name: "global-project"}, repo)
	require.NoError(t, err)

	repos, err = ListWithLocalFallback(reg, cwd)
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "global-project", repos[0].Name)
}

func TestListWithLocalFallbackNoMarker(t *testing.T) {
	reg := New(filepath.Join(t.TempDir(), "repos"))
	repos, err := ListWithLocalFallback(reg, t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, repos)
}
