package workspace_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/varjudge/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestManager_Clone(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	original := filepath.Join(parent, "project")
	require.NoError(t, os.MkdirAll(original, 0755))
	writeFile(t, original, "main.go", "package main\n")
	writeFile(t, original, "sub/util.go", "package sub\n")
	writeFile(t, original, ".git/config", "vcs noise\n")

	m := workspace.NewManager()
	paths, err := m.Clone(context.Background(), original, 3)

	require.NoError(t, err)
	require.Len(t, paths, 3)
	for _, p := range paths {
		assert.Equal(t, "package main\n", readFile(t, p, "main.go"))
		assert.Equal(t, "package sub\n", readFile(t, p, "sub/util.go"))
		_, err := os.Stat(filepath.Join(p, ".git"))
		assert.True(t, os.IsNotExist(err), "VCS metadata should not be cloned")
	}

	// Clone names are distinct.
	assert.NotEqual(t, paths[0], paths[1])
	assert.NotEqual(t, paths[1], paths[2])
}

func TestManager_Promote(t *testing.T) {
	t.Parallel()

	original := t.TempDir()
	variation := t.TempDir()

	writeFile(t, original, "keep.txt", "same\n")
	writeFile(t, variation, "keep.txt", "same\n")
	writeFile(t, original, "update.txt", "old\n")
	writeFile(t, variation, "update.txt", "new\n")
	writeFile(t, original, "remove.txt", "doomed\n")
	writeFile(t, variation, "sub/create.txt", "fresh\n")

	m := workspace.NewManager()
	err := m.Promote(context.Background(), original, variation)

	require.NoError(t, err)
	assert.Equal(t, "same\n", readFile(t, original, "keep.txt"))
	assert.Equal(t, "new\n", readFile(t, original, "update.txt"))
	assert.Equal(t, "fresh\n", readFile(t, original, "sub/create.txt"))
	_, statErr := os.Stat(filepath.Join(original, "remove.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestManager_PromoteCancelled(t *testing.T) {
	t.Parallel()

	original := t.TempDir()
	variation := t.TempDir()
	writeFile(t, variation, "a.txt", "x\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := workspace.NewManager()
	err := m.Promote(ctx, original, variation)

	assert.ErrorIs(t, err, context.Canceled)
}
