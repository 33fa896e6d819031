package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/varjudge/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ParsesProjectFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "varjudge.yaml")
	content := `original: ./app
variations:
  var-1: ./app-var-1
  var-2: ./app-var-2
agent: claude
fast_model: haiku
synthesis_model: sonnet
batch_size: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	p, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, "./app", p.Original)
	assert.Equal(t, map[string]string{"var-1": "./app-var-1", "var-2": "./app-var-2"}, p.Variations)
	assert.Equal(t, "claude", p.Agent)
	assert.Equal(t, "haiku", p.FastModel)
	assert.Equal(t, "sonnet", p.SynthesisModel)
	assert.Equal(t, 3, p.BatchSize)
}

func TestLoad_MissingFileYieldsEmptyProject(t *testing.T) {
	t.Parallel()

	p, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Empty(t, p.Original)
	assert.Empty(t, p.Variations)
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "varjudge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("original: [unclosed"), 0644))

	_, err := config.Load(path)

	assert.Error(t, err)
}
