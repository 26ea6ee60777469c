package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover_DirectoryInLexicalOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "c.txt", "sub/d.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}

	paths, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.yml"), filepath.Join(dir, "b.yaml")}, paths)
}

func TestDiscover_FilesKeepArgumentOrderWithoutDuplicates(t *testing.T) {
	a := "testdata/scenarios/05_param_defaults.yaml"
	b := "testdata/scenarios/01_init_and_list.yaml"

	paths, err := Discover(a, b, a)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, paths)
}

func TestDiscover_Missing(t *testing.T) {
	_, err := Discover("testdata/nowhere")
	var nf *ScenarioNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "testdata/nowhere", nf.Path)
}
