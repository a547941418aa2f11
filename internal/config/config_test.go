package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
		assert.Equal(t, "cli", cfg.Output)
	})

	t.Run("full file", func(t *testing.T) {
		path := writeConfig(t, `
sourceRoots:
  - /game/Scripts
  - /game/Source
extensions: [".lua", ".cpp"]
output: cli-more
parallelism: 4
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"/game/Scripts", "/game/Source"}, cfg.SourceRoots)
		assert.Equal(t, []string{".lua", ".cpp"}, cfg.Extensions)
		assert.Equal(t, "cli-more", cfg.Output)
		assert.Equal(t, 4, cfg.Parallelism)
	})

	t.Run("partial file keeps defaults for the rest", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "parallelism: 2\n"))
		require.NoError(t, err)
		assert.Equal(t, "cli", cfg.Output)
		assert.Equal(t, 2, cfg.Parallelism)
		assert.Empty(t, cfg.SourceRoots)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "output: [unclosed\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("unknown output format", func(t *testing.T) {
		_, err := Load(writeConfig(t, "output: xml\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"xml"`)
	})

	t.Run("negative parallelism", func(t *testing.T) {
		_, err := Load(writeConfig(t, "parallelism: -1\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parallelism")
	})
}

func TestValidateOutput(t *testing.T) {
	for _, format := range ValidOutputs {
		assert.NoError(t, ValidateOutput(format), format)
	}
	assert.Error(t, ValidateOutput("yaml"))
	assert.Error(t, ValidateOutput(""))
	assert.Error(t, ValidateOutput("CLI"), "formats are case-sensitive")
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, filepath.Join("ldiag", "config.yaml")))
}
