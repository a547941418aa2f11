package html

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mabhi256/ldiag/internal/chain"
)

func sampleReport(t *testing.T) *chain.JSONReport {
	t.Helper()
	results := chain.AnalyzeAll([]string{
		"A:1[true]._c.B:2[false].__cppinst = WBP_B_C",
		"C:3[true]._d.D:4[true]",
	}, 1, nil)
	return chain.BuildJSONReport(results, chain.Aggregate(results), nil)
}

func TestGenerateReport(t *testing.T) {
	t.Run("writes a self-contained page", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "report.html")

		path, err := GenerateReport(sampleReport(t), out)
		require.NoError(t, err)
		assert.Equal(t, out, path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		content := string(data)

		assert.NotContains(t, content, "{{CSS_CONTENT}}")
		assert.NotContains(t, content, "{{JS_CONTENT}}")
		assert.NotContains(t, content, "{{JSON_DATA}}")
		assert.Contains(t, content, `"rawChain"`, "report data is embedded")
		assert.Contains(t, content, "WBP_B_C")
	})

	t.Run("nil report", func(t *testing.T) {
		_, err := GenerateReport(nil, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be nil")
	})

	t.Run("empty report", func(t *testing.T) {
		empty := &chain.JSONReport{}
		_, err := GenerateReport(empty, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no chains analyzed")
	})

	t.Run("creates missing directories", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "nested", "deep", "report.html")
		path, err := GenerateReport(sampleReport(t), out)
		require.NoError(t, err)
		assert.FileExists(t, path)
	})
}

func TestGetOutputPath(t *testing.T) {
	t.Run("appends html extension", func(t *testing.T) {
		path, err := GetOutputPath(filepath.Join(t.TempDir(), "report"))
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(path, "report.html"))
	})

	t.Run("keeps an existing extension", func(t *testing.T) {
		path, err := GetOutputPath(filepath.Join(t.TempDir(), "Report.HTML"))
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(path, "Report.HTML"))
	})

	t.Run("empty path falls back to the timestamped default", func(t *testing.T) {
		t.Chdir(t.TempDir())

		path, err := GetOutputPath("")
		require.NoError(t, err)
		assert.Contains(t, filepath.Base(path), "leak-report-")
		assert.True(t, strings.HasSuffix(path, ".html"))
	})
}

func TestGetDefaultOutputPath(t *testing.T) {
	name := GetDefaultOutputPath()
	assert.True(t, strings.HasPrefix(name, "leak-report-"))
	assert.True(t, strings.HasSuffix(name, ".html"))
}
