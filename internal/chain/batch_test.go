package chain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAnalyze(t *testing.T) {
	t.Run("valid chain", func(t *testing.T) {
		r := Analyze("X:1[true]._c.Y:2[false]")

		require.NoError(t, r.Err)
		require.NotNil(t, r.Chain)
		assert.Equal(t, 2, r.Chain.Len())
		require.Len(t, r.Frontier, 1)
		require.Len(t, r.Findings, 1)
		assert.Equal(t, CategoryMissingChildRelease, r.Findings[0].Category)
		assert.False(t, r.Clean())
	})

	t.Run("clean chain", func(t *testing.T) {
		r := Analyze("X:1[true]._c.Y:2[true]")

		require.NoError(t, r.Err)
		assert.True(t, r.Clean())
		assert.Empty(t, r.Findings)
		assert.Equal(t, "", r.MaxSeverity())
	})

	t.Run("malformed chain", func(t *testing.T) {
		r := Analyze("X:1[true]._c")

		require.Error(t, r.Err)
		assert.Nil(t, r.Chain)
		assert.Equal(t, "X:1[true]._c", r.Input)
		assert.False(t, r.Clean())
	})
}

func TestAnalyzeAllOrder(t *testing.T) {
	var inputs []string
	for i := 0; i < 200; i++ {
		inputs = append(inputs, fmt.Sprintf("Root%d:%X[true]._c.Child%d:%X[false]", i, i+1, i, i+1000))
	}

	results := AnalyzeAll(inputs, 8, zap.NewNop())
	require.Len(t, results, len(inputs))

	for i, r := range results {
		assert.Equal(t, i+1, r.Ordinal)
		assert.Equal(t, inputs[i], r.Input)
		require.NoError(t, r.Err)
		assert.Equal(t, fmt.Sprintf("Root%d", i), r.Chain.Nodes[0].ClassName)
	}
}

func TestAnalyzeAllParallelMatchesSerial(t *testing.T) {
	inputs := []string{
		"A:1[true]._a.B:2[false]",
		"garbage",
		"C:3[true]._c.D:4[true]",
		"E:5[false].__cppinst = WBP_E_C",
	}

	serial := AnalyzeAll(inputs, 1, nil)
	parallel := AnalyzeAll(inputs, 4, nil)

	require.Len(t, parallel, len(serial))
	for i := range serial {
		assert.Equal(t, serial[i].Ordinal, parallel[i].Ordinal)
		assert.Equal(t, serial[i].Findings, parallel[i].Findings)
		if serial[i].Err != nil {
			assert.EqualError(t, parallel[i].Err, serial[i].Err.Error())
		} else {
			assert.NoError(t, parallel[i].Err)
		}
	}
}

func TestAnalyzeAllFailureIsolation(t *testing.T) {
	results := AnalyzeAll([]string{
		"A:1[true]._a.B:2[false]",
		"definitely not a chain",
		"C:3[true]._c.D:4[false]",
	}, 0, nil)

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err, "a bad line never stops its neighbors")
}

func TestDefaultParallelism(t *testing.T) {
	p := DefaultParallelism()
	assert.GreaterOrEqual(t, p, 1)
	assert.LessOrEqual(t, p, 8)
}

func TestExitCode(t *testing.T) {
	t.Run("findings exit zero", func(t *testing.T) {
		results := AnalyzeAll([]string{"A:1[true]._a.B:2[false]"}, 1, nil)
		assert.Equal(t, ExitOK, ExitCode(results))
	})

	t.Run("any parse failure wins", func(t *testing.T) {
		results := AnalyzeAll([]string{
			"A:1[true]._a.B:2[false]",
			"nope",
		}, 1, nil)
		assert.Equal(t, ExitBadChain, ExitCode(results))
	})

	t.Run("all clean", func(t *testing.T) {
		results := AnalyzeAll([]string{
			"A:1[true]._a.B:2[true]",
			"C:3[true]",
		}, 1, nil)
		assert.Equal(t, ExitNoLeaks, ExitCode(results))
	})

	t.Run("empty batch has no leaks", func(t *testing.T) {
		assert.Equal(t, ExitNoLeaks, ExitCode(nil))
	})
}
