package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aggregate(t *testing.T, inputs ...string) *Summary {
	t.Helper()
	return Aggregate(AnalyzeAll(inputs, 1, nil))
}

func TestAggregateSharedObject(t *testing.T) {
	t.Run("same object leaking on two paths forms a group", func(t *testing.T) {
		s := aggregate(t,
			"A:10[true]._c.Leak:FF[false]",
			"B:20[true]._d.Leak:FF[false]",
		)
		require.Len(t, s.Groups, 1)

		g := s.Groups[0]
		assert.Equal(t, GroupSharedObject, g.Kind)
		assert.Equal(t, "Leak", g.ClassName)
		assert.Equal(t, "FF", g.Address)
		assert.Equal(t, "Leak:FF", g.Key())
		assert.Equal(t, []int{1, 2}, g.Chains)
		assert.Equal(t, 2, g.FixImpact)
		assert.Equal(t, 2, g.FindingCount)
		assert.Equal(t, SeverityWarning, g.Severity)
	})

	t.Run("one chain is a finding, not a group", func(t *testing.T) {
		s := aggregate(t, "A:10[true]._c.Leak:FF[false]")
		assert.Empty(t, s.Groups)
	})

	t.Run("same class at different addresses stays separate", func(t *testing.T) {
		s := aggregate(t,
			"A:10[true]._c.Leak:F1[false]",
			"A:20[true]._c.Leak:F2[false]",
		)
		for _, g := range s.Groups {
			assert.NotEqual(t, GroupSharedObject, g.Kind)
		}
	})
}

func TestAggregateSharedEdge(t *testing.T) {
	t.Run("one relation leaking under different owners", func(t *testing.T) {
		s := aggregate(t,
			"A:1[true]._init.X:2[false]",
			"B:3[true]._init.Y:4[false]",
		)
		require.Len(t, s.Groups, 1)

		g := s.Groups[0]
		assert.Equal(t, GroupSharedEdge, g.Kind)
		assert.Equal(t, "_init", g.Edge)
		assert.Equal(t, "_init", g.Key())
		assert.Equal(t, []string{"A", "B"}, g.RootClasses)
		assert.Equal(t, []int{1, 2}, g.Chains)
		assert.Equal(t, 2, g.FixImpact)
	})

	t.Run("one root class is not a systemic signal", func(t *testing.T) {
		s := aggregate(t,
			"A:1[true]._init.X:2[false]",
			"A:9[true]._init.Y:8[false]",
		)
		assert.Empty(t, s.Groups, "same edge under one owner class belongs to that class")
	})
}

func TestAggregateFixImpact(t *testing.T) {
	// Chain 1 hits "_n" twice; a fix there still saves it only once.
	s := aggregate(t,
		"A:1[true]._n.B:2[false]._n.C:3[false]",
		"Z:5[true]._n.W:6[false]",
	)
	require.Len(t, s.Groups, 1)

	g := s.Groups[0]
	assert.Equal(t, GroupSharedEdge, g.Kind)
	assert.Equal(t, 3, g.FindingCount)
	assert.Equal(t, 2, g.FixImpact, "distinct chains, not findings")
	assert.Equal(t, []int{1, 2}, g.Chains)
}

func TestAggregateStats(t *testing.T) {
	s := aggregate(t,
		"A:1[true]._c.B:2[false].__cppinst = WBP_Item_C", // 1 frontier node
		"C:3[true]._d.D:4[true]",                         // clean
		"broken chain",                                   // parse failure
		"E:5[false]._e.F:6[false]",                       // 2 frontier nodes
	)

	assert.Equal(t, 4, s.Stats.TotalChains)
	assert.Equal(t, 3, s.Stats.ParsedChains)
	assert.Equal(t, 1, s.Stats.FailedChains)
	assert.Equal(t, 1, s.Stats.CleanChains)
	assert.Equal(t, 3, s.Stats.FrontierNodes)
	assert.Equal(t, []string{"B", "E", "F"}, s.Stats.UniqueLeakedClasses)
	assert.Equal(t, []string{"WBP_Item_C"}, s.Stats.UniqueNativeClasses)
}

func TestAggregateOrdering(t *testing.T) {
	// Three groups: an edge group with impact 3 and an object and an edge
	// group with impact 2 each. Ties break on kind, then key.
	inputs := []string{
		"A:1[true]._big.X:2[false]",
		"B:3[true]._big.Y:4[false]",
		"C:5[true]._big.Z:6[false]",
		"D:7[true]._two.Obj:EE[false]",
		"E:8[true]._two.Obj:EE[false]",
	}

	first := Aggregate(AnalyzeAll(inputs, 1, nil))
	require.Len(t, first.Groups, 3)

	assert.Equal(t, "_big", first.Groups[0].Key())
	assert.Equal(t, 3, first.Groups[0].FixImpact)
	assert.Equal(t, GroupSharedEdge, first.Groups[1].Kind, "kind ties break lexically")
	assert.Equal(t, "_two", first.Groups[1].Key())
	assert.Equal(t, GroupSharedObject, first.Groups[2].Kind)
	assert.Equal(t, "Obj:EE", first.Groups[2].Key())

	for range 5 {
		assert.Equal(t, first, Aggregate(AnalyzeAll(inputs, 4, nil)))
	}
}

func TestAggregateSeverity(t *testing.T) {
	// The native-tagged chain carries a critical finding; the group keeps
	// the highest severity of its members.
	s := aggregate(t,
		"A:1[true]._c.Leak:FF[false].__cppinst = WBP_Foo_C",
		"B:2[true]._d.Leak:FF[false]",
	)
	require.Len(t, s.Groups, 1)
	assert.Equal(t, SeverityCritical, s.Groups[0].Severity)
}

func TestAggregateSkipsFailedChains(t *testing.T) {
	s := aggregate(t,
		"not a chain at all",
		"A:1[true]._c.Leak:FF[false]",
		"B:2[true]._d.Leak:FF[false]",
	)

	require.Len(t, s.Groups, 1)
	assert.Equal(t, []int{2, 3}, s.Groups[0].Chains, "failed chains keep their ordinals out of groups")
	assert.Equal(t, 1, s.Stats.FailedChains)
}
