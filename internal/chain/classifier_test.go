package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classify(t *testing.T, input string) []Classification {
	t.Helper()
	c := mustParse(t, input)
	return Classify(c, DetectFrontier(c))
}

func TestClassifyMissingChildRelease(t *testing.T) {
	t.Run("released parent that skipped one child", func(t *testing.T) {
		findings := classify(t, "X:1[true]._c.Y:2[false]")
		require.Len(t, findings, 1)

		f := findings[0]
		assert.Equal(t, CategoryMissingChildRelease, f.Category)
		assert.Equal(t, "Y", f.ClassName)
		assert.Equal(t, "_c", f.EvidenceEdge)
		assert.Equal(t, 0, f.AncestorIndex)
		assert.Equal(t, "X", f.AncestorClass)
		assert.Equal(t, SeverityWarning, f.Severity)
		assert.NotEmpty(t, f.Rationale)
		assert.NotEmpty(t, f.Recommendation)
	})

	t.Run("ancestor and relation are named in the rationale", func(t *testing.T) {
		findings := classify(t, "IVShopItemTemplate:9C0[true]._cardTipCom.IVCardTipCom:080[false]")
		require.Len(t, findings, 1)

		assert.Contains(t, findings[0].Rationale, "IVShopItemTemplate")
		assert.Contains(t, findings[0].Rationale, "_cardTipCom")
	})
}

func TestClassifyTransitiveMissingRelease(t *testing.T) {
	t.Run("released intermediate breaks the handoff", func(t *testing.T) {
		findings := classify(t, "X:1[true]._f1.Y:2[true]._f2.Z:3[false]")
		require.Len(t, findings, 1)

		f := findings[0]
		assert.Equal(t, CategoryTransitiveMissingRelease, f.Category)
		assert.Equal(t, "Z", f.ClassName)
		assert.Equal(t, "_f2", f.EvidenceEdge)
		assert.Equal(t, 1, f.AncestorIndex, "the nearest released ancestor is Y, not X")
		assert.Equal(t, "Y", f.AncestorClass)
		assert.Equal(t, SeverityWarning, f.Severity)
		assert.Contains(t, f.Rationale, "Y", "the immediate predecessor is the primary suspect")
	})

	t.Run("unreleased intermediates lower the urgency", func(t *testing.T) {
		findings := classify(t, "A:1[true]._a.B:2[false]._b.C:3[false]")
		require.Len(t, findings, 2)

		// B is a direct miss by A.
		assert.Equal(t, CategoryMissingChildRelease, findings[0].Category)

		// C is reachable only through unreleased B; fixing B comes first.
		f := findings[1]
		assert.Equal(t, CategoryTransitiveMissingRelease, f.Category)
		assert.Equal(t, 0, f.AncestorIndex)
		assert.Equal(t, SeverityInfo, f.Severity)
		assert.Contains(t, f.Recommendation[0], "B")
	})
}

func TestClassifyNoSelfRelease(t *testing.T) {
	t.Run("unreleased root", func(t *testing.T) {
		findings := classify(t, "X:1[false]")
		require.Len(t, findings, 1)

		f := findings[0]
		assert.Equal(t, CategoryNoSelfRelease, f.Category)
		assert.Equal(t, "", f.EvidenceEdge, "the root has no incoming relation")
		assert.Equal(t, 0, f.AncestorIndex, "suspicion lands on the chain root")
		assert.Equal(t, SeverityInfo, f.Severity)
	})

	t.Run("chain unreleased top to bottom", func(t *testing.T) {
		findings := classify(t, "A:1[false]._a.B:2[false]")
		require.Len(t, findings, 2)

		for _, f := range findings {
			assert.Equal(t, CategoryNoSelfRelease, f.Category)
			assert.Equal(t, 0, f.AncestorIndex)
			assert.Equal(t, "A", f.AncestorClass)
		}
		assert.Equal(t, "_a", findings[1].EvidenceEdge)
	})
}

func TestClassifyNativeTag(t *testing.T) {
	t.Run("native tag on a leaking leaf raises severity", func(t *testing.T) {
		findings := classify(t, "X:1[true]._c.Y:2[false].__cppinst = WBP_Foo_C")
		require.Len(t, findings, 1)

		f := findings[0]
		assert.Equal(t, CategoryMissingChildRelease, f.Category, "the category itself never changes")
		assert.True(t, f.NativeRetained)
		assert.Equal(t, "WBP_Foo_C", f.NativeClass)
		assert.Equal(t, SeverityCritical, f.Severity, "warning is promoted to critical")
		assert.Contains(t, f.Rationale, "WBP_Foo_C")
	})

	t.Run("native tag promotes info to warning", func(t *testing.T) {
		findings := classify(t, "X:1[false].__cppinst = WBP_Foo_C")
		require.Len(t, findings, 1)

		f := findings[0]
		assert.Equal(t, CategoryNoSelfRelease, f.Category)
		assert.True(t, f.NativeRetained)
		assert.Equal(t, SeverityWarning, f.Severity)
	})

	t.Run("native tag only describes the leaf", func(t *testing.T) {
		findings := classify(t, "X:1[false]._c.Y:2[true].__cppinst = WBP_Foo_C")
		require.Len(t, findings, 1)

		f := findings[0]
		assert.Equal(t, "X", f.ClassName)
		assert.False(t, f.NativeRetained, "X is not the tagged leaf")
		assert.Empty(t, f.NativeClass)
	})
}

func TestClassifyRulePriority(t *testing.T) {
	t.Run("adjacent released ancestor wins over a distant one", func(t *testing.T) {
		// W released, M leaked, X released, F leaked: X heads its own
		// released run, so F is a direct miss by X even though W is
		// released further up.
		findings := classify(t, "W:1[true]._m.M:2[false]._x.X:3[true]._f.F:4[false]")
		require.Len(t, findings, 2)

		var forF *Classification
		for i := range findings {
			if findings[i].ClassName == "F" {
				forF = &findings[i]
			}
		}
		require.NotNil(t, forF)
		assert.Equal(t, CategoryMissingChildRelease, forF.Category)
		assert.Equal(t, 2, forF.AncestorIndex)
		assert.Equal(t, "X", forF.AncestorClass)
	})

	t.Run("released parent under another released owner is transitive", func(t *testing.T) {
		findings := classify(t, "X:1[true]._f1.Y:2[true]._f2.Z:3[false]")
		require.Len(t, findings, 1)
		assert.Equal(t, CategoryTransitiveMissingRelease, findings[0].Category)
	})
}

func TestClassifyDeterminism(t *testing.T) {
	inputs := []string{
		"X:1[true]._c.Y:2[false]",
		"X:1[true]._f1.Y:2[true]._f2.Z:3[false]",
		"A:1[false]._a.B:2[false]._b.C:3[false]",
		"X:1[true]._c.Y:2[false].__cppinst = WBP_Foo_C",
	}

	for _, input := range inputs {
		first := classify(t, input)
		for range 5 {
			assert.Equal(t, first, classify(t, input), "input %q", input)
		}
	}
}

func TestClassifyCleanChain(t *testing.T) {
	c := mustParse(t, "A:1[true]._a.B:2[true].__cppinst = WBP_Foo_C")
	frontier := DetectFrontier(c)

	assert.Empty(t, frontier)
	assert.Empty(t, Classify(c, frontier), "no frontier, no findings, tag or not")
}
