package chain

import (
	"fmt"
	"strings"
)

// Leak categories, in classification priority order.
const (
	CategoryMissingChildRelease      = "missing-child-release"
	CategoryTransitiveMissingRelease = "transitive-missing-release"
	CategoryNoSelfRelease            = "no-self-release-or-root-retained"
)

const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
)

// NoReleasedAncestor marks a frontier node that is unreleased all the way
// up to the chain start.
const NoReleasedAncestor = -1

// Node is one wrapper object on the reference path. Immutable after parse.
type Node struct {
	ClassName string
	Address   string // opaque token, compared for equality only
	Released  bool
}

// Chain is one line of the leak trace: the ownership path from a retained
// root down to a leaf. Edges[i] is the relation from Nodes[i] to Nodes[i+1];
// relations carry no release state of their own, release is a property of
// the objects.
type Chain struct {
	Nodes     []Node
	Edges     []string
	NativeTag string // C++ blueprint behind the leaf wrapper, "" if absent
	Raw       string
}

// Len returns the number of nodes on the chain.
func (c *Chain) Len() int {
	return len(c.Nodes)
}

// Leaf returns the terminal node, the one the NativeTag describes.
func (c *Chain) Leaf() Node {
	return c.Nodes[len(c.Nodes)-1]
}

// EdgeInto returns the relation name leading into node i, "" for the root.
func (c *Chain) EdgeInto(i int) string {
	if i <= 0 || i > len(c.Edges) {
		return ""
	}
	return c.Edges[i-1]
}

// String re-serializes the chain to its canonical text form. The result is
// lexically identical to the parsed input except that the native-tag suffix
// is normalized to single spaces around '='.
func (c *Chain) String() string {
	var b strings.Builder
	for i, n := range c.Nodes {
		if i > 0 {
			b.WriteByte('.')
			b.WriteString(c.Edges[i-1])
			b.WriteByte('.')
		}
		fmt.Fprintf(&b, "%s:%s[%t]", n.ClassName, n.Address, n.Released)
	}
	if c.NativeTag != "" {
		b.WriteString(".__cppinst = ")
		b.WriteString(c.NativeTag)
	}
	return b.String()
}

// FrontierNode is one unreleased wrapper found on a chain, with the index
// of the closest released node above it (NoReleasedAncestor when every node
// up to the chain start is unreleased too).
type FrontierNode struct {
	NodeIndex     int
	AncestorIndex int
}

// Classification is the root-cause verdict for a single frontier node.
type Classification struct {
	NodeIndex      int
	ClassName      string
	Category       string
	Severity       string
	EvidenceEdge   string // relation directly preceding the frontier node, "" at the root
	AncestorIndex  int    // nearest released ancestor, or 0 (chain root) for CategoryNoSelfRelease
	AncestorClass  string
	NativeRetained bool
	NativeClass    string
	Rationale      string
	Recommendation []string
}

// Result is the complete outcome for one input chain.
type Result struct {
	Ordinal  int    // 1-based position in the batch input
	Input    string // raw input line
	Chain    *Chain // nil when Err is set
	Frontier []FrontierNode
	Findings []Classification
	Err      error
}

// Clean reports whether the chain parsed and every node on it was released.
func (r *Result) Clean() bool {
	return r.Err == nil && len(r.Frontier) == 0
}

// MaxSeverity returns the highest severity among the findings, "" when
// there are none.
func (r *Result) MaxSeverity() string {
	return maxSeverity(r.Findings)
}

func maxSeverity(findings []Classification) string {
	rank := map[string]int{SeverityInfo: 1, SeverityWarning: 2, SeverityCritical: 3}
	best := ""
	for _, f := range findings {
		if rank[f.Severity] > rank[best] {
			best = f.Severity
		}
	}
	return best
}
