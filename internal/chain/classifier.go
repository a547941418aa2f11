package chain

import "fmt"

// Classify assigns a root-cause category to every frontier node. Rules are
// checked in strict priority order and the first match wins, so repeated
// runs over the same chain are byte-identical:
//
//  1. missing-child-release: the nearest released ancestor is directly
//     adjacent and heads its released run. The parent tore itself down but
//     skipped this child relation.
//  2. transitive-missing-release: a released ancestor exists but the
//     handoff broke somewhere between the first released owner and the
//     frontier node (released intermediates that each self-released, or
//     unreleased intermediates reported as their own frontier nodes). The
//     immediate predecessor is the primary suspect, not the distant
//     ancestor.
//  3. no-self-release-or-root-retained: nothing above the node was ever
//     released.
//
// A native tag on a frontier leaf augments the matched rule instead of
// replacing it: the category stays, the severity goes up one level, and the
// evidence cites the blueprint class.
func Classify(c *Chain, frontier []FrontierNode) []Classification {
	findings := make([]Classification, 0, len(frontier))
	for _, f := range frontier {
		findings = append(findings, classifyNode(c, f))
	}
	return findings
}

func classifyNode(c *Chain, f FrontierNode) Classification {
	node := c.Nodes[f.NodeIndex]
	cl := Classification{
		NodeIndex:    f.NodeIndex,
		ClassName:    node.ClassName,
		EvidenceEdge: c.EdgeInto(f.NodeIndex),
	}

	switch {
	case f.AncestorIndex == NoReleasedAncestor:
		parent := f.NodeIndex - 1
		cl.Category = CategoryNoSelfRelease
		cl.Severity = SeverityInfo
		cl.AncestorIndex = 0
		cl.AncestorClass = c.Nodes[0].ClassName
		cl.Rationale = noSelfReleaseRationale(c, f.NodeIndex)
		cl.Recommendation = noSelfReleaseRecs(c, f.NodeIndex, parent)

	case f.NodeIndex-f.AncestorIndex == 1 && headsReleasedRun(c, f.AncestorIndex):
		ancestor := c.Nodes[f.AncestorIndex]
		cl.Category = CategoryMissingChildRelease
		cl.Severity = SeverityWarning
		cl.AncestorIndex = f.AncestorIndex
		cl.AncestorClass = ancestor.ClassName
		cl.Rationale = fmt.Sprintf("%s released itself but never released %s held through %q",
			ancestor.ClassName, node.ClassName, cl.EvidenceEdge)
		cl.Recommendation = missingChildReleaseRecs(ancestor.ClassName, node.ClassName, cl.EvidenceEdge)

	default:
		ancestor := c.Nodes[f.AncestorIndex]
		predecessor := c.Nodes[f.NodeIndex-1]
		cl.Category = CategoryTransitiveMissingRelease
		cl.AncestorIndex = f.AncestorIndex
		cl.AncestorClass = ancestor.ClassName
		if predecessor.Released {
			cl.Severity = SeverityWarning
			cl.Rationale = fmt.Sprintf(
				"every owner above %s released itself, yet %s was never released through %q; the handoff broke at %s",
				node.ClassName, node.ClassName, cl.EvidenceEdge, predecessor.ClassName)
			cl.Recommendation = missingChildReleaseRecs(predecessor.ClassName, node.ClassName, cl.EvidenceEdge)
		} else {
			cl.Severity = SeverityInfo
			cl.Rationale = fmt.Sprintf(
				"%s is reachable only through unreleased owners; the nearest released owner is %s, %d links up",
				node.ClassName, ancestor.ClassName, f.NodeIndex-f.AncestorIndex)
			cl.Recommendation = []string{
				fmt.Sprintf("Fix the release of %s first; %s is likely retained by the same miss",
					predecessor.ClassName, node.ClassName),
				fmt.Sprintf("If %s outlives %s on purpose, move it out of %q to an owner with a teardown path",
					node.ClassName, predecessor.ClassName, cl.EvidenceEdge),
			}
		}
	}

	if c.NativeTag != "" && f.NodeIndex == len(c.Nodes)-1 {
		cl.NativeRetained = true
		cl.NativeClass = c.NativeTag
		cl.Severity = raiseSeverity(cl.Severity)
		cl.Rationale += fmt.Sprintf("; native instance %s is still alive behind it", c.NativeTag)
		cl.Recommendation = append(cl.Recommendation,
			fmt.Sprintf("Confirm the engine side destroys %s once the wrapper releases; the blueprint is holding native memory", c.NativeTag))
	}

	return cl
}

// headsReleasedRun reports whether node a is the topmost node of its
// released run: there is no released node directly above it. A released
// parent sitting under another released owner is an intermediate in a
// longer handoff, which is rule 2 territory, not rule 1.
func headsReleasedRun(c *Chain, a int) bool {
	return a == 0 || !c.Nodes[a-1].Released
}

func raiseSeverity(s string) string {
	switch s {
	case SeverityInfo:
		return SeverityWarning
	case SeverityWarning:
		return SeverityCritical
	default:
		return s
	}
}

func noSelfReleaseRationale(c *Chain, i int) string {
	if i == 0 {
		return fmt.Sprintf("%s is the chain root and was never released; either it lacks a self-release mechanism or its owner never tears it down", c.Nodes[0].ClassName)
	}
	return fmt.Sprintf("no owner above %s was ever released, up to and including the root %s",
		c.Nodes[i].ClassName, c.Nodes[0].ClassName)
}

func noSelfReleaseRecs(c *Chain, i, parent int) []string {
	root := c.Nodes[0].ClassName
	recs := []string{
		fmt.Sprintf("Check whether %s is registered with a teardown owner at all; roots held by globals or singletons never release on their own", root),
	}
	if i > 0 {
		recs = append(recs, fmt.Sprintf("Releasing %s should cascade; verify its release path reaches %q",
			c.Nodes[parent].ClassName, c.EdgeInto(i)))
	} else {
		recs = append(recs, fmt.Sprintf("Add an explicit release for %s where its scope ends", root))
	}
	return recs
}

func missingChildReleaseRecs(parent, child, edge string) []string {
	return []string{
		fmt.Sprintf("Add a release for %q to %s's teardown path", edge, parent),
		fmt.Sprintf("Verify %s's release handler runs when %s is torn down", child, parent),
	}
}
