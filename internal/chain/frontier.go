package chain

// DetectFrontier returns every unreleased node on the chain, in chain
// order. For each one it records the nearest released ancestor, walking
// backward until the first Released node or the chain start; a node that is
// unreleased all the way up gets an explicit NoReleasedAncestor marker
// rather than a missing entry. An empty result means the chain is
// leak-free.
func DetectFrontier(c *Chain) []FrontierNode {
	var frontier []FrontierNode
	for i, n := range c.Nodes {
		if n.Released {
			continue
		}

		ancestor := NoReleasedAncestor
		for j := i - 1; j >= 0; j-- {
			if c.Nodes[j].Released {
				ancestor = j
				break
			}
		}

		frontier = append(frontier, FrontierNode{NodeIndex: i, AncestorIndex: ancestor})
	}
	return frontier
}
