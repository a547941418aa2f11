package chain

import (
	"fmt"
	"sort"
)

const (
	GroupSharedObject = "shared-object"
	GroupSharedEdge   = "shared-edge"
)

// Group is a set of findings from different chains that point at one fix:
// either the same leaked object surfacing on several paths, or the same
// relation name leaking under owners of different classes.
type Group struct {
	Kind        string   `json:"kind"`
	ClassName   string   `json:"className,omitempty"` // shared-object groups
	Address     string   `json:"address,omitempty"`   // shared-object groups
	Edge        string   `json:"edge,omitempty"`      // shared-edge groups
	RootClasses []string `json:"rootClasses,omitempty"`

	Chains       []int  `json:"chains"` // ordinals of member chains, ascending
	FindingCount int    `json:"findingCount"`
	FixImpact    int    `json:"fixImpact"` // distinct chains one fix resolves
	Severity     string `json:"severity"`  // highest severity in the group
}

// Key returns a stable display identity for the group.
func (g *Group) Key() string {
	if g.Kind == GroupSharedObject {
		return fmt.Sprintf("%s:%s", g.ClassName, g.Address)
	}
	return g.Edge
}

// Stats are the consolidated numbers for one batch.
type Stats struct {
	TotalChains   int `json:"totalChains"`
	ParsedChains  int `json:"parsedChains"`
	FailedChains  int `json:"failedChains"`
	CleanChains   int `json:"cleanChains"`
	FrontierNodes int `json:"frontierNodes"`

	UniqueLeakedClasses []string `json:"uniqueLeakedClasses"`
	UniqueNativeClasses []string `json:"uniqueNativeClasses"`
}

// Summary is the aggregate view over a whole batch.
type Summary struct {
	Groups []Group `json:"groups"`
	Stats  Stats   `json:"stats"`
}

type groupAcc struct {
	group    Group
	chains   map[int]bool
	roots    map[string]bool
	findings []Classification
}

// Aggregate folds per-chain results into cross-chain groups and stats.
// A chain contributing several findings to one group still counts once
// toward that group's fix impact. Group order is deterministic: impact
// descending, then kind, then key.
func Aggregate(results []Result) *Summary {
	s := &Summary{Stats: Stats{TotalChains: len(results)}}

	objects := make(map[string]*groupAcc)
	edges := make(map[string]*groupAcc)
	leakedClasses := make(map[string]bool)
	nativeClasses := make(map[string]bool)

	for _, r := range results {
		if r.Err != nil {
			s.Stats.FailedChains++
			continue
		}
		s.Stats.ParsedChains++
		if r.Clean() {
			s.Stats.CleanChains++
			continue
		}
		s.Stats.FrontierNodes += len(r.Frontier)
		if r.Chain.NativeTag != "" {
			nativeClasses[r.Chain.NativeTag] = true
		}

		root := r.Chain.Nodes[0].ClassName
		for _, f := range r.Findings {
			node := r.Chain.Nodes[f.NodeIndex]
			leakedClasses[node.ClassName] = true

			objKey := node.ClassName + ":" + node.Address
			acc, ok := objects[objKey]
			if !ok {
				acc = &groupAcc{
					group:  Group{Kind: GroupSharedObject, ClassName: node.ClassName, Address: node.Address},
					chains: make(map[int]bool),
				}
				objects[objKey] = acc
			}
			acc.chains[r.Ordinal] = true
			acc.findings = append(acc.findings, f)

			if f.EvidenceEdge == "" {
				continue
			}
			eacc, ok := edges[f.EvidenceEdge]
			if !ok {
				eacc = &groupAcc{
					group:  Group{Kind: GroupSharedEdge, Edge: f.EvidenceEdge},
					chains: make(map[int]bool),
					roots:  make(map[string]bool),
				}
				edges[f.EvidenceEdge] = eacc
			}
			eacc.chains[r.Ordinal] = true
			eacc.roots[root] = true
			eacc.findings = append(eacc.findings, f)
		}
	}

	s.Stats.UniqueLeakedClasses = sortedKeys(leakedClasses)
	s.Stats.UniqueNativeClasses = sortedKeys(nativeClasses)

	for _, acc := range objects {
		if len(acc.chains) < 2 {
			continue
		}
		s.Groups = append(s.Groups, acc.finish())
	}
	for _, acc := range edges {
		// An edge is only a systemic signal when it leaks under owners of
		// different classes; one bad class is already an object group.
		if len(acc.chains) < 2 || len(acc.roots) < 2 {
			continue
		}
		s.Groups = append(s.Groups, acc.finish())
	}

	sort.Slice(s.Groups, func(i, j int) bool {
		a, b := s.Groups[i], s.Groups[j]
		if a.FixImpact != b.FixImpact {
			return a.FixImpact > b.FixImpact
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Key() < b.Key()
	})

	return s
}

func (acc *groupAcc) finish() Group {
	g := acc.group
	g.Chains = sortedInts(acc.chains)
	g.RootClasses = sortedKeys(acc.roots)
	g.FindingCount = len(acc.findings)
	g.FixImpact = len(g.Chains)
	g.Severity = maxSeverity(acc.findings)
	return g
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedInts(set map[int]bool) []int {
	values := make([]int, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Ints(values)
	return values
}
