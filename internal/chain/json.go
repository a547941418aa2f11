package chain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JSONReport is the machine-readable form of a batch, stable enough to feed
// dashboards or the HTML report. Field names follow the tracker's own dump
// vocabulary where one exists (rawChain, cppInstance).
type JSONReport struct {
	RunID       string      `json:"runId"`
	GeneratedAt time.Time   `json:"generatedAt"`
	Chains      []JSONChain `json:"chains"`
	Groups      []Group     `json:"groups,omitempty"`
	Stats       Stats       `json:"stats"`
}

type JSONChain struct {
	Ordinal       int           `json:"ordinal"`
	RawChain      string        `json:"rawChain"`
	Error         string        `json:"error,omitempty"`
	TotalNodes    int           `json:"totalNodes"`
	LeakedNodes   int           `json:"leakedNodes"`
	CPPInstance   string        `json:"cppInstance,omitempty"`
	Nodes         []JSONNode    `json:"nodes,omitempty"`
	Findings      []JSONFinding `json:"findings,omitempty"`
	Visualization string        `json:"visualization,omitempty"`
}

type JSONNode struct {
	Index     int    `json:"index"`
	ClassName string `json:"className"`
	Address   string `json:"address"`
	Released  bool   `json:"released"`
	Edge      string `json:"edge,omitempty"` // relation leading into this node
}

type JSONFinding struct {
	NodeIndex       int      `json:"nodeIndex"`
	ClassName       string   `json:"className"`
	Category        string   `json:"category"`
	Severity        string   `json:"severity"`
	EvidenceEdge    string   `json:"evidenceEdge,omitempty"`
	AncestorIndex   int      `json:"ancestorIndex"`
	AncestorClass   string   `json:"ancestorClass,omitempty"`
	NativeRetained  bool     `json:"nativeRetained,omitempty"`
	NativeClass     string   `json:"nativeClass,omitempty"`
	Rationale       string   `json:"rationale"`
	Recommendations []string `json:"recommendations,omitempty"`
	SourcePaths     []string `json:"sourcePaths,omitempty"`
}

// BuildJSONReport assembles the report. The locator is optional; when
// present, every finding gets the candidate source files for its class,
// looked up once per distinct class.
func BuildJSONReport(results []Result, summary *Summary, locator SourceLocator) *JSONReport {
	report := &JSONReport{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Chains:      make([]JSONChain, 0, len(results)),
		Groups:      summary.Groups,
		Stats:       summary.Stats,
	}

	located := make(map[string][]string)

	for _, r := range results {
		jc := JSONChain{Ordinal: r.Ordinal, RawChain: r.Input}
		if r.Err != nil {
			jc.Error = r.Err.Error()
			report.Chains = append(report.Chains, jc)
			continue
		}

		jc.TotalNodes = r.Chain.Len()
		jc.LeakedNodes = len(r.Frontier)
		jc.CPPInstance = r.Chain.NativeTag
		jc.Visualization = Visualize(r.Chain)

		for i, n := range r.Chain.Nodes {
			jc.Nodes = append(jc.Nodes, JSONNode{
				Index:     i,
				ClassName: n.ClassName,
				Address:   n.Address,
				Released:  n.Released,
				Edge:      r.Chain.EdgeInto(i),
			})
		}

		for _, f := range r.Findings {
			jf := JSONFinding{
				NodeIndex:       f.NodeIndex,
				ClassName:       f.ClassName,
				Category:        f.Category,
				Severity:        f.Severity,
				EvidenceEdge:    f.EvidenceEdge,
				AncestorIndex:   f.AncestorIndex,
				AncestorClass:   f.AncestorClass,
				NativeRetained:  f.NativeRetained,
				NativeClass:     f.NativeClass,
				Rationale:       f.Rationale,
				Recommendations: f.Recommendation,
			}
			if locator != nil {
				paths, ok := located[f.ClassName]
				if !ok {
					paths, _ = locator.Locate(f.ClassName)
					located[f.ClassName] = paths
				}
				jf.SourcePaths = paths
			}
			jc.Findings = append(jc.Findings, jf)
		}

		report.Chains = append(report.Chains, jc)
	}

	return report
}

// Marshal renders the report as indented JSON.
func (r *JSONReport) Marshal() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
