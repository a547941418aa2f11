package chain

import (
	"fmt"
	"strings"

	"github.com/mabhi256/ldiag/utils"
)

// SourceLocator finds candidate source files for a class name. Zero results
// is a valid answer; the report never reads the files, it only lists them.
type SourceLocator interface {
	Locate(className string) ([]string, error)
}

type ReportOptions struct {
	Format  string // "cli" or "cli-more"
	Locator SourceLocator
}

// PrintReport renders the batch to stdout.
func PrintReport(results []Result, summary *Summary, opts ReportOptions) {
	switch opts.Format {
	case "cli":
		printSummary(results, summary)
	case "cli-more":
		printSummary(results, summary)
		printDetails(results, opts.Locator)
	default:
		fmt.Printf("Unknown output format '%s', using summary format\n\n", opts.Format)
		printSummary(results, summary)
	}
}

func printSummary(results []Result, summary *Summary) {
	stats := summary.Stats

	totalFindings := 0
	for _, r := range results {
		totalFindings += len(r.Findings)
	}

	fmt.Printf("🔍 Reference Chain Leak Analysis\n")
	fmt.Printf("Chains: %d  |  Parsed: %d  |  Findings: %d\n",
		stats.TotalChains, stats.ParsedChains, totalFindings)
	fmt.Println(strings.Repeat("═", 65))

	fmt.Println("\n🔗 CHAINS")
	fmt.Println(strings.Repeat("─", 35))
	for _, r := range results {
		icon, status := chainStatusWithIcon(&r)
		fmt.Printf("%s Chain %d: %s\n", icon, r.Ordinal, status)
		if r.Err != nil {
			fmt.Printf("   %v\n", r.Err)
			continue
		}
		for _, f := range r.Findings {
			fmt.Printf("   %s %s - %s\n", utils.GetSeverityIcon(f.Severity), f.ClassName, f.Category)
			fmt.Printf("      %s\n", f.Rationale)
		}
	}

	if len(summary.Groups) > 0 {
		fmt.Println("\n🧩 CROSS-CHAIN GROUPS")
		fmt.Println(strings.Repeat("─", 35))
		for _, g := range summary.Groups {
			fmt.Printf("%s %s %q - fixes %d of %d chains (%d findings)\n",
				utils.GetSeverityIcon(g.Severity), g.Kind, g.Key(),
				g.FixImpact, stats.ParsedChains, g.FindingCount)
			if g.Kind == GroupSharedEdge {
				fmt.Printf("   leaks under: %s\n", strings.Join(g.RootClasses, ", "))
			}
		}
	}

	if stats.TotalChains > 1 {
		fmt.Println("\n📊 TOTALS")
		fmt.Println(strings.Repeat("─", 35))
		fmt.Printf("Unreleased wrappers:  %d\n", stats.FrontierNodes)
		fmt.Printf("Leaked classes:       %d (%s)\n",
			len(stats.UniqueLeakedClasses), strings.Join(stats.UniqueLeakedClasses, ", "))
		if len(stats.UniqueNativeClasses) > 0 {
			fmt.Printf("Native blueprints:    %d (%s)\n",
				len(stats.UniqueNativeClasses), strings.Join(stats.UniqueNativeClasses, ", "))
		}
		if stats.FailedChains > 0 {
			fmt.Printf("Rejected chains:      %d\n", stats.FailedChains)
		}
	}

	fmt.Printf("\n🎯 Overall: %s\n", overallAssessment(results, summary))
}

func printDetails(results []Result, locator SourceLocator) {
	for _, r := range results {
		if r.Err != nil {
			continue
		}

		fmt.Printf("\n🌳 CHAIN %d WALK\n", r.Ordinal)
		fmt.Println(strings.Repeat("─", 50))
		fmt.Println(Visualize(r.Chain))

		if len(r.Findings) > 0 {
			printRecommendations(r.Findings)
		}
	}

	printSourceCandidates(results, locator)
}

func printRecommendations(findings []Classification) {
	// Worst severity first.
	for _, severity := range []string{SeverityCritical, SeverityWarning, SeverityInfo} {
		for _, f := range findings {
			if f.Severity != severity {
				continue
			}
			fmt.Printf("%s %s (%s)\n", utils.GetSeverityIcon(f.Severity), f.ClassName, f.Category)
			if f.NativeRetained {
				fmt.Printf("   Native: %s still alive\n", f.NativeClass)
			}
			for _, rec := range f.Recommendation {
				for i, line := range utils.WrapText(rec, 70) {
					if i == 0 {
						fmt.Printf("   • %s\n", line)
					} else {
						fmt.Printf("     %s\n", line)
					}
				}
			}
		}
	}
}

func printSourceCandidates(results []Result, locator SourceLocator) {
	if locator == nil {
		return
	}

	seen := map[string]bool{}
	var classes []string
	for _, r := range results {
		for _, f := range r.Findings {
			if !seen[f.ClassName] {
				seen[f.ClassName] = true
				classes = append(classes, f.ClassName)
			}
		}
	}
	if len(classes) == 0 {
		return
	}

	fmt.Println("\n📁 CANDIDATE SOURCES")
	fmt.Println(strings.Repeat("─", 50))
	for _, class := range classes {
		paths, err := locator.Locate(class)
		if err != nil {
			fmt.Printf("%s: lookup failed: %v\n", class, err)
			continue
		}
		if len(paths) == 0 {
			fmt.Printf("%s: no source files found (engine-internal?)\n", class)
			continue
		}
		fmt.Printf("%s:\n", class)
		for _, p := range paths {
			fmt.Printf("   %s\n", p)
		}
	}
}

// PrintCompact writes the one-line form used by watch mode.
func PrintCompact(r *Result) {
	icon, status := chainStatusWithIcon(r)
	fmt.Printf("%s chain %d: %s\n", icon, r.Ordinal, status)
	for _, f := range r.Findings {
		fmt.Printf("   %s %s - %s via %q\n",
			utils.GetSeverityIcon(f.Severity), f.ClassName, f.Category, f.EvidenceEdge)
	}
}

func chainStatusWithIcon(r *Result) (string, string) {
	switch {
	case r.Err != nil:
		return "❌", "rejected"
	case r.Clean():
		return "✅", fmt.Sprintf("%d objects, all released", r.Chain.Len())
	default:
		leaf := r.Chain.Leaf()
		status := fmt.Sprintf("%d objects, %d unreleased (leaf %s)",
			r.Chain.Len(), len(r.Frontier), leaf.ClassName)
		if r.MaxSeverity() == SeverityCritical {
			return "🔴", status
		}
		return "⚠️", status
	}
}

func overallAssessment(results []Result, summary *Summary) string {
	stats := summary.Stats
	switch {
	case stats.FailedChains > 0 && stats.ParsedChains == 0:
		return "no chain could be parsed, check the trace format"
	case stats.FrontierNodes == 0 && stats.FailedChains == 0:
		return "leak-free, every wrapper on every chain was released"
	case stats.FrontierNodes == 0:
		return "parsed chains are leak-free, but some inputs were rejected"
	case len(summary.Groups) > 0:
		top := summary.Groups[0]
		return fmt.Sprintf("start with %s %q, the single fix with the widest impact", top.Kind, top.Key())
	default:
		return fmt.Sprintf("%d unreleased wrappers across %d chains", stats.FrontierNodes, stats.ParsedChains)
	}
}

// Visualize renders the ownership walk as an indented tree, one node per
// level, the way the tracker's own dump reads:
//
//	IVShopItemTemplate:000000029E8DD9C0 [Released ✓]
//	  └─ _cardTipCom → IVCardTipCom:000000029E8DE080 [NOT RELEASED ⚠️]
//	       __cppinst → WBP_ShopItemTip_C (C++ blueprint)
func Visualize(c *Chain) string {
	var lines []string
	for i, n := range c.Nodes {
		status := "Released ✓"
		if !n.Released {
			status = "NOT RELEASED ⚠️"
		}
		if i == 0 {
			lines = append(lines, fmt.Sprintf("%s:%s [%s]", n.ClassName, n.Address, status))
			continue
		}
		indent := strings.Repeat("  ", i)
		lines = append(lines, fmt.Sprintf("%s└─ %s → %s:%s [%s]",
			indent, c.Edges[i-1], n.ClassName, n.Address, status))
	}
	if c.NativeTag != "" {
		indent := strings.Repeat("  ", len(c.Nodes)) + "   "
		lines = append(lines, fmt.Sprintf("%s__cppinst → %s (C++ blueprint)", indent, c.NativeTag))
	}
	return strings.Join(lines, "\n")
}
