package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mabhi256/ldiag/internal/chain"
	"github.com/mabhi256/ldiag/utils"
)

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.scrollUp(1)
	case "down", "j":
		m.scrollDown(1)
	case "pgup":
		m.scrollUp(PageSize)
	case "pgdown":
		m.scrollDown(PageSize)
	case "left", "h":
		m.chainList.Select(utils.Cycle(m.chainList.Index(), -1, len(m.chainList.VisibleItems())-1))
		m.scrollPositions[DetailTab] = 0
	case "right", "l":
		m.chainList.Select(utils.Cycle(m.chainList.Index(), 1, len(m.chainList.VisibleItems())-1))
		m.scrollPositions[DetailTab] = 0
	}
	return m, nil
}

func (m *Model) renderDetail() string {
	r := m.selectedResult()
	if r == nil {
		return utils.MutedStyle.Render("No chains in this run.")
	}
	if r.Err != nil {
		return utils.ErrorStyle.Render(fmt.Sprintf("Chain %d did not parse:\n%v", r.Ordinal, r.Err))
	}

	var sections []string
	sections = append(sections, utils.TitleStyle.Render(fmt.Sprintf("Chain %d", r.Ordinal)))
	sections = append(sections, chainHealthBar(r.Chain, min(m.width-24, 40)))
	sections = append(sections, "")
	sections = append(sections, m.renderWalk(r))

	if len(r.Findings) > 0 {
		sections = append(sections, "")
		sections = append(sections, utils.TitleStyle.Render("Findings"))
		for _, f := range r.Findings {
			sections = append(sections, renderFindingSummary(f, m.width))
		}
	} else {
		sections = append(sections, "")
		sections = append(sections, utils.GoodStyle.Render("✅ Every wrapper on this chain was released."))
	}

	return strings.Join(sections, "\n")
}

// renderWalk draws the ownership path node by node, frontier nodes called
// out in red and their nearest released ancestor marked.
func (m *Model) renderWalk(r *chain.Result) string {
	ancestors := make(map[int]bool)
	frontier := make(map[int]bool)
	for _, f := range r.Frontier {
		frontier[f.NodeIndex] = true
		if f.AncestorIndex != chain.NoReleasedAncestor {
			ancestors[f.AncestorIndex] = true
		}
	}

	var lines []string
	for i, n := range r.Chain.Nodes {
		var prefix string
		if i > 0 {
			prefix = strings.Repeat("  ", i) + "└─ " + r.Chain.Edges[i-1] + " → "
		}

		label := fmt.Sprintf("%s:%s", n.ClassName, utils.InfoLightStyle.Render(n.Address))

		var status string
		switch {
		case n.Released && ancestors[i]:
			status = utils.GoodLightStyle.Render("[released ✓, nearest released ancestor]")
		case n.Released:
			status = utils.GoodLightStyle.Render("[released ✓]")
		case frontier[i]:
			status = utils.CriticalStyle.Render("[NOT RELEASED ⚠️]")
		default:
			status = utils.CriticalLightStyle.Render("[not released]")
		}

		lines = append(lines, fmt.Sprintf("%s%s %s", prefix, label, status))
	}

	if r.Chain.NativeTag != "" {
		indent := strings.Repeat("  ", r.Chain.Len()) + "   "
		lines = append(lines, indent+utils.WarningStyle.Render(
			fmt.Sprintf("__cppinst → %s (C++ blueprint)", r.Chain.NativeTag)))
	}

	return strings.Join(lines, "\n")
}

func renderFindingSummary(f chain.Classification, width int) string {
	head := fmt.Sprintf("%s %s - %s",
		utils.GetSeverityIcon(f.Severity),
		utils.GetSeverityStyle(f.Severity).Render(f.ClassName),
		f.Category)

	var body []string
	for _, line := range utils.WrapText(f.Rationale, max(width-6, 20)) {
		body = append(body, "   "+utils.TextStyle.Render(line))
	}
	if f.EvidenceEdge != "" {
		body = append(body, "   "+utils.MutedStyle.Render(fmt.Sprintf("evidence: relation %q", f.EvidenceEdge)))
	}
	if f.NativeRetained {
		body = append(body, "   "+utils.MutedStyle.Render(fmt.Sprintf("native: %s still alive", f.NativeClass)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, append([]string{head}, body...)...)
}
