package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mabhi256/ldiag/internal/chain"
	"github.com/mabhi256/ldiag/utils"
)

var severityOrder = []string{chain.SeverityCritical, chain.SeverityWarning, chain.SeverityInfo}

func (m *Model) handleFindingsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	filtered := m.filteredFindings()

	switch msg.String() {
	case "up", "k":
		if m.selectedFinding > 0 {
			m.selectedFinding--
		}
	case "down", "j":
		if m.selectedFinding < len(filtered)-1 {
			m.selectedFinding++
		}
	case "left", "h":
		m.cycleFindingsFilter(-1)
	case "right", "l":
		m.cycleFindingsFilter(1)
	case "enter", " ":
		m.expandedFindings[m.selectedFinding] = !m.expandedFindings[m.selectedFinding]
	}
	return m, nil
}

func (m *Model) cycleFindingsFilter(direction int) {
	filters := m.availableFilters()
	if len(filters) < 2 {
		return
	}
	current := 0
	for i, f := range filters {
		if f == m.findingsFilter {
			current = i
			break
		}
	}
	m.findingsFilter = filters[(current+direction+len(filters))%len(filters)]
	m.selectedFinding = 0
	m.expandedFindings = make(map[int]bool)
}

func (m *Model) availableFilters() []string {
	var filters []string
	for _, severity := range severityOrder {
		if m.countFindings(severity) > 0 {
			filters = append(filters, severity)
		}
	}
	return filters
}

func (m *Model) firstNonEmptyFilter() string {
	filters := m.availableFilters()
	if len(filters) > 0 {
		return filters[0]
	}
	return chain.SeverityCritical
}

func (m *Model) countFindings(severity string) int {
	count := 0
	for _, ref := range m.findings {
		if ref.Finding.Severity == severity {
			count++
		}
	}
	return count
}

func (m *Model) filteredFindings() []findingRef {
	var refs []findingRef
	for _, ref := range m.findings {
		if ref.Finding.Severity == m.findingsFilter {
			refs = append(refs, ref)
		}
	}
	return refs
}

func (m *Model) renderFindings() string {
	if len(m.findings) == 0 {
		return utils.GoodStyle.Render("✅ No leak findings!\n\nEvery wrapper on every chain released itself.")
	}

	header := m.renderFindingsHeader()
	filtered := m.filteredFindings()
	if len(filtered) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, "",
			utils.MutedStyle.Render(fmt.Sprintf("No %s findings.", m.findingsFilter)))
	}

	var lines []string
	for i, ref := range filtered {
		lines = append(lines, m.renderFindingItem(ref, i)...)
		lines = append(lines, "") // Spacing between findings
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", strings.Join(lines, "\n"))
}

func (m *Model) renderFindingsHeader() string {
	var counts []string
	for _, severity := range severityOrder {
		style := utils.TabInactiveStyle
		if severity == m.findingsFilter {
			style = utils.TabActiveStyle
		}
		counts = append(counts, style.Render(
			fmt.Sprintf("%s: %d", utils.GetSeverityIconWithText(severity), m.countFindings(severity))))
	}
	return strings.Join(counts, "  ")
}

func (m *Model) renderFindingItem(ref findingRef, index int) []string {
	f := ref.Finding
	isSelected := index == m.selectedFinding
	isExpanded := m.expandedFindings[index]

	var lines []string

	// Selection indicator
	selector := " "
	if isSelected {
		selector = "▶"
	}

	// Expansion indicator
	expandIcon := "[+]"
	if isExpanded {
		expandIcon = "[-]"
	}

	titleLine := fmt.Sprintf("%s %s %s - chain %d, %s",
		selector, utils.GetSeverityIcon(f.Severity), f.ClassName, ref.ChainOrdinal, f.Category)
	if isSelected {
		titleLine = lipgloss.NewStyle().
			Background(utils.InfoColor).
			Foreground(lipgloss.Color("#FFFFFF")).
			Render(titleLine)
	} else {
		titleLine = utils.GetSeverityStyle(f.Severity).Render(titleLine)
	}
	lines = append(lines, titleLine)

	descLine := fmt.Sprintf("  ├─ %s", f.Rationale)
	lines = append(lines, utils.MutedStyle.Render(descLine))

	expandLine := fmt.Sprintf("  └─ %s Show Recommendations", expandIcon)
	if isSelected {
		expandLine = utils.InfoStyle.Render(expandLine)
	} else {
		expandLine = utils.MutedStyle.Render(expandLine)
	}
	lines = append(lines, expandLine)

	if isExpanded && len(f.Recommendation) > 0 {
		lines = append(lines, "")
		lines = append(lines, utils.InfoStyle.Render("     Recommendations:"))

		for _, rec := range f.Recommendation {
			wrapped := utils.WrapText(rec, max(m.width-8, 20))
			for j, line := range wrapped {
				prefix := "     ✓ "
				if j > 0 {
					prefix = "       " // Indent continuation lines
				}
				lines = append(lines, utils.TextStyle.Render(prefix+line))
			}
		}

		if f.NativeRetained {
			lines = append(lines, utils.WarningStyle.Render(
				fmt.Sprintf("     ⚠️  Native instance %s is retained behind this wrapper", f.NativeClass)))
		}
	}

	return lines
}
