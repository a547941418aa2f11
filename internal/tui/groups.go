package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mabhi256/ldiag/internal/chain"
	"github.com/mabhi256/ldiag/utils"
)

const maxChartGroups = 8

func (m *Model) handleGroupsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedGroup > 0 {
			m.selectedGroup--
		}
	case "down", "j":
		if m.selectedGroup < len(m.summary.Groups)-1 {
			m.selectedGroup++
		}
	}
	return m, nil
}

func (m *Model) renderGroups(height int) string {
	groups := m.summary.Groups
	if len(groups) == 0 {
		return utils.MutedStyle.Render(
			"No cross-chain groups.\n\nNo leaked object or relation is shared by two or more chains;\neach finding stands alone.")
	}

	chart := m.renderImpactChart(groups, height)
	table := m.renderGroupTable(groups)
	detail := m.renderGroupDetail(groups[m.selectedGroup])

	return lipgloss.JoinVertical(lipgloss.Left,
		utils.TitleStyle.Render("Fix impact (chains resolved per fix)"),
		chart,
		"",
		table,
		"",
		detail,
	)
}

// renderImpactChart draws one bar per group, tallest first (groups arrive
// sorted by impact).
func (m *Model) renderImpactChart(groups []chain.Group, height int) string {
	count := min(len(groups), maxChartGroups)
	chartHeight := max(min(height/3, 10), 4)
	chartWidth := min(m.width-4, count*10)

	bc := barchart.New(chartWidth, chartHeight)
	for i := 0; i < count; i++ {
		g := groups[i]
		bc.Push(barchart.BarData{
			Label: utils.TruncateString(g.Key(), 9),
			Values: []barchart.BarValue{{
				Name:  g.Key(),
				Value: float64(g.FixImpact),
				Style: utils.GetSeverityStyle(g.Severity),
			}},
		})
	}
	bc.Draw()
	return bc.View()
}

func (m *Model) renderGroupTable(groups []chain.Group) string {
	keyWidth := min(max(m.width/3, 16), 44)

	header := utils.MutedStyle.Render(fmt.Sprintf("  %s %s %s %s",
		utils.PadRight("GROUP", keyWidth),
		utils.PadRight("KIND", 14),
		utils.PadRight("IMPACT", 7),
		"FINDINGS"))

	lines := []string{header}
	for i, g := range groups {
		selector := " "
		if i == m.selectedGroup {
			selector = "▶"
		}

		row := fmt.Sprintf("%s %s %s %s %d",
			selector,
			utils.PadRight(utils.TruncateString(g.Key(), keyWidth), keyWidth),
			utils.PadRight(strings.TrimPrefix(g.Kind, "shared-"), 14),
			utils.PadRight(fmt.Sprintf("%d", g.FixImpact), 7),
			g.FindingCount)

		if i == m.selectedGroup {
			row = lipgloss.NewStyle().
				Background(utils.InfoColor).
				Foreground(lipgloss.Color("#FFFFFF")).
				Render(row)
		} else {
			row = utils.GetSeverityStyle(g.Severity).Render(row)
		}
		lines = append(lines, row)
	}

	return strings.Join(lines, "\n")
}

func (m *Model) renderGroupDetail(g chain.Group) string {
	var lines []string

	switch g.Kind {
	case chain.GroupSharedObject:
		lines = append(lines, fmt.Sprintf("Object %s at %s leaks on %d chains.",
			g.ClassName, utils.InfoLightStyle.Render(g.Address), g.FixImpact))
		lines = append(lines, "One release fix for this object resolves all of them.")
	case chain.GroupSharedEdge:
		lines = append(lines, fmt.Sprintf("Relation %q leaks under %d different owner classes:",
			g.Edge, len(g.RootClasses)))
		lines = append(lines, "  "+strings.Join(g.RootClasses, ", "))
		lines = append(lines, "The releasing pattern for this relation is broken everywhere it appears.")
	}

	ordinals := make([]string, len(g.Chains))
	for i, ord := range g.Chains {
		ordinals[i] = fmt.Sprintf("%d", ord)
	}
	lines = append(lines, utils.MutedStyle.Render("Chains: "+strings.Join(ordinals, ", ")))

	return utils.BoxStyle.Width(min(m.width-2, 78)).Render(strings.Join(lines, "\n"))
}
