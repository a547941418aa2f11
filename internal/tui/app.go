package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mabhi256/ldiag/internal/chain"
	"github.com/mabhi256/ldiag/utils"
)

const PageSize = 10 // Number of lines to scroll per page

func initialModel(results []chain.Result, summary *chain.Summary) *Model {
	m := &Model{
		results:          results,
		summary:          summary,
		findings:         flattenFindings(results),
		currentTab:       ChainsTab,
		keys:             DefaultKeyMap(),
		scrollPositions:  make(map[TabType]int),
		expandedFindings: make(map[int]bool),
	}
	m.help = help.New()
	m.chainList = newChainList(results)
	m.findingsFilter = m.firstNonEmptyFilter()
	return m
}

func flattenFindings(results []chain.Result) []findingRef {
	var refs []findingRef
	for _, r := range results {
		for _, f := range r.Findings {
			refs = append(refs, findingRef{
				ChainOrdinal: r.Ordinal,
				Chain:        r.Chain,
				Finding:      f,
			})
		}
	}
	return refs
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chainList.SetSize(msg.Width-4, msg.Height-6)

	case tea.KeyMsg:
		// While the chain list filter is typing, it owns the keyboard.
		if m.currentTab == ChainsTab && m.chainList.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.chainList, cmd = m.chainList.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1":
			m.currentTab = ChainsTab
		case "2":
			m.currentTab = DetailTab
		case "3":
			m.currentTab = FindingsTab
		case "4":
			m.currentTab = GroupsTab

		case "tab":
			utils.CyclePtr(&m.currentTab, 1, LastTab)
		case "shift+tab":
			utils.CyclePtr(&m.currentTab, -1, LastTab)

		case "esc":
			if m.currentTab != ChainsTab {
				m.currentTab = ChainsTab
			}

		default:
			return m.handleTabSpecificKeys(msg)
		}
	}

	return m, nil
}

func (m *Model) handleTabSpecificKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.currentTab {
	case ChainsTab:
		return m.handleChainsKeys(msg)
	case DetailTab:
		return m.handleDetailKeys(msg)
	case FindingsTab:
		return m.handleFindingsKeys(msg)
	case GroupsTab:
		return m.handleGroupsKeys(msg)
	}
	return m, nil
}

func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	helpView := utils.HelpBarStyle.Width(m.width).Render(m.help.View(m.keys))

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(helpView) - 1
	contentHeight = max(contentHeight, 1)

	var content string
	switch m.currentTab {
	case ChainsTab:
		content = m.renderChains(contentHeight)
	case DetailTab:
		content = m.applyScrolling(m.renderDetail(), contentHeight)
	case FindingsTab:
		content = m.applyScrolling(m.renderFindings(), contentHeight)
	case GroupsTab:
		content = m.applyScrolling(m.renderGroups(contentHeight), contentHeight)
	}
	content = lipgloss.NewStyle().Height(contentHeight).Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, helpView)
}

func (m *Model) renderHeader() string {
	tabIcons := []string{"🔗", "🌳", "⚠️", "🧩"}
	tabNames := []string{"Chains", "Detail", "Findings", "Groups"}

	var tabs []string
	for i, name := range tabNames {
		style := utils.TabInactiveStyle
		indicator := " "

		if TabType(i) == m.currentTab {
			style = utils.TabActiveStyle
			indicator = "●"
		}

		tabText := fmt.Sprintf("%s %s %s [%d]", indicator, tabIcons[i], name, i+1)
		tabs = append(tabs, style.Render(tabText))
	}

	tabLine := strings.Join(tabs, "  ")
	border := strings.Repeat("─", m.width)

	return lipgloss.JoinVertical(lipgloss.Left, tabLine, border)
}

// StartTUI runs the interactive report browser over an analyzed batch.
func StartTUI(results []chain.Result, summary *chain.Summary) error {
	model := initialModel(results, summary)

	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := program.Run()
	return err
}
