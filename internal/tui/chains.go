package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mabhi256/ldiag/internal/chain"
	"github.com/mabhi256/ldiag/utils"
)

// chainItem adapts one Result to the bubbles list.
type chainItem struct {
	result chain.Result
}

func (i chainItem) Title() string {
	r := i.result
	switch {
	case r.Err != nil:
		return fmt.Sprintf("❌ Chain %d - rejected", r.Ordinal)
	case r.Clean():
		return fmt.Sprintf("✅ Chain %d - %s, all released", r.Ordinal, r.Chain.Nodes[0].ClassName)
	default:
		return fmt.Sprintf("%s Chain %d - %s, %d unreleased",
			utils.GetSeverityIcon(r.MaxSeverity()), r.Ordinal,
			r.Chain.Nodes[0].ClassName, len(r.Frontier))
	}
}

func (i chainItem) Description() string {
	r := i.result
	if r.Err != nil {
		return r.Err.Error()
	}

	leaf := r.Chain.Leaf()
	desc := fmt.Sprintf("%d objects, leaf %s:%s", r.Chain.Len(), leaf.ClassName, leaf.Address)
	if r.Chain.NativeTag != "" {
		desc += fmt.Sprintf(" · __cppinst %s", r.Chain.NativeTag)
	}
	return desc
}

func (i chainItem) FilterValue() string {
	if i.result.Err != nil {
		return i.result.Input
	}
	return i.result.Chain.String()
}

func newChainList(results []chain.Result) list.Model {
	items := make([]list.Item, 0, len(results))
	for _, r := range results {
		items = append(items, chainItem{result: r})
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Reference Chains"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false) // the app renders its own help bar
	return l
}

func (m *Model) handleChainsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		if item, ok := m.chainList.SelectedItem().(chainItem); ok && item.result.Err == nil {
			m.currentTab = DetailTab
			m.scrollPositions[DetailTab] = 0
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.chainList, cmd = m.chainList.Update(msg)
	return m, cmd
}

// selectedResult returns the chain currently highlighted in the list; the
// detail tab follows it.
func (m *Model) selectedResult() *chain.Result {
	if item, ok := m.chainList.SelectedItem().(chainItem); ok {
		return &item.result
	}
	if len(m.results) > 0 {
		return &m.results[0]
	}
	return nil
}

func (m *Model) renderChains(height int) string {
	stats := m.summary.Stats

	released := utils.GoodLightStyle.Render(fmt.Sprintf("%d leak-free", stats.CleanChains))
	leaking := utils.CriticalLightStyle.Render(fmt.Sprintf("%d leaking", stats.ParsedChains-stats.CleanChains))
	counts := fmt.Sprintf("%s · %s", released, leaking)
	if stats.FailedChains > 0 {
		counts += utils.MutedStyle.Render(fmt.Sprintf(" · %d rejected", stats.FailedChains))
	}

	m.chainList.SetSize(m.width-2, height-2)

	return lipgloss.JoinVertical(lipgloss.Left,
		counts,
		m.chainList.View(),
	)
}

// chainHealthBar shows the released fraction of a chain at a glance.
func chainHealthBar(c *chain.Chain, width int) string {
	released := 0
	for _, n := range c.Nodes {
		if n.Released {
			released++
		}
	}
	fraction := float64(released) / float64(len(c.Nodes))

	color := utils.GoodColor
	switch {
	case fraction < 0.5:
		color = utils.CriticalColor
	case fraction < 1.0:
		color = utils.WarningColor
	}

	bar := utils.CreateProgressBar(fraction, width, color)
	return fmt.Sprintf("%s %d/%d released", bar, released, len(c.Nodes))
}
