package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/mabhi256/ldiag/internal/chain"
)

type Model struct {
	// Data
	results []chain.Result
	summary *chain.Summary

	// Findings flattened across chains, in batch order, so the findings
	// tab can filter and select without re-walking every chain.
	findings []findingRef

	// UI State
	currentTab TabType
	width      int
	height     int

	scrollPositions map[TabType]int

	// Chains tab
	chainList list.Model

	// Findings tab
	findingsFilter   string
	selectedFinding  int
	expandedFindings map[int]bool

	// Groups tab
	selectedGroup int

	help help.Model
	keys KeyMap
}

// findingRef ties a classification back to the chain it came from.
type findingRef struct {
	ChainOrdinal int
	Chain        *chain.Chain
	Finding      chain.Classification
}

type TabType int

const (
	ChainsTab TabType = iota
	DetailTab
	FindingsTab
	GroupsTab
)

const LastTab = GroupsTab

type KeyMap struct {
	Tab    key.Binding
	Left   key.Binding
	Right  key.Binding
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Escape key.Binding
	Quit   key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Tab, k.Enter, k.Escape, k.Quit},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev filter")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next filter")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/expand")),
		Escape: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to chains")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
