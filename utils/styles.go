package utils

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette tuned for dark terminals. The light variants keep enough contrast
// to sit on the default background without bolding.
var (
	CriticalColor = lipgloss.Color("#CC3333")
	WarningColor  = lipgloss.Color("#FF8800")
	GoodColor     = lipgloss.Color("#228B22")
	InfoColor     = lipgloss.Color("#4682B4")
	TextColor     = lipgloss.Color("#CCCCCC")
	MutedColor    = lipgloss.Color("#888888")
	BorderColor   = lipgloss.Color("#666666")

	CriticalLightColor = lipgloss.Color("#FF6666")
	GoodLightColor     = lipgloss.Color("#66BB66")
	InfoLightColor     = lipgloss.Color("#88AACC")
)

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

var (
	CriticalStyle = fg(CriticalColor).Bold(true)
	WarningStyle  = fg(WarningColor).Bold(true)
	GoodStyle     = fg(GoodColor).Bold(true)
	InfoStyle     = fg(InfoColor)
	MutedStyle    = fg(MutedColor)
	TextStyle     = fg(TextColor)

	CriticalLightStyle = fg(CriticalLightColor)
	GoodLightStyle     = fg(GoodLightColor)
	InfoLightStyle     = fg(InfoLightColor)
)

// TUI chrome.
var (
	TabActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(InfoColor).
			Padding(0, 1).
			Bold(true)

	TabInactiveStyle = fg(MutedColor).Padding(0, 1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)

	ErrorStyle = fg(CriticalColor).
			Background(lipgloss.Color("#1a1a1a")).
			Bold(true).
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(CriticalColor)

	HelpBarStyle = fg(MutedColor).
			Background(lipgloss.Color("#1a1a1a")).
			Width(0). // set per render to the terminal width
			Padding(0, 1)
)

// Severity strings come lowercase from the analysis layer, but reports and
// templates shout them, so the lookups fold case.

func GetSeverityStyle(severity string) lipgloss.Style {
	switch strings.ToLower(severity) {
	case "critical":
		return CriticalStyle
	case "warning":
		return WarningStyle
	case "info":
		return InfoStyle
	}
	return GoodStyle
}

func GetSeverityIcon(severity string) string {
	switch strings.ToLower(severity) {
	case "critical":
		return "🔴"
	case "warning":
		return "⚠️"
	case "info":
		return "ℹ️"
	}
	return "✅"
}

// GetSeverityIconWithText pairs the icon with its label for section headers.
// The extra space after narrow emoji keeps the labels aligned.
func GetSeverityIconWithText(severity string) string {
	switch strings.ToLower(severity) {
	case "critical":
		return "🔴 Critical"
	case "warning":
		return "⚠️  Warning"
	case "info":
		return "ℹ️  Info"
	}
	return "✅ Good"
}

// TruncateString cuts s down to maxWidth, marking the cut with an ellipsis.
func TruncateString(s string, maxWidth int) string {
	if len(s) <= maxWidth {
		return s
	}
	const ellipsis = "..."
	if maxWidth < len(ellipsis)+1 {
		return strings.Repeat(".", maxWidth)
	}
	return s[:maxWidth-len(ellipsis)] + ellipsis
}

// PadRight pads s with spaces out to width.
func PadRight(s string, width int) string {
	if pad := width - len(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

// WrapText greedily wraps text at word boundaries. Widths under 10 come
// back unwrapped.
func WrapText(text string, width int) []string {
	words := strings.Fields(text)
	if width < 10 {
		return []string{text}
	}
	if len(words) == 0 {
		return []string{""}
	}

	lines := []string{words[0]}
	for _, word := range words[1:] {
		last := lines[len(lines)-1]
		if len(last)+1+len(word) <= width {
			lines[len(lines)-1] = last + " " + word
		} else {
			lines = append(lines, word)
		}
	}
	return lines
}

// CreateProgressBar renders fraction as a fixed-width cell bar. Below 4
// cells there is no room for one, so it falls back to a bare percentage.
func CreateProgressBar(fraction float64, width int, color lipgloss.Color) string {
	if width < 4 {
		return fmt.Sprintf("%.0f%%", fraction*100)
	}

	filled := min(max(int(math.Round(fraction*float64(width))), 0), width)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if color != "" {
		bar = fg(color).Render(bar)
	}
	return bar
}
