package tui

import (
	"fmt"
	"strings"

	"github.com/mabhi256/ldiag/utils"
)

// applyScrolling clips content to the viewport using the active tab's
// scroll offset. The offset is clamped here rather than in scrollDown, so
// content that shrank since the last render self-corrects.
func (m *Model) applyScrolling(content string, viewportHeight int) string {
	lines := strings.Split(content, "\n")
	if len(lines) <= viewportHeight {
		return content
	}

	maxScroll := len(lines) - viewportHeight
	pos := min(max(m.scrollPositions[m.currentTab], 0), maxScroll)
	m.scrollPositions[m.currentTab] = pos

	visible := lines[pos : pos+viewportHeight]

	// The last visible line becomes the position indicator, keeping the
	// rendered height exact.
	visible[len(visible)-1] = fmt.Sprintf("%s (line %d-%d of %d) %s",
		utils.MutedStyle.Render("▲"), pos+1, pos+viewportHeight, len(lines),
		utils.MutedStyle.Render("▼"))

	return strings.Join(visible, "\n")
}

func (m *Model) scrollUp(lines int) {
	m.scrollPositions[m.currentTab] = max(m.scrollPositions[m.currentTab]-lines, 0)
}

func (m *Model) scrollDown(lines int) {
	m.scrollPositions[m.currentTab] += lines
}
